//go:build !llama

package generate

import "context"

// This file provides a no-CGO stub for the in-process llama backend. It is
// compiled when the 'llama' build tag is NOT set, keeping default builds and
// CI CGO-free. The real backend lives in local_llama.go (tagged 'llama').

var llamaBuilt = false

type LocalSource struct {
	modelPath string
	ctxSize   int
	threads   int
}

func NewLocalSource(modelPath string, ctxSize, threads int) *LocalSource {
	return &LocalSource{modelPath: modelPath, ctxSize: ctxSize, threads: threads}
}

func (l *LocalSource) Name() string { return "llama-local" }

// Open fails fast rather than mocking generation in binaries built without
// CGO support.
func (l *LocalSource) Open(ctx context.Context, prompt string, params Params) (FragmentStream, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
