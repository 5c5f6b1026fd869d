//go:build llama

package generate

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// LocalSource runs generation in-process via go-llama.cpp. The model is
// loaded lazily on first Open and shared by later sessions; llama.cpp
// serializes inference internally, so concurrent streams queue behind the
// model mutex.
type LocalSource struct {
	modelPath string
	ctxSize   int
	threads   int

	mu    sync.Mutex
	model *llama.LLama
}

func NewLocalSource(modelPath string, ctxSize, threads int) *LocalSource {
	return &LocalSource{modelPath: modelPath, ctxSize: ctxSize, threads: threads}
}

func (l *LocalSource) Name() string { return "llama-local" }

func (l *LocalSource) ensureModel() (*llama.LLama, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		return l.model, nil
	}
	if strings.TrimSpace(l.modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(l.modelPath, llama.SetContext(l.ctxSize))
	if err != nil {
		return nil, err
	}
	l.model = m
	return m, nil
}

// Open bridges llama.cpp's push-style token callback to the pull-based
// FragmentStream contract with a bounded channel: Predict blocks in its own
// goroutine whenever the consumer is not pulling.
func (l *LocalSource) Open(ctx context.Context, prompt string, params Params) (FragmentStream, error) {
	m, err := l.ensureModel()
	if err != nil {
		return nil, err
	}
	genCtx, cancel := context.WithCancel(ctx)
	st := &localStream{
		cancel: cancel,
		frags:  make(chan string),
		errc:   make(chan error, 1),
	}
	go func() {
		defer close(st.frags)
		l.mu.Lock()
		defer l.mu.Unlock()
		m.SetTokenCallback(func(tok string) bool {
			select {
			case st.frags <- tok:
				return true
			case <-genCtx.Done():
				return false
			}
		})
		if _, err := m.Predict(prompt, predictOptions(params, l.threads)...); err != nil {
			if genCtx.Err() != nil {
				st.errc <- genCtx.Err()
				return
			}
			st.errc <- err
		}
	}()
	return st, nil
}

type localStream struct {
	cancel context.CancelFunc
	frags  chan string
	errc   chan error
}

func (st *localStream) Next() (string, error) {
	frag, ok := <-st.frags
	if !ok {
		select {
		case err := <-st.errc:
			return "", err
		default:
			return "", io.EOF
		}
	}
	return frag, nil
}

func (st *localStream) Close() error {
	st.cancel()
	// Drain so the producer goroutine can exit.
	for range st.frags {
	}
	return nil
}

func predictOptions(params Params, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, params.MaxTokens)),
		llama.SetThreads(maxInt(1, threads)),
	}
	if params.Temperature != nil {
		po = append(po, llama.SetTemperature(float32(*params.Temperature)))
	}
	if params.TopP != nil {
		po = append(po, llama.SetTopP(float32(*params.TopP)))
	}
	if params.TopK != nil {
		po = append(po, llama.SetTopK(*params.TopK))
	}
	if params.RepeatPenalty != nil {
		po = append(po, llama.SetPenalty(float32(*params.RepeatPenalty)))
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
