package generate

import "context"

// Source abstracts the generation backend. Open starts one generation and
// returns a pull-based fragment stream; the backend terminates the stream no
// later than params.MaxTokens generated tokens or when any stop sequence is
// produced.
type Source interface {
	// Open starts generating a completion for prompt. The returned stream
	// must be closed by the caller; Next must return when ctx is canceled.
	Open(ctx context.Context, prompt string, params Params) (FragmentStream, error)
	// Name identifies the backend for status reporting.
	Name() string
}

// FragmentStream yields generated text fragments of arbitrary size.
// Next returns io.EOF when generation is complete.
type FragmentStream interface {
	Next() (string, error)
	Close() error
}

// Params captures generation parameters forwarded to the backend. Sampling
// fields are pointers: a nil field is left out of the backend request entirely
// so the backend's own default applies.
type Params struct {
	MaxTokens     int
	Temperature   *float64
	TopP          *float64
	TopK          *int
	RepeatPenalty *float64
	// Stop sequences; generation ends when any is produced. The backend may
	// or may not strip the matched sequence, so callers still run marker
	// detection on the fragment stream.
	Stop []string
}
