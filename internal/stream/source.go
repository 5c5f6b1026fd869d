package stream

import (
	"context"
	"io"
)

// Source is the pull contract between pipeline stages. Next returns the next
// item, io.EOF when the stream is cleanly exhausted, or any other error when
// the stream failed. After a non-nil error the stream must not be pulled again.
type Source interface {
	Next() (string, error)
}

// sliceSource serves a fixed slice of items, then io.EOF.
type sliceSource struct {
	items []string
	pos   int
}

// FromSlice wraps a slice as a Source.
func FromSlice(items []string) Source {
	return &sliceSource{items: items}
}

func (s *sliceSource) Next() (string, error) {
	if s.pos >= len(s.items) {
		return "", io.EOF
	}
	it := s.items[s.pos]
	s.pos++
	return it, nil
}

// ctxSource observes context cancellation between pulls. An item already
// requested from the wrapped source is allowed to complete; the cancellation
// is seen on the following pull.
type ctxSource struct {
	ctx context.Context
	src Source
}

// WithContext returns a Source that stops with ctx.Err() once ctx is done.
func WithContext(ctx context.Context, src Source) Source {
	return &ctxSource{ctx: ctx, src: src}
}

func (c *ctxSource) Next() (string, error) {
	if err := c.ctx.Err(); err != nil {
		return "", err
	}
	return c.src.Next()
}

// Collect drains a source into a slice. Intended for tests and small inputs;
// the streaming path never collects.
func Collect(src Source) ([]string, error) {
	var out []string
	for {
		it, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, it)
	}
}
