package stream

import (
	"errors"
	"io"
	"strings"
)

// Accumulator re-emits arbitrarily sized generation fragments as larger,
// stop-marker-safe chunks. The marker may arrive split across fragment
// boundaries; no emitted chunk ever contains it as a substring. Once the
// marker is detected the accumulator emits any preceding content, then a
// single end-of-stream marker chunk, and stops pulling from the source even
// if it has more fragments.
type Accumulator struct {
	src    Source
	marker string

	// pending holds at most len(marker)-1 trailing bytes that could be the
	// start of a split marker.
	pending  string
	endChunk string
	done     bool
	err      error
}

// NewAccumulator wraps src. An empty marker is invalid configuration.
func NewAccumulator(src Source, marker string) (*Accumulator, error) {
	if marker == "" {
		return nil, errors.New("stop marker must not be empty")
	}
	return &Accumulator{src: src, marker: marker}, nil
}

// EndChunk is the fixed chunk emitted once when the stop marker is detected.
// Downstream segmentation drops it; it exists so the raw chunk stream still
// records where generation ended.
func (a *Accumulator) EndChunk() string {
	return "\n" + a.marker + "\n"
}

// Next returns the next safe chunk, io.EOF when the stream is over, or the
// source's error. On a source error the partial pending buffer is discarded
// rather than emitted: it may be the unconfirmed prefix of a stop marker.
func (a *Accumulator) Next() (string, error) {
	for {
		if a.endChunk != "" {
			ch := a.endChunk
			a.endChunk = ""
			return ch, nil
		}
		if a.err != nil {
			return "", a.err
		}
		if a.done {
			return "", io.EOF
		}

		frag, err := a.src.Next()
		if err == io.EOF {
			a.done = true
			if a.pending != "" {
				out := a.pending
				a.pending = ""
				return out, nil
			}
			return "", io.EOF
		}
		if err != nil {
			a.err = err
			a.pending = ""
			return "", err
		}
		if frag == "" {
			continue
		}
		a.pending += frag

		if idx := strings.Index(a.pending, a.marker); idx >= 0 {
			prefix := a.pending[:idx]
			a.pending = ""
			a.done = true
			a.endChunk = a.EndChunk()
			if prefix != "" {
				return prefix, nil
			}
			continue
		}

		keep := len(a.marker) - 1
		if len(a.pending) > keep {
			out := a.pending[:len(a.pending)-keep]
			a.pending = a.pending[len(a.pending)-keep:]
			return out, nil
		}
	}
}
