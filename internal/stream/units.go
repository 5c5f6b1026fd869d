package stream

import (
	"io"
	"strings"
)

// Bullet is the glyph the generation prompt asks for at the start of each
// summary line. It doubles as a unit delimiter so a model that forgets
// newlines between bullets still segments correctly.
const Bullet = "•"

// UnitSegmenter splits a chunk stream into complete semantic units (bullet
// lines). Incomplete trailing text is buffered until a delimiter arrives or
// the upstream ends. The sentinel phrase (the stop marker text) is never
// emitted as a unit, and neither is an empty or whitespace-only span.
type UnitSegmenter struct {
	src      Source
	sentinel string
	buf      string
	done     bool
	err      error
}

// NewUnitSegmenter wraps src. sentinel is compared against trimmed candidate
// units and suppressed; pass the stop marker text.
func NewUnitSegmenter(src Source, sentinel string) *UnitSegmenter {
	return &UnitSegmenter{src: src, sentinel: sentinel}
}

// Next returns the next complete unit in text order, io.EOF at end of stream,
// or the upstream error. Units are trimmed and stripped of leading bullet
// glyphs; each source span produces at most one unit, exactly once.
func (u *UnitSegmenter) Next() (string, error) {
	for {
		if unit, ok := u.takeUnit(); ok {
			return unit, nil
		}
		if u.err != nil {
			return "", u.err
		}
		if u.done {
			// Residual flush: whatever is left after the last delimiter.
			if unit := u.clean(u.buf); u.buf != "" {
				u.buf = ""
				if unit != "" {
					return unit, nil
				}
			}
			return "", io.EOF
		}

		chunk, err := u.src.Next()
		if err == io.EOF {
			u.done = true
			continue
		}
		if err != nil {
			u.err = err
			u.buf = ""
			return "", err
		}
		u.buf += chunk
	}
}

// takeUnit scans the buffer for the first delimiter and extracts one unit.
// It keeps consuming delimiters until a non-empty, non-sentinel unit appears
// or the buffer has no complete span left.
func (u *UnitSegmenter) takeUnit() (string, bool) {
	for {
		idx := strings.IndexAny(u.buf, "\n"+Bullet)
		if idx < 0 {
			return "", false
		}
		width := 1
		if u.buf[idx] != '\n' {
			width = len(Bullet)
		}
		unit := u.clean(u.buf[:idx])
		u.buf = u.buf[idx+width:]
		if unit != "" {
			return unit, true
		}
	}
}

// clean trims a candidate span, strips leading bullet glyphs, and suppresses
// the sentinel phrase.
func (u *UnitSegmenter) clean(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, Bullet) {
		s = strings.TrimSpace(strings.TrimPrefix(s, Bullet))
	}
	if s == u.sentinel {
		return ""
	}
	return s
}
