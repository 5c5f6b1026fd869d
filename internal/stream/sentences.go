package stream

import (
	"strings"
	"unicode"
)

// SplitSentences splits text into trimmed sentences in left-to-right order.
// A sentence ends at sentence-final punctuation ('.', '!', '?') followed by
// whitespace, or at a newline. Empty segments are dropped; empty input yields
// a nil slice. The heuristic is deliberately punctuation-only so it works for
// scripts without capitalization cues (e.g. Hebrew).
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		b.WriteRune(r)
		if isSentenceFinal(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			flush()
		}
	}
	flush()
	return out
}

func isSentenceFinal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
