package pipeline

import (
	"fmt"
	"strings"

	"summaryd/internal/stream"
)

// PromptBuilder turns the translated input into a generation prompt. It is
// pluggable so other use cases (different bullet counts, different
// instructions) can reuse the pipeline unchanged.
type PromptBuilder func(text string, bullets int, stopMarker string) string

// SummaryPrompt builds the default summarization prompt: exactly `bullets`
// standalone bullet lines, each starting with the bullet glyph, terminated by
// the stop marker. The phrasing asks for plain, idiom-free English so the
// bullets survive back-translation.
func SummaryPrompt(text string, bullets int, stopMarker string) string {
	var b strings.Builder
	b.WriteString("You are a professional English writer and summarizer.\n")
	fmt.Fprintf(&b, "Summarize the following text into exactly %d concise, natural bullet points.\n", bullets)
	b.WriteString("- Focus on meaning and intention rather than literal phrasing.\n")
	b.WriteString("- Use clear, complete sentences suitable for direct translation. Avoid idioms or complex phrasing.\n")
	b.WriteString("- Each bullet should stand alone as a complete, human-readable sentence.\n")
	b.WriteString("- Use simple, fluent English and vary structure.\n")
	fmt.Fprintf(&b, "- Start each bullet with '%s' (U+2022) and place each bullet on a new line.\n", stream.Bullet)
	fmt.Fprintf(&b, "- Output ONLY the %d bullets, then the phrase '%s'.\n", bullets, stopMarker)
	b.WriteString("- Do not repeat or restate information.\n")
	fmt.Fprintf(&b, "\nText:\n%s\n\nOutput:\n", text)
	return b.String()
}
