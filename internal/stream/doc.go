// Package stream implements the incremental text pipeline primitives used by
// the summarize endpoint. It is structured into small files by concern:
//
//   - source.go: the pull-based Source contract shared by every stage.
//   - sentences.go: punctuation/newline sentence splitting for input text.
//   - accumulator.go: stop-marker-safe re-chunking of raw generation fragments.
//   - units.go: bullet-line segmentation of the accumulated chunk stream.
//   - transform.go: one-in-flight per-unit transformation (translation).
//
// Every stage is a stateful iterator: downstream Next calls drive upstream
// work, so exactly one fragment or unit is in flight at a time and per-session
// memory stays bounded regardless of generation length. Streams are finite and
// not restartable; io.EOF marks clean exhaustion.
package stream
