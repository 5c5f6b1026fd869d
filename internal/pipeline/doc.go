// Package pipeline orchestrates one summarize stream session: translate the
// input sentence by sentence, generate a bullet summary from the joined
// translation, and optionally translate each bullet back, writing every
// segment to the client as soon as it exists. It is structured into small
// files by concern:
//
//   - pipeline.go: Pipeline type, phase state machine, Run entry point.
//   - params.go: request validation and generation-parameter resolution.
//   - prompt.go: summary prompt construction.
//   - session.go: per-request session ids.
//   - service.go: the HTTP-facing service wrapper (status, counters).
//   - errors.go: error kinds and predicates.
//   - metrics.go: prometheus instrumentation.
//
// The whole session is pull-driven with one fragment or unit in flight; the
// external generation and translation calls are the only suspension points.
package pipeline
