package types

// SummarizeRequest is the POST /summarize payload. Sampling fields are
// pointers to distinguish "unset" from a zero value: unset fields are never
// forwarded to the generation backend, so its own defaults stay in effect.
type SummarizeRequest struct {
	// Required input text in the source language.
	// example: טקסט לדוגמה לסיכום.
	Text string `json:"text"`
	// Maximum number of tokens to generate (32..1024). Defaults to 200.
	// example: 200
	MaxTokens *int `json:"max_tokens,omitempty" example:"200"`
	// Also translate each generated bullet back to the source language.
	// example: false
	BackTranslate bool `json:"back_translate,omitempty" example:"false"`
	// Sampling temperature (0..2).
	// example: 0.3
	Temperature *float64 `json:"temperature,omitempty" example:"0.3"`
	// Nucleus sampling probability (0..1).
	// example: 0.9
	TopP *float64 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling: limit candidates to the top K tokens (1..200).
	// example: 40
	TopK *int `json:"top_k,omitempty" example:"40"`
	// Penalty applied to repeated tokens (0.5..2).
	// example: 1.1
	RepeatPenalty *float64 `json:"repeat_penalty,omitempty" example:"1.1"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: Missing 'text' field
	Error string `json:"error" example:"Missing 'text' field"`
	// HTTP status code.
	// example: 400
	Code int `json:"code,omitempty" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall service state (e.g., ready).
	// example: ready
	State string `json:"state" example:"ready"`
	// Generation backend in use (e.g., llama-server, llama-local).
	// example: llama-server
	GeneratorBackend string `json:"generator_backend" example:"llama-server"`
	// Translation service base URL.
	// example: http://localhost:9000
	TranslatorURL string `json:"translator_url" example:"http://localhost:9000"`
	// Stream sessions currently in flight.
	// example: 1
	SessionsInFlight int64 `json:"sessions_in_flight" example:"1"`
	// Total stream sessions served since start.
	// example: 42
	SessionsTotal uint64 `json:"sessions_total" example:"42"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
