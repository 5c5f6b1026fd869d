package pipeline

import (
	"fmt"
	"strings"

	"summaryd/internal/generate"
	"summaryd/pkg/types"
)

// Request field bounds. Out-of-range values are rejected up front rather than
// clamped so the caller learns about the mistake.
const (
	DefaultMaxTokens = 200
	MinMaxTokens     = 32
	MaxMaxTokens     = 1024
)

// ValidateRequest checks the request fields against their documented ranges.
// It must be called before any output byte is written; every failure it can
// return maps to HTTP 400.
func ValidateRequest(req types.SummarizeRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrValidation("Missing 'text' field")
	}
	if req.MaxTokens != nil && (*req.MaxTokens < MinMaxTokens || *req.MaxTokens > MaxMaxTokens) {
		return ErrValidation(fmt.Sprintf("max_tokens must be in [%d,%d]", MinMaxTokens, MaxMaxTokens))
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return ErrValidation("temperature must be in [0,2]")
	}
	if req.TopP != nil && (*req.TopP < 0 || *req.TopP > 1) {
		return ErrValidation("top_p must be in [0,1]")
	}
	if req.TopK != nil && (*req.TopK < 1 || *req.TopK > 200) {
		return ErrValidation("top_k must be in [1,200]")
	}
	if req.RepeatPenalty != nil && (*req.RepeatPenalty < 0.5 || *req.RepeatPenalty > 2) {
		return ErrValidation("repeat_penalty must be in [0.5,2]")
	}
	return nil
}

// resolveParams maps a validated request onto backend parameters. Unset
// sampling fields stay nil so they are never forwarded; only max_tokens gets
// a pipeline-side default.
func resolveParams(req types.SummarizeRequest, stopMarker string) generate.Params {
	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	return generate.Params{
		MaxTokens:     maxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		TopK:          req.TopK,
		RepeatPenalty: req.RepeatPenalty,
		Stop:          []string{stopMarker},
	}
}
