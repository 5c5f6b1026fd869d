package pipeline

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"summaryd/pkg/types"
)

// Service is the HTTP-facing wrapper around a Pipeline: it carries the
// process-lifetime counters reported by /status and classifies session
// outcomes for metrics. One Service is built at startup and shared by all
// requests; it owns no per-request state.
type Service struct {
	p             *Pipeline
	translatorURL string
	started       time.Time
	inflight      atomic.Int64
	total         atomic.Uint64
}

// NewService wraps p. translatorURL is reported in /status.
func NewService(p *Pipeline, translatorURL string) *Service {
	return &Service{p: p, translatorURL: translatorURL, started: time.Now()}
}

// Validate checks a request before any streaming begins.
func (s *Service) Validate(req types.SummarizeRequest) error {
	return ValidateRequest(req)
}

// Summarize runs one stream session.
func (s *Service) Summarize(ctx context.Context, req types.SummarizeRequest, w io.Writer, flush func()) error {
	s.inflight.Add(1)
	s.total.Add(1)
	defer s.inflight.Add(-1)

	err := s.p.Run(ctx, req, w, flush)
	switch {
	case err == nil:
		sessionsTotal.WithLabelValues("ok").Inc()
	case ctx.Err() != nil:
		sessionsTotal.WithLabelValues("canceled").Inc()
	default:
		sessionsTotal.WithLabelValues("error").Inc()
	}
	return err
}

// Status reports service state for GET /status.
func (s *Service) Status() types.StatusResponse {
	now := time.Now()
	return types.StatusResponse{
		State:            "ready",
		GeneratorBackend: s.p.generator.Name(),
		TranslatorURL:    s.translatorURL,
		SessionsInFlight: s.inflight.Load(),
		SessionsTotal:    s.total.Load(),
		UptimeSeconds:    int64(now.Sub(s.started).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
}

// Ready reports whether the service can accept requests. Construction
// validates all configuration, so a built Service is ready.
func (s *Service) Ready() bool { return s.p != nil }
