package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"summaryd/internal/generate"
	"summaryd/internal/pipeline"
	"summaryd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Validate(req types.SummarizeRequest) error
	Summarize(ctx context.Context, req types.SummarizeRequest, w io.Writer, flush func()) error
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the router: POST /summarize plus status, health, metrics and
// the optional swagger mount.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/summarize", summarizeHandler(svc))

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// countingWriter tracks whether any stream byte reached the client: before
// the first byte the handler can still change the status code, after it the
// stream just ends early on failure.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// summarizeHandler streams the pipeline output as a live text/plain body.
//
// @Summary      Summarize text into translated bullet points
// @Description  Translates the input sentence by sentence, generates a bullet summary, optionally back-translates each bullet, and streams every segment as soon as it is complete.
// @Accept       json
// @Produce      plain
// @Param        request  body  types.SummarizeRequest  true  "summarize request"
// @Success      200  {string}  string  "live text stream"
// @Failure      400  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /summarize [post]
func summarizeHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.SummarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		// All validation happens before the first output byte.
		if err := svc.Validate(req); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		sid := pipeline.NewSessionID()
		w.Header().Set("X-Session-Id", sid)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		cw := &countingWriter{w: w}
		writer := io.Writer(cw)
		lvl := requestLogLevel(r)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(cw, &streamLineWriter{})
		}

		rid := middleware.GetReqID(r.Context())
		start := time.Now()
		if lvl >= LevelInfo {
			if zlog != nil {
				zlog.Info().Str("path", r.URL.Path).Str("session_id", sid).Str("request_id", rid).Msg("summarize start")
			} else {
				log.Printf("summarize start path=%s session=%s", r.URL.Path, sid)
			}
		}

		// Join server base context with request context so shutdown cancels
		// in-flight streams too.
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if streamTimeout > 0 {
			var tcancel context.CancelFunc
			joined, tcancel = context.WithTimeout(joined, time.Duration(streamTimeout)*time.Second)
			defer tcancel()
		}
		ctx := pipeline.WithSessionID(joined, sid)

		err := svc.Summarize(ctx, req, writer, flush)
		status := http.StatusOK
		if err != nil {
			switch {
			case r.Context().Err() != nil || serverBaseCtx.Err() != nil:
				// Client disconnect or shutdown; nothing useful to send.
				status = 0
			case cw.n > 0:
				// Streaming already started; the status code is sent. The
				// stream just ends early and the failure is logged below.
				status = http.StatusOK
			case generate.IsUnavailable(err):
				status = http.StatusServiceUnavailable
				writeJSONError(w, status, err.Error())
			case pipeline.IsValidation(err):
				status = http.StatusBadRequest
				writeJSONError(w, status, err.Error())
			default:
				if he, ok := err.(HTTPError); ok {
					status = he.StatusCode()
				} else {
					status = http.StatusInternalServerError
				}
				writeJSONError(w, status, err.Error())
			}
		}
		if lvl >= LevelInfo && status != 0 {
			if zlog != nil {
				z := zlog.Info().Int("status", status).Str("session_id", sid).Str("request_id", rid).Dur("dur", time.Since(start))
				if err != nil {
					z = z.Err(err)
				}
				z.Msg("summarize end")
			} else {
				log.Printf("summarize end status=%d session=%s dur=%s err=%v", status, sid, time.Since(start), err)
			}
		} else if err != nil && status == 0 {
			log.Printf("summarize aborted session=%s err=%v", sid, err)
		}
	}
}
