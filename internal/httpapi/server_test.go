package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"summaryd/internal/generate"
	"summaryd/pkg/types"
)

type mockService struct {
	status       types.StatusResponse
	ready        bool
	validateErr  error
	segments     []string
	failAfter    int   // fail after emitting this many segments (-1: never)
	summarizeErr error // error to return on failure
	gotReq       types.SummarizeRequest
}

func (m *mockService) Validate(req types.SummarizeRequest) error { return m.validateErr }
func (m *mockService) Status() types.StatusResponse              { return m.status }
func (m *mockService) Ready() bool                               { return m.ready }

func (m *mockService) Summarize(ctx context.Context, req types.SummarizeRequest, w io.Writer, flush func()) error {
	m.gotReq = req
	for i, seg := range m.segments {
		if m.failAfter >= 0 && i == m.failAfter {
			return m.summarizeErr
		}
		if _, err := io.WriteString(w, seg); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
	}
	if m.failAfter >= 0 && m.failAfter >= len(m.segments) {
		return m.summarizeErr
	}
	return nil
}

func newMock() *mockService { return &mockService{ready: true, failAfter: -1} }

func postSummarize(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/summarize", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func TestSummarizeStreams(t *testing.T) {
	svc := newMock()
	svc.segments = []string{"TRANSLATION: hello\n", "• bullet\n"}
	w := postSummarize(t, NewMux(svc), `{"text":"שלום"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%s", ct)
	}
	if w.Header().Get("X-Session-Id") == "" {
		t.Fatalf("missing session id header")
	}
	if got := w.Body.String(); got != "TRANSLATION: hello\n• bullet\n" {
		t.Fatalf("body=%q", got)
	}
}

func TestSummarizeDecodesParams(t *testing.T) {
	svc := newMock()
	postSummarize(t, NewMux(svc), `{"text":"x","max_tokens":128,"back_translate":true,"top_p":0.9}`)
	if svc.gotReq.Text != "x" || !svc.gotReq.BackTranslate {
		t.Fatalf("req=%+v", svc.gotReq)
	}
	if svc.gotReq.MaxTokens == nil || *svc.gotReq.MaxTokens != 128 {
		t.Fatalf("max_tokens=%v", svc.gotReq.MaxTokens)
	}
	if svc.gotReq.TopP == nil || *svc.gotReq.TopP != 0.9 {
		t.Fatalf("top_p=%v", svc.gotReq.TopP)
	}
	if svc.gotReq.Temperature != nil {
		t.Fatalf("temperature should be unset, got %v", *svc.gotReq.Temperature)
	}
}

func TestSummarizeBadJSON(t *testing.T) {
	w := postSummarize(t, NewMux(newMock()), "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestSummarizeMissingText(t *testing.T) {
	svc := newMock()
	svc.validateErr = mockValidationErr{}
	w := postSummarize(t, NewMux(svc), `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var er types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Error != "Missing 'text' field" {
		t.Fatalf("error=%q", er.Error)
	}
}

type mockValidationErr struct{}

func (mockValidationErr) Error() string { return "Missing 'text' field" }

func TestSummarizeRequiresJSONContentType(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/summarize", bytes.NewBufferString(`{"text":"x"}`))
	NewMux(newMock()).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestSummarizeErrorBeforeFirstByteIs500(t *testing.T) {
	svc := newMock()
	svc.failAfter = 0
	svc.summarizeErr = errors.New("translator down")
	w := postSummarize(t, NewMux(svc), `{"text":"x"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var er types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(er.Error, "translator down") {
		t.Fatalf("error=%q", er.Error)
	}
}

func TestSummarizeUnavailableBackendIs503(t *testing.T) {
	svc := newMock()
	svc.failAfter = 0
	svc.summarizeErr = generate.ErrUnavailable("llama support not built")
	w := postSummarize(t, NewMux(svc), `{"text":"x"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestSummarizeMidStreamFailureKeeps200(t *testing.T) {
	svc := newMock()
	svc.segments = []string{"TRANSLATION: first\n", "never sent"}
	svc.failAfter = 1
	svc.summarizeErr = errors.New("generation failed mid-stream")
	w := postSummarize(t, NewMux(svc), `{"text":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	if body != "TRANSLATION: first\n" {
		t.Fatalf("body=%q", body)
	}
	if strings.Contains(body, "generation failed") {
		t.Fatalf("error leaked into stream: %q", body)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := newMock()
	svc.status = types.StatusResponse{State: "ready", GeneratorBackend: "llama-server"}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.GeneratorBackend != "llama-server" {
		t.Fatalf("body=%+v", body)
	}
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(newMock()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	svc := newMock()
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	svc.ready = false
	w = httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(newMock()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}
