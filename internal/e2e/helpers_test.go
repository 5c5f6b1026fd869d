package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"summaryd/internal/generate"
	"summaryd/internal/httpapi"
	"summaryd/internal/pipeline"
	"summaryd/internal/translate"
)

// newTranslatorStub serves POST /translate with the given per-text mapping.
// Texts missing from the map are echoed back wrapped in brackets so tests can
// see which direction a call went.
func newTranslatorStub(t *testing.T, byText map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Text    string `json:"text"`
			SrcLang string `json:"src_lang"`
			TgtLang string `json:"tgt_lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, ok := byText[req.Text]
		if !ok {
			out = "[" + req.TgtLang + "] " + req.Text
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"translation": out})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newGeneratorStub serves POST /v1/completions as an SSE stream of the given
// fragments, recording the prompt of the last request.
func newGeneratorStub(t *testing.T, fragments []string, lastPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if lastPrompt != nil {
			*lastPrompt = req.Prompt
		}
		w.Header().Set("Content-Type", "text/event-stream")
		f, _ := w.(http.Flusher)
		for _, frag := range fragments {
			b, _ := json.Marshal(map[string]string{"content": frag})
			fmt.Fprintf(w, "data: %s\n\n", b)
			if f != nil {
				f.Flush()
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newSummarydServer wires the real pipeline, translator client and generator
// client against the stub backends and serves the real mux.
func newSummarydServer(t *testing.T, translatorURL, generatorURL string) *httptest.Server {
	t.Helper()
	tr := translate.NewClient(translatorURL, 10*time.Second)
	gen := generate.NewServerSource(generatorURL, "", "", 10*time.Second, 5*time.Second)
	p, err := pipeline.New(tr, gen, pipeline.Config{
		SourceLang: "heb_Hebr",
		TargetLang: "eng_Latn",
		StopMarker: "END SUMMARY",
		Bullets:    3,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	svc := pipeline.NewService(p, translatorURL)
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv
}
