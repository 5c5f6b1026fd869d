package generate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func sseServer(t *testing.T, lines []string, capture *completionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode: %v", err)
			}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			io.WriteString(w, l+"\n\n")
		}
	}))
}

func TestServerSourceStreamsFragments(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"text":"Hello"}]}`,
		`data: {"choices":[{"text":" world"}]}`,
		`data: [DONE]`,
	}, nil)
	defer srv.Close()

	src := NewServerSource(srv.URL, "", "", 0, time.Second)
	st, err := src.Open(context.Background(), "prompt", Params{MaxTokens: 16})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	var got []string
	for {
		frag, err := st.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		got = append(got, frag)
	}
	if strings.Join(got, "") != "Hello world" {
		t.Fatalf("got=%q", got)
	}
}

func TestServerSourceParsesDeltaAndNativeLines(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"a"}}]}`,
		`data: {"content":"b"}`,
		`data: [DONE]`,
	}, nil)
	defer srv.Close()

	src := NewServerSource(srv.URL, "", "", 0, time.Second)
	st, err := src.Open(context.Background(), "p", Params{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	var all string
	for {
		frag, err := st.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		all += frag
	}
	if all != "ab" {
		t.Fatalf("all=%q", all)
	}
}

func TestServerSourceUnsetParamsNotForwarded(t *testing.T) {
	var captured completionRequest
	srv := sseServer(t, []string{`data: [DONE]`}, &captured)
	defer srv.Close()

	src := NewServerSource(srv.URL, "", "phi-3-mini", 0, time.Second)
	st, err := src.Open(context.Background(), "p", Params{
		MaxTokens: 200,
		TopP:      floatPtr(0.9),
		Stop:      []string{"END SUMMARY"},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	st.Close()

	if captured.Temperature != nil || captured.TopK != nil || captured.RepeatPenalty != nil {
		t.Fatalf("unset params forwarded: %+v", captured)
	}
	if captured.TopP == nil || *captured.TopP != 0.9 {
		t.Fatalf("top_p=%v", captured.TopP)
	}
	if captured.MaxTokens != 200 || !captured.Stream || captured.Model != "phi-3-mini" {
		t.Fatalf("request=%+v", captured)
	}
	if len(captured.Stop) != 1 || captured.Stop[0] != "END SUMMARY" {
		t.Fatalf("stop=%v", captured.Stop)
	}
}

func TestServerSourceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewServerSource(srv.URL, "", "", 0, time.Second)
	if _, err := src.Open(context.Background(), "p", Params{}); err == nil {
		t.Fatalf("expected error")
	} else if !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("err=%v", err)
	}
}

func TestServerSourceContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := sseServer(t, []string{`data: [DONE]`}, nil)
	defer srv.Close()

	src := NewServerSource(srv.URL, "", "", 0, time.Second)
	if _, err := src.Open(ctx, "p", Params{}); err == nil {
		t.Fatalf("expected context error")
	}
}
