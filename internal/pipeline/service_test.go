package pipeline

import (
	"bytes"
	"context"
	"testing"

	"summaryd/pkg/types"
)

func TestServiceStatusAndCounters(t *testing.T) {
	gen := &fakeGenerator{frags: []string{"• a\nEND SUMMARY\n"}}
	p := newTestPipeline(t, &fakeTranslator{}, gen)
	svc := NewService(p, "http://translator:9000")

	if !svc.Ready() {
		t.Fatalf("not ready")
	}
	var buf bytes.Buffer
	if err := svc.Summarize(context.Background(), types.SummarizeRequest{Text: "A."}, &buf, nil); err != nil {
		t.Fatalf("summarize: %v", err)
	}

	st := svc.Status()
	if st.State != "ready" || st.GeneratorBackend != "fake" || st.TranslatorURL != "http://translator:9000" {
		t.Fatalf("status=%+v", st)
	}
	if st.SessionsTotal != 1 || st.SessionsInFlight != 0 {
		t.Fatalf("counters=%+v", st)
	}
}

func TestServiceValidate(t *testing.T) {
	p := newTestPipeline(t, &fakeTranslator{}, &fakeGenerator{})
	svc := NewService(p, "")
	if err := svc.Validate(types.SummarizeRequest{}); !IsValidation(err) {
		t.Fatalf("err=%v", err)
	}
	if err := svc.Validate(types.SummarizeRequest{Text: "ok"}); err != nil {
		t.Fatalf("valid rejected: %v", err)
	}
}
