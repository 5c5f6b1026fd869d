package generate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ServerSource talks to a running llama.cpp server (or any OpenAI-compatible
// completion endpoint) over HTTP and streams fragments from its SSE response.
type ServerSource struct {
	baseURL    string
	apiKey     string
	model      string
	reqTimeout time.Duration
	httpClient *http.Client
}

// NewServerSource constructs a server-backed generation source. reqTimeout
// bounds one whole generation; zero disables it.
func NewServerSource(baseURL, apiKey, model string, reqTimeout, connectTimeout time.Duration) *ServerSource {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Client timeout stays 0: deadlines ride on the request context so a
	// long stream is not cut off mid-generation by a transport timeout.
	return &ServerSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		reqTimeout: reqTimeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}
}

func (s *ServerSource) Name() string { return "llama-server" }

// completionRequest is the payload for /v1/completions. Pointer fields vanish
// from the JSON when unset so the server's own sampling defaults apply.
type completionRequest struct {
	Model         string   `json:"model,omitempty"`
	Prompt        string   `json:"prompt"`
	MaxTokens     int      `json:"max_tokens,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"top_p,omitempty"`
	TopK          *int     `json:"top_k,omitempty"`
	RepeatPenalty *float64 `json:"repeat_penalty,omitempty"`
	Stop          []string `json:"stop,omitempty"`
	Stream        bool     `json:"stream"`
}

// streamChoice is a minimal subset of an OpenAI-style streaming response.
type streamChoice struct {
	Text  string `json:"text"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

type streamResponse struct {
	Choices []streamChoice `json:"choices"`
}

func (s *ServerSource) Open(ctx context.Context, prompt string, params Params) (FragmentStream, error) {
	cancel := context.CancelFunc(func() {})
	if s.reqTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.reqTimeout)
	}
	payload := completionRequest{
		Model:         s.model,
		Prompt:        prompt,
		MaxTokens:     params.MaxTokens,
		Temperature:   params.Temperature,
		TopP:          params.TopP,
		TopK:          params.TopK,
		RepeatPenalty: params.RepeatPenalty,
		Stop:          params.Stop,
		Stream:        true,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		cancel()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, errors.New("generation server http error: " + resp.Status + ": " + string(b))
	}
	return &serverStream{
		ctx:    ctx,
		cancel: cancel,
		body:   resp.Body,
		r:      bufio.NewReader(resp.Body),
	}, nil
}

// serverStream parses SSE lines lazily: each Next reads at most up to the
// next data line, keeping the stream strictly pull-driven.
type serverStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	body   io.ReadCloser
	r      *bufio.Reader
	done   bool
}

func (st *serverStream) Next() (string, error) {
	if st.done {
		return "", io.EOF
	}
	for {
		line, err := st.r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSpace(line)
			if line == "" {
				// heartbeat/blank separator
			} else if strings.HasPrefix(strings.ToLower(line), "data:") {
				data := strings.TrimSpace(line[len("data:"):])
				if data == "[DONE]" {
					st.finish()
					return "", io.EOF
				}
				if frag, ok := parseFragment(data); ok {
					// Empty fragments (role-only deltas, finish markers)
					// are treated as no-ops by the caller.
					return frag, nil
				}
			}
		}
		if err != nil {
			st.finish()
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			if st.ctx.Err() != nil {
				return "", st.ctx.Err()
			}
			return "", err
		}
	}
}

// parseFragment extracts the text fragment from one SSE data payload.
// Both OpenAI-style choice deltas and llama.cpp native {"content": ...}
// lines are accepted.
func parseFragment(data string) (string, bool) {
	var msg streamResponse
	if err := json.Unmarshal([]byte(data), &msg); err == nil && len(msg.Choices) > 0 {
		if msg.Choices[0].Text != "" {
			return msg.Choices[0].Text, true
		}
		return msg.Choices[0].Delta.Content, true
	}
	var generic struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(data), &generic); err == nil {
		return generic.Content, true
	}
	return "", false
}

func (st *serverStream) finish() {
	if !st.done {
		st.done = true
		st.body.Close()
		st.cancel()
	}
}

func (st *serverStream) Close() error {
	st.finish()
	return nil
}
