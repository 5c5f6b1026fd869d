package translate

import (
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

// Client talks to a translation serving endpoint (POST /translate) over HTTP.
// The endpoint wraps an NLLB-family model: one request translates one unit of
// text and returns synchronously.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a translation client. timeout bounds one translation
// call; zero disables it.
func NewClient(baseURL string, timeout time.Duration) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: tr, Timeout: timeout},
	}
}

// BaseURL returns the configured endpoint for status reporting.
func (c *Client) BaseURL() string { return c.baseURL }

type translateRequest struct {
	Text    string `json:"text"`
	SrcLang string `json:"src_lang"`
	TgtLang string `json:"tgt_lang"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error"`
}

// Translate posts one unit to the serving endpoint. A malformed target tag is
// rejected client-side; a 422 from the server is mapped to the same
// unsupported-language error kind.
func (c *Client) Translate(ctx context.Context, text, srcLang, tgtLang string) (string, error) {
	if !ValidTag(tgtLang) {
		return "", ErrUnsupportedLanguage(tgtLang)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	body, _ := json.Marshal(translateRequest{Text: text, SrcLang: srcLang, TgtLang: tgtLang})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return "", ErrUnsupportedLanguage(tgtLang)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.New("translation server http error: " + resp.Status + ": " + string(b))
	}
	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New("translation server error: " + out.Error)
	}
	return strings.TrimSpace(out.Translation), nil
}
