package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/homefix/homefix/log"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4 << 10

// BaseURLSource supplies the backend root address. It is consulted on every
// request so a resolver can move the client to a new server at any time.
type BaseURLSource interface {
	BaseURL() string
}

// StaticURL is a BaseURLSource that never changes.
type StaticURL string

func (s StaticURL) BaseURL() string { return string(s) }

// Client talks to the home-repair assistant backend. Requests are never
// retried; callers decide how a failure is surfaced.
type Client struct {
	source     BaseURLSource
	httpClient *http.Client
	headers    map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a client that resolves its base URL from source.
func NewClient(source BaseURLSource, opts ...Option) *Client {
	c := &Client{
		source:     source,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the address the next request will be sent to.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.source.BaseURL(), "/")
}

// Chat sends a free-form message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", newError(ErrCodeInvalidRequest, "/chat/", "message cannot be empty", nil)
	}
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat/", ChatRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Recommend asks for supplies and products that help with problem.
func (c *Client) Recommend(ctx context.Context, problem, location string) (*RecommendResponse, error) {
	var resp RecommendResponse
	req := RecommendRequest{Problem: problem, Location: location}
	if err := c.do(ctx, http.MethodPost, "/recommend/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze submits a base64 JPEG and returns the diagnosed problem, its
// location and a suggested solution.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) (*AnalyzeResponse, error) {
	if imageBase64 == "" {
		return nil, newError(ErrCodeInvalidRequest, "/analyze/", "image cannot be empty", nil)
	}
	var resp AnalyzeResponse
	if err := c.do(ctx, http.MethodPost, "/analyze/", AnalyzeRequest{ImageBase64: imageBase64}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeWithText is Analyze with a user note describing the photo.
func (c *Client) AnalyzeWithText(ctx context.Context, imageBase64, message string) (*AnalyzeResponse, error) {
	if imageBase64 == "" {
		return nil, newError(ErrCodeInvalidRequest, "/analyze-with-text/", "image cannot be empty", nil)
	}
	var resp AnalyzeResponse
	req := AnalyzeWithTextRequest{ImageBase64: imageBase64, Message: message}
	if err := c.do(ctx, http.MethodPost, "/analyze-with-text/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ServerInfo fetches the backend's self-reported base URL.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var resp ServerInfo
	if err := c.do(ctx, http.MethodGet, "/server-info/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs a single JSON request against the current base URL.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return newError(ErrCodeInvalidRequest, path, "failed to marshal request body", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	url := c.BaseURL() + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return newError(ErrCodeInvalidRequest, path, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WarningLog.Printf("%s %s failed after %s: %v", method, log.SanitizeURL(url), time.Since(start), err)
		code := ErrCodeConnectionFailed
		if isTimeout(err) {
			code = ErrCodeTimeout
		}
		return newError(code, path, "request failed", err)
	}
	defer resp.Body.Close()
	log.DebugLog.Printf("%s %s -> %d in %s", method, log.SanitizeURL(url), resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newError(ErrCodeServer, path, errorMessage(respBody, resp.Status), nil)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return newError(ErrCodeInvalidResponse, path, "failed to decode response", err)
	}
	return nil
}

// errorMessage prefers FastAPI's detail field and falls back to the raw body.
func errorMessage(body []byte, status string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != nil {
		if s, ok := eb.Detail.(string); ok {
			return s
		}
		return fmt.Sprint(eb.Detail)
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return status
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
