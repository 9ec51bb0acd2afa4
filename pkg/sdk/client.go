// Package sdk is a small HTTP client for the guidechat API, used by
// the bundled terminal client and external integrations.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("guidechat API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to a guidechat server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option customizes the client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		// Submissions block until the full answer pipeline has run.
		httpClient: &http.Client{Timeout: 3 * time.Minute},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateSession opens a new conversation seeded with the greeting.
func (c *Client) CreateSession(ctx context.Context) (Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/sessions", nil, &sess)
	return sess, err
}

// Session fetches the ordered conversation history.
func (c *Client) Session(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodGet, "/sessions/"+id, nil, &sess)
	return sess, err
}

// SendMessage submits user input and returns the assistant reply.
func (c *Client) SendMessage(ctx context.Context, id, content string) (Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/messages",
		map[string]string{"content": content}, &msg)
	return msg, err
}

// ClearSession resets the history to a single greeting message.
func (c *Client) ClearSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/clear", nil, &sess)
	return sess, err
}

// DeleteSession removes the session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+id, nil, nil)
}

// Health fetches the service health report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &body) == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Code = "unknown"
		apiErr.Message = string(data)
	}
	return apiErr
}
