// Package waitlist is a client for the remote waitlist API.
package waitlist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultAPIBase = "http://localhost:5000"
	defaultTimeout = 25 * time.Second
)

// Client calls the remote waitlist API.
type Client struct {
	apiBase    string
	httpClient *http.Client
}

// Option configures optional Client parameters.
type Option func(*Client)

// WithAPIBase sets the API server URL (e.g. "https://api.example.com").
func WithAPIBase(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.apiBase = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// current HTTP client, so a client given with WithHTTPClient keeps its
// transport whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIBase returns the API server base URL.
func (c *Client) APIBase() string { return c.apiBase }

// AddRequest is the body of POST /api/waitlist/add. Exactly one of Email and
// Mobile is set, matching Type.
type AddRequest struct {
	Type      string `json:"type"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AddResponse is the decoded reply of POST /api/waitlist/add.
type AddResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("waitlist api: status %d: %s", e.Status, e.Message)
}

// Count returns the current subscriber count.
func (c *Client) Count(ctx context.Context) (int, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/waitlist/count", nil)
	if err != nil {
		return 0, err
	}
	if !isOK(status) {
		return 0, &APIError{Status: status, Message: errorMessage(body, http.StatusText(status))}
	}

	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("waitlist count: unmarshal: %w", err)
	}
	// Some deployments return the count as a string; a missing count is 0.
	n, err := cast.ToIntE(out["count"])
	if err != nil {
		return 0, fmt.Errorf("waitlist count: %w", err)
	}
	return n, nil
}

// Add submits a signup. A 2xx reply is returned as-is (check Success); any
// other status becomes an *APIError.
func (c *Client) Add(ctx context.Context, req AddRequest) (*AddResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/waitlist/add", req)
	if err != nil {
		return nil, err
	}
	if !isOK(status) {
		return nil, &APIError{Status: status, Message: addErrorMessage(status, body)}
	}

	var out AddResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("waitlist add: server response was invalid: %w", err)
	}
	return &out, nil
}

// Exists asks the API whether value is already registered as kind.
func (c *Client) Exists(ctx context.Context, kind, value string) (bool, error) {
	payload := map[string]string{"type": kind, "value": value}
	status, body, err := c.do(ctx, http.MethodPost, "/api/waitlist/exists", payload)
	if err != nil {
		return false, err
	}
	if !isOK(status) {
		return false, &APIError{Status: status, Message: errorMessage(body, http.StatusText(status))}
	}

	var out struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, fmt.Errorf("waitlist exists: unmarshal: %w", err)
	}
	return out.Exists, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

func addErrorMessage(status int, body []byte) string {
	switch status {
	case http.StatusInternalServerError:
		return "Server temporarily unavailable. Please try again later."
	case http.StatusBadRequest:
		return errorMessage(body, "Invalid request data")
	default:
		return errorMessage(body, "Failed to add to waitlist")
	}
}

// errorMessage extracts "error" or "message" from a JSON error body.
func errorMessage(body []byte, fallback string) string {
	var out struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fallback
	}
	if out.Error != "" {
		return out.Error
	}
	if out.Message != "" {
		return out.Message
	}
	return fallback
}
