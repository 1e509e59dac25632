// Package client is a typed HTTP client for the tenantctl admin API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client talks to a tenantctl server. It is safe for concurrent use; the
// access and refresh tokens obtained from Login are attached to every
// subsequent request.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu      sync.RWMutex
	access  string
	refresh string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithToken seeds an access token obtained elsewhere.
func WithToken(access string) Option {
	return func(c *Client) { c.access = access }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is the server's error envelope.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// IsNotFound reports whether err is an API not_found error.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is an API conflict error.
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusConflict
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	if c.access != "" {
		req.Header.Set("Authorization", "Bearer "+c.access)
	}
	c.mu.RUnlock()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope errorEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Type == "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Type:       "http_error",
				Message:    http.StatusText(resp.StatusCode),
			}
		}
		apiErr := envelope.Error
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// doData unwraps the {"data": ...} envelope most endpoints respond with.
func (c *Client) doData(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var envelope dataEnvelope
	if err := c.do(ctx, method, path, query, body, &envelope); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}
