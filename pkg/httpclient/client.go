// Package httpclient is a small fluent HTTP client with per-request timeout
// and retry support, used for talking to the render cluster.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	base    *http.Client
	retries int
	backoff time.Duration
	headers map[string]string
}

// New builds a client with the given request timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		base:    &http.Client{Timeout: timeout},
		backoff: 500 * time.Millisecond,
		headers: map[string]string{},
	}
}

// Retry configures up to n retries on transport errors and 5xx responses.
func (c *Client) Retry(n int) *Client {
	c.retries = n
	return c
}

// Header sets a header applied to every request.
func (c *Client) Header(key, value string) *Client {
	c.headers[key] = value
	return c
}

// Response wraps a completed request.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the body into dest.
func (r *Response) JSON(dest interface{}) error {
	return json.Unmarshal(r.Body, dest)
}

// Get issues a GET against url.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, "")
}

// PostJSON marshals payload and POSTs it as application/json.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("httpclient: marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, data, "application/json")
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, contentType string) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.base.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 && attempt < c.retries {
			lastErr = fmt.Errorf("httpclient: server error %d", resp.StatusCode)
			continue
		}

		return &Response{StatusCode: resp.StatusCode, Body: data}, nil
	}

	return nil, fmt.Errorf("httpclient: %s %s failed after %d attempts: %w", method, url, c.retries+1, lastErr)
}
