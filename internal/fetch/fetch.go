// Package fetch downloads remote documents for the pipeline.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError reports a non-success transport response. Fetches are a single
// attempt: any non-2xx status aborts the pipeline with no partial result.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// Client downloads documents over HTTP.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewClient builds a fetch client. A zero timeout disables the deadline.
// maxBytes caps the response body; zero or negative means 100MB.
func NewClient(timeout time.Duration, maxBytes int64) *Client {
	if maxBytes <= 0 {
		maxBytes = 100 << 20
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch downloads the document at url and returns its bytes and the
// Content-Type header. Non-2xx responses fail fast with a *StatusError; no
// retries.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, "", fmt.Errorf("fetch %s: body exceeds %d bytes", url, c.maxBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
