package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxResponseBody caps how much of a response HttpClient will buffer.
const MaxResponseBody = 10 * 1024 * 1024

var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// HttpClient performs outbound GETs with a fixed timeout and user agent.
type HttpClient struct {
	userAgent string
	http      *http.Client
}

func NewHttpClient(timeout time.Duration, userAgent string) *HttpClient {
	return &HttpClient{
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// StatusError is returned when the server answers outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Get fetches url and returns the whole body. accept sets the Accept header
// when non-empty.
func (c *HttpClient) Get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseBody {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}
