// Package transport is the shared HTTP layer of the platform adapters:
// bearer authentication, JSON bodies and retries with exponential backoff.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// Retry constants.
const (
	maxRetryAttempts  = 5                // Maximum retry attempts for API calls
	initialRetryDelay = 1 * time.Second  // Initial delay for retry attempts
	maxRetryDelay     = 30 * time.Second // Maximum delay cap
	maxErrorBody      = 4096             // Bytes of an error response kept for diagnostics
)

// HTTPDoer provides an interface for making HTTP requests.
// This allows us to mock HTTP calls in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseError is returned for responses outside the 2xx range.
type ResponseError struct {
	Method     string
	URL        string
	Body       string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *ResponseError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client makes authenticated JSON requests.
type Client struct {
	doer          HTTPDoer
	component     string
	token         string
	retryAttempts uint
	retryDelay    time.Duration
	retryMaxDelay time.Duration
}

// Config holds configuration for creating a new Client.
type Config struct {
	HTTPClient  HTTPDoer // nil builds an http.Client with HTTPTimeout
	Component   string   // Value of the "component" log attribute
	Token       string   // Bearer token sent with every request
	HTTPTimeout time.Duration
}

// New creates a new Client.
func New(cfg Config) *Client {
	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Client{
		doer:          doer,
		component:     cfg.Component,
		token:         cfg.Token,
		retryAttempts: maxRetryAttempts,
		retryDelay:    initialRetryDelay,
		retryMaxDelay: maxRetryDelay,
	}
}

// WithRetryDelay returns a copy of c that waits delay between attempts.
func (c *Client) WithRetryDelay(delay time.Duration) *Client {
	cp := *c
	cp.retryDelay = delay
	cp.retryMaxDelay = delay
	return &cp
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.DoJSON(ctx, http.MethodGet, url, nil, out)
}

// PostJSON performs a POST request with a JSON body and decodes the response
// into out unless out is nil.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	return c.DoJSON(ctx, http.MethodPost, url, body, out)
}

// DoJSON performs a request and decodes the JSON response into out unless out is nil.
func (c *Client) DoJSON(ctx context.Context, method, url string, body, out any) error {
	resp, err := c.Do(ctx, method, url, body) //nolint:bodyclose // body is closed via defer drainAndCloseBody
	if err != nil {
		return err
	}
	defer drainAndCloseBody(resp.Body)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, url, err)
	}
	return nil
}

// Do makes an HTTP request with retry logic. Only 2xx responses are returned;
// the caller closes their body.
func (c *Client) Do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	slog.DebugContext(ctx, "HTTP request", "component", c.component, "method", method, "url", url)

	var resp *http.Response
	err := c.retryWithBackoff(ctx, method+" "+url, func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		localResp, err := c.doer.Do(req) //nolint:bodyclose // body is closed on error or passed to caller
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if localResp.StatusCode < 200 || localResp.StatusCode >= 300 {
			data, readErr := io.ReadAll(io.LimitReader(localResp.Body, maxErrorBody))
			drainAndCloseBody(localResp.Body)
			if readErr != nil {
				data = []byte(fmt.Sprintf("(could not read body: %v)", readErr))
			}
			return &ResponseError{Method: method, URL: url, StatusCode: localResp.StatusCode, Body: string(data)}
		}

		resp = localResp
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "HTTP response", "component", c.component, "method", method, "url", url, "status", resp.StatusCode)
	return resp, nil
}

// retryWithBackoff executes fn with exponential backoff and jitter using the codeGROOVE retry library.
func (c *Client) retryWithBackoff(ctx context.Context, operation string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(c.retryMaxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(max(c.retryDelay/4, time.Millisecond)),
		retry.OnRetry(func(n uint, err error) {
			slog.InfoContext(ctx, "Retry attempt", "component", c.component, "operation", operation,
				"attempt", n+1, "max_attempts", c.retryAttempts, "error", err)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

// isRetryable reports whether err is a rate limit, a server error or a network failure.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Temporary()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// drainAndCloseBody drains and closes an HTTP response body to prevent resource leaks.
func drainAndCloseBody(body io.ReadCloser) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		slog.Warn("Failed to drain response body", "error", err)
	}
	if err := body.Close(); err != nil {
		slog.Warn("Failed to close response body", "error", err)
	}
}
