package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/reviewporter/pkg/internal/testutil"
)

const testURL = "https://example.test/api/things"

func newTestClient(doer HTTPDoer) *Client {
	return New(Config{HTTPClient: doer, Component: "test", Token: "secret"}).WithRetryDelay(time.Millisecond)
}

func TestClient_GetJSON(t *testing.T) {
	doer := testutil.NewMockHTTPDoer()
	doer.SetResponse(http.MethodGet, testURL, http.StatusOK, map[string]any{"name": "thing"})
	c := newTestClient(doer)

	var out struct {
		Name string `json:"name"`
	}
	if err := c.GetJSON(context.Background(), testURL, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "thing" {
		t.Errorf("expected name 'thing', got %q", out.Name)
	}

	calls := doer.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if got := calls[0].Header.Get("Authorization"); got != "Bearer secret" {
		t.Errorf("expected bearer auth header, got %q", got)
	}
	if calls[0].Body != nil {
		t.Errorf("expected no body on GET, got %q", calls[0].Body)
	}
}

func TestClient_PostJSON(t *testing.T) {
	doer := testutil.NewMockHTTPDoer()
	doer.SetResponse(http.MethodPost, testURL, http.StatusCreated, nil)
	c := newTestClient(doer)

	if err := c.PostJSON(context.Background(), testURL, []string{"a", "b"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := doer.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if got := string(calls[0].Body); got != `["a","b"]` {
		t.Errorf("unexpected body %q", got)
	}
	if got := calls[0].Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("expected JSON content type, got %q", got)
	}
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	doer := testutil.NewMockHTTPDoer()
	doer.SetResponse(http.MethodGet, testURL, http.StatusUnauthorized, "bad token")
	c := newTestClient(doer)

	err := c.GetJSON(context.Background(), testURL, &struct{}{})

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if respErr.StatusCode != http.StatusUnauthorized || respErr.Body != "bad token" {
		t.Errorf("unexpected error details: %+v", respErr)
	}
	if n := len(doer.Calls()); n != 1 {
		t.Errorf("expected 1 call for non-retryable status, got %d", n)
	}
}

func TestClient_ServerErrorRetried(t *testing.T) {
	doer := testutil.NewMockHTTPDoer()
	doer.SetResponse(http.MethodGet, testURL, http.StatusServiceUnavailable, "down")
	c := newTestClient(doer)

	err := c.GetJSON(context.Background(), testURL, &struct{}{})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(doer.Calls()); n != maxRetryAttempts {
		t.Errorf("expected %d attempts, got %d", maxRetryAttempts, n)
	}
}

// flakyDoer fails a fixed number of times before answering.
type flakyDoer struct {
	failures int
	calls    int
}

func (d *flakyDoer) Do(_ *http.Request) (*http.Response, error) {
	d.calls++
	if d.calls <= d.failures {
		return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(strings.NewReader("slow down"))}, nil
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"ok":true}`))}, nil
}

func TestClient_RecoversAfterRateLimit(t *testing.T) {
	doer := &flakyDoer{failures: 2}
	c := newTestClient(doer)

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.GetJSON(context.Background(), testURL, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK || doer.calls != 3 {
		t.Errorf("expected success on third attempt, got ok=%v calls=%d", out.OK, doer.calls)
	}
}

func TestClient_DecodeError(t *testing.T) {
	doer := testutil.NewMockHTTPDoer()
	doer.SetResponse(http.MethodGet, testURL, http.StatusOK, "not json")
	c := newTestClient(doer)

	if err := c.GetJSON(context.Background(), testURL, &struct{}{}); err == nil {
		t.Error("expected decode error")
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &ResponseError{StatusCode: http.StatusTooManyRequests}, true},
		{"server error", &ResponseError{StatusCode: http.StatusBadGateway}, true},
		{"not found", &ResponseError{StatusCode: http.StatusNotFound}, false},
		{"network", fmt.Errorf("request failed: %w", timeoutError{}), true},
		{"eof", fmt.Errorf("request failed: %w", io.EOF), true},
		{"canceled", fmt.Errorf("request failed: %w", context.Canceled), false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
