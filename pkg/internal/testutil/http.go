package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockHTTPDoer implements the adapters' HTTPDoer for testing.
// It's programmable - you can configure responses for specific requests.
type MockHTTPDoer struct {
	responses map[string]mockResponse
	errors    map[string]error
	calls     []HTTPCall
	mu        sync.RWMutex
}

type mockResponse struct {
	body       []byte
	statusCode int
}

// HTTPCall records a single HTTP call.
type HTTPCall struct {
	Header http.Header
	Method string
	URL    string
	Body   []byte
}

// NewMockHTTPDoer creates a new MockHTTPDoer.
func NewMockHTTPDoer() *MockHTTPDoer {
	return &MockHTTPDoer{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
	}
}

// Do executes the HTTP request and returns the configured response.
// Every call gets a fresh body, so a response can be served repeatedly.
func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	m.calls = append(m.calls, HTTPCall{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})

	key := m.makeKey(req.Method, req.URL.String())
	if err, ok := m.errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.responses[key]; ok {
		return &http.Response{
			StatusCode: resp.statusCode,
			Status:     fmt.Sprintf("%d %s", resp.statusCode, http.StatusText(resp.statusCode)),
			Body:       io.NopCloser(bytes.NewReader(resp.body)),
			Header:     make(http.Header),
		}, nil
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       io.NopCloser(strings.NewReader(`{"message":"not found"}`)),
		Header:     make(http.Header),
	}, nil
}

// SetResponse configures a JSON response for a specific method and URL.
// A string body is sent verbatim.
func (m *MockHTTPDoer) SetResponse(method, url string, statusCode int, body any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			panic(fmt.Sprintf("failed to marshal response body: %v", err))
		}
	}
	m.responses[m.makeKey(method, url)] = mockResponse{statusCode: statusCode, body: bodyBytes}
}

// SetError configures a transport error for a specific method and URL.
func (m *MockHTTPDoer) SetError(method, url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[m.makeKey(method, url)] = err
}

// Calls returns all recorded HTTP calls.
func (m *MockHTTPDoer) Calls() []HTTPCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]HTTPCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears all configured responses and recorded calls.
func (m *MockHTTPDoer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses = make(map[string]mockResponse)
	m.errors = make(map[string]error)
	m.calls = nil
}

func (*MockHTTPDoer) makeKey(method, url string) string {
	return method + ":" + url
}
