package requester

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/logger"
)

type recordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// mockTransport records requests and answers them with respond.
type mockTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(n int, req *http.Request) (*http.Response, error)
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	m.mu.Lock()
	n := len(m.requests)
	m.requests = append(m.requests, recordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	m.mu.Unlock()
	return m.respond(n, req)
}

func (m *mockTransport) calls() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// respondWith answers every request with the same response.
func respondWith(status int, header map[string]string, body string) *mockTransport {
	return &mockTransport{respond: func(int, *http.Request) (*http.Response, error) {
		return newResponse(status, header, body), nil
	}}
}

// respondSequence answers the n-th request with responses[n].
func respondSequence(responses ...*http.Response) *mockTransport {
	return &mockTransport{respond: func(n int, req *http.Request) (*http.Response, error) {
		if n >= len(responses) {
			return nil, fmt.Errorf("unexpected request #%d to %s", n, req.URL)
		}
		resp := responses[n]
		resp.Request = req
		return resp, nil
	}}
}

func newResponse(status int, header map[string]string, body string) *http.Response {
	h := make(http.Header)
	for k, v := range header {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

var jsonHeader = map[string]string{"Content-Type": "application/json"}

func newTestClient(t *testing.T, api *apidef.API, opts ...Option) *Client {
	t.Helper()
	if api.BaseURL == "" {
		api.BaseURL = "https://api.example.com"
	}
	c, err := NewClient(api, opts...)
	require.NoError(t, err)
	return c
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })
	return logs
}

// countingMetrics counts transport errors.
type countingMetrics struct {
	mu              sync.Mutex
	transportErrors int
}

func (m *countingMetrics) ObserveResponse(string, string, int, bool, time.Duration) {}
func (m *countingMetrics) ObserveRedirect(string, string)                          {}

func (m *countingMetrics) ObserveTransportError(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transportErrors++
}
