// Package testutil provides a scriptable Square API server for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Square endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// SearchRequest is the decoded body of a /catalog/search call.
type SearchRequest struct {
	ObjectTypes           []string `json:"object_types"`
	IncludeRelatedObjects bool     `json:"include_related_objects"`
	Cursor                string   `json:"cursor"`
}

// MockSquare is a configurable mock Square server for testing. Paths are
// relative to the /v2 API root; URL() includes it.
type MockSquare struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// catalog pages keyed by the cursor that requests them
	pages map[string]string

	// Tracking
	RequestCount      int
	SearchCount       int
	LastRequestHeader http.Header
	Searches          []SearchRequest
	Bodies            map[string][]string
}

// NewMockSquare creates a new mock Square server.
func NewMockSquare() *MockSquare {
	mock := &MockSquare{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pages:    make(map[string]string),
		Bodies:   make(map[string][]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/v2")
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if len(body) > 0 {
			mock.Bodies[path] = append(mock.Bodies[path], string(body))
		}
		handler, exists := mock.handlers[path]
		mock.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r, path, body)
	}))

	return mock
}

// URL returns the API root of the mock server.
func (m *MockSquare) URL() string {
	return m.server.URL + "/v2"
}

// Close shuts down the mock server.
func (m *MockSquare) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockSquare) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.SearchCount = 0
	m.LastRequestHeader = nil
	m.Searches = nil
	m.Bodies = make(map[string][]string)
}

// Stats returns the request and search counters.
func (m *MockSquare) Stats() (requests, searches int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount, m.SearchCount
}

// SetHandler sets a custom handler for a specific path.
func (m *MockSquare) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockSquare) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json")
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetCatalogPage serves body for the /catalog/search call carrying cursor.
// The first page has an empty cursor.
func (m *MockSquare) SetCatalogPage(cursor, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[cursor] = body
}

// SetLocations configures the /locations response.
func (m *MockSquare) SetLocations(body string) {
	m.SetResponse("/locations", MockResponse{StatusCode: http.StatusOK, Body: body})
}

func (m *MockSquare) defaultHandler(w http.ResponseWriter, r *http.Request, path string, body []byte) {
	w.Header().Set("Content-Type", "application/json")

	if path != "/catalog/search" || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"NOT_FOUND","detail":"no mock for ` + path + `"}]}`))
		return
	}

	var req SearchRequest
	_ = json.Unmarshal(body, &req)

	m.mu.Lock()
	m.SearchCount++
	m.Searches = append(m.Searches, req)
	page, ok := m.pages[req.Cursor]
	m.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"INVALID_CURSOR","detail":"unknown cursor"}]}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

// NewErrorResponse creates a Square error document response.
func NewErrorResponse(status int, category, code, detail string) MockResponse {
	doc, _ := json.Marshal(map[string]any{
		"errors": []map[string]string{{"category": category, "code": code, "detail": detail}},
	})
	return MockResponse{StatusCode: status, Body: string(doc)}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return NewErrorResponse(http.StatusTooManyRequests, "RATE_LIMITED", "RATE_LIMITED", "Rate limit exceeded")
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return NewErrorResponse(http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "Internal server error")
}
