package testutils

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockAPIServer is an httptest server that answers every request with a
// fixed status and body, counting the requests it serves.
type MockAPIServer struct {
	*httptest.Server

	mu    sync.Mutex
	count int
}

// NewMockAPIServer creates a server responding with status and body.
func NewMockAPIServer(status int, body string) *MockAPIServer {
	mock := &MockAPIServer{}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.count++
		mock.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	return mock
}

// NewFailingServer creates a server that refuses every request with 500.
func NewFailingServer() *MockAPIServer {
	return NewMockAPIServer(http.StatusInternalServerError, `{"error":"upstream down"}`)
}

// RequestCount reports how many requests the server has handled.
func (m *MockAPIServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}
