package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trop3n/ARCompanion/internal/testutils"

	"github.com/gin-gonic/gin"
)

func testConfigWithLimit(enabled bool, requests, burst int) *Limiter {
	cfg := testutils.MockConfig("http://primary.test", "")
	cfg.RateLimitEnabled = enabled
	cfg.RateLimitRequests = requests
	cfg.RateLimitWindow = time.Minute
	cfg.RateLimitBurst = burst
	return NewLimiter(cfg, testutils.MockLogger())
}

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		burst    int
		requests int
		expected []bool
	}{
		{
			name:     "disabled always allows",
			enabled:  false,
			burst:    1,
			requests: 3,
			expected: []bool{true, true, true},
		},
		{
			name:     "within burst",
			enabled:  true,
			burst:    3,
			requests: 3,
			expected: []bool{true, true, true},
		},
		{
			name:     "burst exhausted",
			enabled:  true,
			burst:    2,
			requests: 4,
			expected: []bool{true, true, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := testConfigWithLimit(tt.enabled, 10, tt.burst)
			defer limiter.Stop()

			for i := 0; i < tt.requests; i++ {
				if got := limiter.Allow("192.168.1.1"); got != tt.expected[i] {
					t.Errorf("Allow() call %d = %v, want %v", i+1, got, tt.expected[i])
				}
			}
		})
	}
}

func TestLimiter_IndependentClients(t *testing.T) {
	limiter := testConfigWithLimit(true, 10, 1)
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Error("first client's first request denied")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("first client's second request allowed past burst")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("second client throttled by first client's bucket")
	}
}

func TestLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := testConfigWithLimit(true, 10, 1)
	defer limiter.Stop()

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "192.168.1.1:51234"
		router.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	if statuses[0] != http.StatusOK {
		t.Errorf("first request status = %d, want 200", statuses[0])
	}
	if statuses[1] != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", statuses[1])
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "x-forwarded-for",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name:       "x-real-ip",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "198.51.100.7",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "10.0.0.9:4321",
			expected:   "10.0.0.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}
			if got := ClientIP(request); got != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
