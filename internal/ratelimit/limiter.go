package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/trop3n/ARCompanion/internal/config"
	"github.com/trop3n/ARCompanion/internal/logger"

	"github.com/gin-gonic/gin"
)

// Limiter applies a per-client token bucket. The companion UI is the only
// expected client, so the limiter mostly guards against a misbehaving page
// hammering the refresh endpoints.
type Limiter struct {
	Configuration *config.Config
	logger        *logger.Logger

	bucketsMutex  sync.Mutex
	clientBuckets map[string]*bucket

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewLimiter creates a rate limiter and starts its idle-bucket cleanup
// goroutine. Call Stop on shutdown.
func NewLimiter(configuration *config.Config, logger *logger.Logger) *Limiter {
	limiter := &Limiter{
		Configuration: configuration,
		logger:        logger,
		clientBuckets: make(map[string]*bucket),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCleanup:   make(chan struct{}),
	}
	go limiter.cleanup()
	return limiter
}

// Allow reports whether a request from clientIP may proceed.
func (limiter *Limiter) Allow(clientIP string) bool {
	if !limiter.Configuration.RateLimitEnabled {
		return true
	}

	limiter.bucketsMutex.Lock()
	clientBucket, exists := limiter.clientBuckets[clientIP]
	if !exists {
		burst := float64(limiter.Configuration.RateLimitBurst)
		clientBucket = &bucket{
			tokens:     burst,
			capacity:   burst,
			refillRate: float64(limiter.Configuration.RateLimitRequests) / limiter.Configuration.RateLimitWindow.Seconds(),
			lastRefill: time.Now(),
		}
		limiter.clientBuckets[clientIP] = clientBucket
	}
	limiter.bucketsMutex.Unlock()

	return clientBucket.take()
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Middleware rejects over-limit requests with 429 and rate-limit headers.
func (limiter *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := ClientIP(c.Request)
		if !limiter.Allow(clientIP) {
			limiter.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Configuration.RateLimitRequests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(limiter.Configuration.RateLimitWindow).Unix(), 10))
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

// ClientIP extracts the real client address, honoring proxy headers.
func ClientIP(request *http.Request) string {
	if forwarded := request.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := net.ParseIP(forwarded); ip != nil {
			return ip.String()
		}
		if host, _, err := net.SplitHostPort(forwarded); err == nil {
			if ip := net.ParseIP(host); ip != nil {
				return ip.String()
			}
		}
	}
	if realIP := request.Header.Get("X-Real-IP"); realIP != "" {
		if ip := net.ParseIP(realIP); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// cleanup drops buckets idle for more than a day.
func (limiter *Limiter) cleanup() {
	for {
		select {
		case <-limiter.cleanupTicker.C:
			now := time.Now()
			limiter.bucketsMutex.Lock()
			for clientIP, clientBucket := range limiter.clientBuckets {
				clientBucket.mu.Lock()
				idle := now.Sub(clientBucket.lastRefill)
				clientBucket.mu.Unlock()
				if idle > 24*time.Hour {
					delete(limiter.clientBuckets, clientIP)
				}
			}
			limiter.bucketsMutex.Unlock()
		case <-limiter.stopCleanup:
			limiter.cleanupTicker.Stop()
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (limiter *Limiter) Stop() {
	close(limiter.stopCleanup)
}
