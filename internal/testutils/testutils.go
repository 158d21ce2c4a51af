package testutils

import (
	"time"

	"github.com/trop3n/ARCompanion/internal/config"
	"github.com/trop3n/ARCompanion/internal/logger"
)

// MockLogger creates a logger for testing
func MockLogger() *logger.Logger {
	return logger.New("error")
}

// MockConfig creates a configuration whose resource catalog points at the
// given base URLs, with rate limiting off and a short fetch timeout.
func MockConfig(primaryBase, fallbackBase string) *config.Config {
	cfg := &config.Config{
		Port:     "8082",
		LogLevel: "error",

		APIBaseURL:     primaryBase,
		FallbackAPIURL: fallbackBase,
		FetchTimeout:   2 * time.Second,

		CacheDBPath:    "companion-cache-test.db",
		FreshnessHours: config.DefaultFreshnessHours,

		RateLimitEnabled:  false,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RateLimitBurst:    10,
	}
	cfg.Resources = config.DefaultResources(primaryBase, fallbackBase, cfg.FreshnessHours)
	return cfg
}
