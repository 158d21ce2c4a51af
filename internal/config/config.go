package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFreshnessHours is the cache validity window used when a resource
// does not override it.
const DefaultFreshnessHours = 12

// Resource describes one remote data category: where to fetch it from, where
// to fall back to, and how long a cached copy stays fresh. Immutable for the
// process lifetime.
type Resource struct {
	Key            string
	PrimaryURL     string
	FallbackURL    string
	FreshnessHours int
}

// Config holds all configuration for the application
type Config struct {
	Port     string
	LogLevel string

	// Upstream APIs
	APIBaseURL     string
	FallbackAPIURL string
	FetchTimeout   time.Duration

	// Cache
	CacheDBPath    string
	FreshnessHours int

	// Resource catalog, derived from the base URLs
	Resources []Resource

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	apiBaseURL := getEnv("API_BASE_URL", "https://metaforge.app/api/arc-raiders")
	fallbackAPIURL := getEnv("FALLBACK_API_URL", "https://ardb.app/api")
	freshnessHours := mustAtoi(getEnv("CACHE_FRESHNESS_HOURS", ""), DefaultFreshnessHours)

	cfg := &Config{
		Port:     getEnv("PORT", "8082"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:     apiBaseURL,
		FallbackAPIURL: fallbackAPIURL,
		FetchTimeout:   time.Duration(mustAtoi(getEnv("FETCH_TIMEOUT_SECONDS", ""), 10)) * time.Second,

		CacheDBPath:    getEnv("CACHE_DB_PATH", "companion-cache.db"),
		FreshnessHours: freshnessHours,

		RateLimitEnabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequests: mustAtoi(getEnv("RATE_LIMIT_REQUESTS", ""), 100),
		RateLimitWindow:   time.Duration(mustAtoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", ""), 60)) * time.Second,
		RateLimitBurst:    mustAtoi(getEnv("RATE_LIMIT_BURST", ""), 10),
	}
	cfg.Resources = DefaultResources(apiBaseURL, fallbackAPIURL, freshnessHours)

	return cfg, nil
}

// DefaultResources binds each resource key to its endpoints. The workbench
// family exists only on the primary API, so those entries carry no fallback.
func DefaultResources(primaryBase, fallbackBase string, freshnessHours int) []Resource {
	fallbackFor := func(path string) string {
		if fallbackBase == "" {
			return ""
		}
		return fmt.Sprintf("%s%s", fallbackBase, path)
	}
	return []Resource{
		{
			Key:            "items",
			PrimaryURL:     fmt.Sprintf("%s/items", primaryBase),
			FallbackURL:    fallbackFor("/items"),
			FreshnessHours: freshnessHours,
		},
		{
			Key:            "events",
			PrimaryURL:     fmt.Sprintf("%s/events-schedule", primaryBase),
			FallbackURL:    fallbackFor("/events"),
			FreshnessHours: freshnessHours,
		},
		{
			Key:            "quests",
			PrimaryURL:     fmt.Sprintf("%s/quests", primaryBase),
			FallbackURL:    fallbackFor("/quests"),
			FreshnessHours: freshnessHours,
		},
		{
			Key:            "workbench",
			PrimaryURL:     fmt.Sprintf("%s/workbench", primaryBase),
			FreshnessHours: freshnessHours,
		},
		{
			Key:            "hideout",
			PrimaryURL:     fmt.Sprintf("%s/hideout", primaryBase),
			FreshnessHours: freshnessHours,
		},
		{
			Key:            "expedition",
			PrimaryURL:     fmt.Sprintf("%s/expedition", primaryBase),
			FreshnessHours: freshnessHours,
		},
	}
}

// ResourceByKey returns the descriptor for key, if configured.
func (c *Config) ResourceByKey(key string) (Resource, bool) {
	for _, resource := range c.Resources {
		if resource.Key == key {
			return resource, true
		}
	}
	return Resource{}, false
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// mustAtoi parses s, falling back when the value is not a number.
func mustAtoi(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}
