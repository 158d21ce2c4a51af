package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trop3n/ARCompanion/internal/cache"
	"github.com/trop3n/ARCompanion/internal/logger"
	"github.com/trop3n/ARCompanion/internal/metrics"
	"github.com/trop3n/ARCompanion/internal/models"
)

// DefaultTimeout bounds a single source attempt.
const DefaultTimeout = 10 * time.Second

// Fetcher executes the primary -> fallback -> stale-cache chain for a single
// resource and writes successful results back to the store. It never checks
// freshness; that is the caller's job.
type Fetcher struct {
	store      cache.Store
	logger     *logger.Logger
	metrics    *metrics.Metrics
	httpClient *http.Client
}

// NewFetcher creates a fetcher bound to the given store. A non-positive
// timeout falls back to DefaultTimeout.
func NewFetcher(store cache.Store, logger *logger.Logger, metrics *metrics.Metrics, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		store:      store,
		logger:     logger,
		metrics:    metrics,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch tries primaryURL, then fallbackURL when set, then an existing cache
// record of any age. Each step runs only if the previous one failed. The
// stale-cache step is the only path that returns data without writing a fresh
// record. When nothing is cached either, the chain fails with an
// AllSourcesExhausted error naming cacheKey.
func (f *Fetcher) Fetch(ctx context.Context, primaryURL, fallbackURL, cacheKey string) (json.RawMessage, error) {
	data, primaryErr := f.fetchSource(ctx, primaryURL)
	if primaryErr == nil {
		f.persist(cacheKey, data, models.SourcePrimary)
		return data, nil
	}
	f.logger.Warnf("Primary API failed for %s, trying fallback: %v", cacheKey, primaryErr)

	if fallbackURL != "" {
		data, fallbackErr := f.fetchSource(ctx, fallbackURL)
		if fallbackErr == nil {
			f.persist(cacheKey, data, models.SourceFallback)
			return data, nil
		}
		f.logger.Errorf("Fallback API also failed for %s: %v", cacheKey, fallbackErr)
	}

	record, found, readErr := f.store.Get(cacheKey)
	if readErr != nil {
		f.logger.Errorf("Cache read failed for %s: %v", cacheKey, readErr)
	}
	if found && len(record.Data) > 0 {
		f.logger.Warnf("Returning stale cached data for %s", cacheKey)
		f.metrics.StaleServe(cacheKey)
		return record.Data, nil
	}

	f.metrics.FetchFailure(cacheKey)
	return nil, &FetchError{
		Type:     ErrorTypeAllSourcesExhausted,
		Resource: cacheKey,
		Message:  fmt.Sprintf("failed to fetch %s from all sources", cacheKey),
		Cause:    primaryErr,
	}
}

// fetchSource performs one GET against a single source and normalizes the
// payload.
func (f *Fetcher) fetchSource(ctx context.Context, url string) (json.RawMessage, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Type: ErrorTypeNetwork, Message: "failed to create request", Cause: err}
	}

	response, err := f.httpClient.Do(request)
	if err != nil {
		return nil, &FetchError{Type: ErrorTypeNetwork, Message: "request failed", Cause: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Type:    ErrorTypeBadStatus,
			Message: fmt.Sprintf("source returned status %d", response.StatusCode),
		}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &FetchError{Type: ErrorTypeNetwork, Message: "failed to read response body", Cause: err}
	}

	if !json.Valid(body) {
		return nil, &FetchError{Type: ErrorTypeInvalidPayload, Message: "source returned invalid JSON"}
	}

	return NormalizePayload(body), nil
}

// persist writes a fresh record. A write failure degrades to a log line; the
// fetched data is still returned to the caller.
func (f *Fetcher) persist(cacheKey string, data json.RawMessage, source models.Source) {
	record := models.CacheRecord{
		Key:         cacheKey,
		Data:        data,
		LastUpdated: time.Now(),
		Source:      source,
	}
	if err := f.store.Set(record); err != nil {
		f.logger.Errorf("Failed to persist %s: %v", cacheKey, err)
	}
	f.metrics.FetchSuccess(cacheKey, string(source))
}
