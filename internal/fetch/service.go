package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trop3n/ARCompanion/internal/cache"
	"github.com/trop3n/ARCompanion/internal/config"
	"github.com/trop3n/ARCompanion/internal/logger"
	"github.com/trop3n/ARCompanion/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// Service binds the configured resource catalog to the fetch chain and the
// persistent store. It is the only layer that checks freshness.
type Service struct {
	configuration *config.Config
	logger        *logger.Logger
	store         cache.Store
	fetcher       *Fetcher

	singleFlightGroup singleflight.Group
}

// NewService creates the resource fetch service.
func NewService(configuration *config.Config, logger *logger.Logger, store cache.Store, m *metrics.Metrics) *Service {
	return &Service{
		configuration: configuration,
		logger:        logger,
		store:         store,
		fetcher:       NewFetcher(store, logger, m, configuration.FetchTimeout),
	}
}

// GetResource returns the payload for key. A cache record inside its
// freshness window is served with no network access; otherwise the fallback
// chain runs and its result overwrites the record. Concurrent refreshes for
// the same key are coalesced into one chain, so a manual refresh issued while
// a fetch is in flight joins it instead of racing it.
func (s *Service) GetResource(ctx context.Context, key string) (json.RawMessage, error) {
	resource, ok := s.configuration.ResourceByKey(key)
	if !ok {
		return nil, &FetchError{
			Type:     ErrorTypeUnknownResource,
			Resource: key,
			Message:  fmt.Sprintf("unknown resource %q", key),
		}
	}

	record, found, err := s.store.Get(key)
	if err != nil {
		s.logger.Warnf("Cache read failed for %s, fetching fresh: %v", key, err)
	}
	if found && IsFresh(record.LastUpdated, resource.FreshnessHours) {
		s.logger.Debugf("Returning cached %s data", key)
		s.fetcher.metrics.CacheHit(key)
		return record.Data, nil
	}

	s.logger.Infof("Fetching fresh %s data", key)
	result, fetchErr, _ := s.singleFlightGroup.Do(key, func() (interface{}, error) {
		// The chain outlives the caller that started it: coalesced waiters
		// must not fail when the first caller cancels. The HTTP client
		// timeout still bounds each source attempt.
		return s.fetcher.Fetch(context.WithoutCancel(ctx), resource.PrimaryURL, resource.FallbackURL, resource.Key)
	})
	if fetchErr != nil {
		return nil, fetchErr
	}
	return result.(json.RawMessage), nil
}

// ResourceResult is the outcome of one resource in a batched load.
type ResourceResult struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
	Err  error           `json:"-"`
}

// LoadAll fetches every configured resource concurrently. Resources succeed
// or fail independently; a failed resource comes back with an empty array
// payload so consumers never null-check. An error is returned only when
// every resource failed.
func (s *Service) LoadAll(ctx context.Context) (map[string]ResourceResult, error) {
	resources := s.configuration.Resources
	resultsChannel := make(chan ResourceResult, len(resources))

	for _, resource := range resources {
		go func(key string) {
			data, err := s.GetResource(ctx, key)
			resultsChannel <- ResourceResult{Key: key, Data: data, Err: err}
		}(resource.Key)
	}

	results := make(map[string]ResourceResult, len(resources))
	failures := 0
	for range resources {
		result := <-resultsChannel
		if result.Err != nil {
			s.logger.Warnf("Resource %s failed in batched load: %v", result.Key, result.Err)
			failures++
			result.Data = json.RawMessage(`[]`)
		}
		results[result.Key] = result
	}

	if failures > 0 && failures == len(resources) {
		return results, &FetchError{
			Type:    ErrorTypeAllResourcesFailed,
			Message: "failed to load any data from API",
		}
	}
	return results, nil
}

// ClearCache wipes the persistent store, cached records and settings alike.
func (s *Service) ClearCache() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	s.logger.Info("Cache cleared")
	return nil
}
