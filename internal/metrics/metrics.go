package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks fetch and cache activity per resource key.
type Metrics struct {
	registry      *prometheus.Registry
	fetchSuccess  *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	staleServes   *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	fetchSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_fetch_success_total",
		Help: "Successful resource fetches by upstream source",
	}, []string{"resource", "source"})

	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_fetch_failures_total",
		Help: "Resource fetches where every source was exhausted",
	}, []string{"resource"})

	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_cache_hits_total",
		Help: "Requests served from a fresh cache record without network access",
	}, []string{"resource"})

	staleServes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_stale_serves_total",
		Help: "Requests served from a stale cache record after all sources failed",
	}, []string{"resource"})

	registry.MustRegister(fetchSuccess, fetchFailures, cacheHits, staleServes)

	return &Metrics{
		registry:      registry,
		fetchSuccess:  fetchSuccess,
		fetchFailures: fetchFailures,
		cacheHits:     cacheHits,
		staleServes:   staleServes,
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FetchSuccess records a successful fetch for resource from source.
func (m *Metrics) FetchSuccess(resource, source string) {
	if m == nil {
		return
	}
	m.fetchSuccess.WithLabelValues(resource, source).Inc()
}

// FetchFailure records a fetch where every source was exhausted.
func (m *Metrics) FetchFailure(resource string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(resource).Inc()
}

// CacheHit records a fresh-cache serve.
func (m *Metrics) CacheHit(resource string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(resource).Inc()
}

// StaleServe records a stale-cache serve.
func (m *Metrics) StaleServe(resource string) {
	if m == nil {
		return
	}
	m.staleServes.WithLabelValues(resource).Inc()
}
