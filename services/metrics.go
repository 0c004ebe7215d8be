package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Provider call outcomes used as metric labels.
const (
	outcomeSuccess     = "success"
	outcomeNotFound    = "not_found"
	outcomeFailure     = "failure"
	outcomeUnavailable = "circuit_open"
)

// Metrics holds the engine's Prometheus collectors. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	FallbackProfiles *prometheus.CounterVec
	CatalogFallbacks *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of food lookup cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of food lookup cache misses",
		}),
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Outbound nutrition provider requests by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Outbound nutrition provider request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),
		FallbackProfiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_profiles_total",
				Help:      "Records whose nutrients were replaced by a keyword fallback profile",
			},
			[]string{"keyword"},
		),
		CatalogFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_fallbacks_total",
				Help:      "Lookups answered by the local food catalog after remote providers gave nothing",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.ProviderRequests,
		m.ProviderDuration,
		m.FallbackProfiles,
		m.CatalogFallbacks,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
