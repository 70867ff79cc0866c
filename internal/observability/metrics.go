package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the lookup pipeline.
type Metrics struct {
	Lookups        *prometheus.CounterVec // labels: status={ok,coming_soon,error,invalid,not_found}
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss}
	LookupDuration prometheus.Histogram

	// Upstream catalog metrics.
	CatalogRequests *prometheus.CounterVec // labels: tier={river_datasets,global_datasets,name_search}, outcome={success,empty,error}
	CatalogDuration prometheus.Histogram

	// Result event publishing.
	EventsPublished   prometheus.Counter
	EventPublishFails prometheus.Counter
}

// NewMetrics creates and registers all lookup metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Lookups,
		m.CacheLookups,
		m.LookupDuration,
		m.CatalogRequests,
		m.CatalogDuration,
		m.EventsPublished,
		m.EventPublishFails,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwqi",
			Name:      "lookups_total",
			Help:      "River lookups by outcome status.",
		}, []string{"status"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwqi",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by hit or miss.",
		}, []string{"result"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rwqi",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a complete resolve-fetch-compute cycle.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwqi",
			Name:      "catalog_requests_total",
			Help:      "Upstream catalog searches by fallback tier and outcome.",
		}, []string{"tier", "outcome"}),
		CatalogDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rwqi",
			Name:      "catalog_request_duration_seconds",
			Help:      "Upstream catalog request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rwqi",
			Name:      "events_published_total",
			Help:      "Lookup results published to the events topic.",
		}),
		EventPublishFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rwqi",
			Name:      "event_publish_failures_total",
			Help:      "Failed attempts to publish a lookup result event.",
		}),
	}
}
