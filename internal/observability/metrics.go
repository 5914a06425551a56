package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// facility search service.
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec // labels: outcome={success,incomplete_input,address_not_understood,unknown_category,provider_error}
	SearchDuration prometheus.Histogram

	// Provider boundary metrics.
	ProviderRequests        *prometheus.CounterVec   // labels: endpoint={geocode,categories,nearby}, outcome={success,error}
	ProviderRequestDuration *prometheus.HistogramVec // labels: endpoint

	// Category catalogue cache metrics.
	CatalogLookups *prometheus.CounterVec // labels: result={hit,miss}
	CatalogSize    prometheus.Gauge

	// History persistence metrics.
	HistorySaves *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SearchesTotal,
		m.SearchDuration,
		m.ProviderRequests,
		m.ProviderRequestDuration,
		m.CatalogLookups,
		m.CatalogSize,
		m.HistorySaves,
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
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facility_finder",
			Name:      "searches_total",
			Help:      "Executed searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facility_finder",
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of one search orchestration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facility_finder",
			Name:      "provider_requests_total",
			Help:      "Provider API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ProviderRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "facility_finder",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		CatalogLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facility_finder",
			Name:      "catalog_lookups_total",
			Help:      "Category catalogue lookups by cache result.",
		}, []string{"result"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "facility_finder",
			Name:      "catalog_size",
			Help:      "Number of category definitions in the cached catalogue.",
		}),
		HistorySaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facility_finder",
			Name:      "history_saves_total",
			Help:      "History record writes by outcome.",
		}, []string{"outcome"}),
	}
}
