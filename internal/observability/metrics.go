package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the track service.
type Metrics struct {
	CatalogRequests *prometheus.CounterVec // labels: outcome={success,empty,unavailable,invalid}
	TrackRequests   *prometheus.CounterVec // labels: outcome={success,no_data,parse_error,fetch_error,invalid}

	CacheLookups *prometheus.CounterVec // labels: cache={catalog,track}, result={hit,miss}

	FetchDuration *prometheus.HistogramVec // labels: page={index,detail}
	TrackFixes    prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cyclone_tracks",
			Name:      "catalog_requests_total",
			Help:      "Catalog resolutions by outcome.",
		}, []string{"outcome"}),
		TrackRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cyclone_tracks",
			Name:      "track_requests_total",
			Help:      "Track extractions by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cyclone_tracks",
			Name:      "cache_lookups_total",
			Help:      "Catalog and track cache lookups by result.",
		}, []string{"cache", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cyclone_tracks",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream page fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"page"}),
		TrackFixes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cyclone_tracks",
			Name:      "track_fixes",
			Help:      "Number of fixes per extracted track.",
			Buckets:   []float64{1, 5, 10, 20, 40, 60, 80, 120},
		}),
	}

	prometheus.MustRegister(
		m.CatalogRequests,
		m.TrackRequests,
		m.CacheLookups,
		m.FetchDuration,
		m.TrackFixes,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cyclone_tracks", Name: "catalog_requests_total"}, []string{"outcome"}),
		TrackRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cyclone_tracks", Name: "track_requests_total"}, []string{"outcome"}),
		CacheLookups:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cyclone_tracks", Name: "cache_lookups_total"}, []string{"cache", "result"}),
		FetchDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "cyclone_tracks", Name: "fetch_duration_seconds"}, []string{"page"}),
		TrackFixes:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cyclone_tracks", Name: "track_fixes"}),
	}
}
