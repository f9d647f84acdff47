package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// lookup pipeline.
type Metrics struct {
	// Directory feed metrics.
	DirectoryBuilds      *prometheus.CounterVec // labels: outcome={success,fetch_error,parse_error}
	DirectoryCache       *prometheus.CounterVec // labels: result={hit,miss}
	DirectoryPrefectures prometheus.Gauge

	// Forecast feed metrics.
	ForecastRequests *prometheus.CounterVec // labels: outcome={success,timeout,unreachable,http_error,decode_error}
	ForecastDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DirectoryBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_lookup",
			Name:      "directory_builds_total",
			Help:      "Location directory rebuilds by outcome.",
		}, []string{"outcome"}),
		DirectoryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_lookup",
			Name:      "directory_cache_total",
			Help:      "Directory snapshot cache lookups by result.",
		}, []string{"result"}),
		DirectoryPrefectures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_lookup",
			Name:      "directory_prefectures",
			Help:      "Prefecture count of the current directory snapshot.",
		}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_lookup",
			Name:      "forecast_requests_total",
			Help:      "Forecast feed requests by outcome.",
		}, []string{"outcome"}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rain_lookup",
			Name:      "forecast_request_duration_seconds",
			Help:      "Forecast feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.DirectoryBuilds,
		m.DirectoryCache,
		m.DirectoryPrefectures,
		m.ForecastRequests,
		m.ForecastDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DirectoryBuilds:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_lookup", Name: "directory_builds_total"}, []string{"outcome"}),
		DirectoryCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_lookup", Name: "directory_cache_total"}, []string{"result"}),
		DirectoryPrefectures: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rain_lookup", Name: "directory_prefectures"}),
		ForecastRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_lookup", Name: "forecast_requests_total"}, []string{"outcome"}),
		ForecastDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rain_lookup", Name: "forecast_request_duration_seconds"}),
	}
}
