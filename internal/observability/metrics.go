package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	RiskScores     prometheus.Histogram
	CacheRefreshes *prometheus.CounterVec
	IngestedRows   *prometheus.CounterVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RiskScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_risk_total_score",
			Help:    "Distribution of computed total risk scores.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		CacheRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_risk_cache_refreshes_total",
			Help: "Frequency table cache refreshes by result.",
		}, []string{"result"}),
		IngestedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_ingested_rows_total",
			Help: "Rows processed by the CSV importer by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.RiskScores,
		m.CacheRefreshes,
		m.IngestedRows,
	)
	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
