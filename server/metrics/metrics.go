// Package metrics provides Prometheus metrics export for the search server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports search metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	searchRequests *prometheus.CounterVec
	searchLatency  *prometheus.HistogramVec
	searchErrors   *prometheus.CounterVec
	encodingServed *prometheus.CounterVec
	degradedTotal  prometheus.Counter
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{
		registry: registry,
	}

	e.searchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podseek",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"capability", "status"},
	)

	e.searchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "podseek",
			Subsystem: "search",
			Name:      "latency_seconds",
			Help:      "Search request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"capability"},
	)

	e.searchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podseek",
			Subsystem: "search",
			Name:      "errors_total",
			Help:      "Total number of search errors",
		},
		[]string{"error_type"},
	)

	e.encodingServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podseek",
			Subsystem: "search",
			Name:      "encoding_total",
			Help:      "Searches served per embedding encoding",
		},
		[]string{"encoding"},
	)

	e.degradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "podseek",
			Subsystem: "search",
			Name:      "degraded_results_total",
			Help:      "Responses served with placeholder similarities because the corpus has no embeddings",
		},
	)

	registry.MustRegister(
		e.searchRequests,
		e.searchLatency,
		e.searchErrors,
		e.encodingServed,
		e.degradedTotal,
	)

	return e
}

// RecordSearch records one executed search request.
func (e *Exporter) RecordSearch(capability string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	e.searchRequests.WithLabelValues(capability, status).Inc()
	e.searchLatency.WithLabelValues(capability).Observe(latency.Seconds())
}

// RecordSearchError records a failed search by error type, including
// validation failures that never reach the pipeline.
func (e *Exporter) RecordSearchError(errorType string) {
	e.searchErrors.WithLabelValues(errorType).Inc()
}

// RecordEncoding records which embedding encoding served a search.
func (e *Exporter) RecordEncoding(encoding string) {
	e.encodingServed.WithLabelValues(encoding).Inc()
}

// RecordDegraded records a response built from placeholder similarities.
func (e *Exporter) RecordDegraded() {
	e.degradedTotal.Inc()
}

// Handler returns the HTTP handler for Prometheus metrics.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ServeHTTP implements http.Handler for the metrics endpoint.
func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Handler().ServeHTTP(w, r)
}

// Registry returns the Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
