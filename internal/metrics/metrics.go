package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	TelemetryIngested *prometheus.CounterVec
	AccessDenied      *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnovauto_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"handler", "method", "status"},
		),

		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bnovauto_request_duration_seconds",
				Help:    "Duration of HTTP request processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler"},
		),

		TelemetryIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnovauto_telemetry_ingested_total",
				Help: "Total number of telemetry records ingested",
			},
			[]string{"transport"},
		),

		AccessDenied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnovauto_access_denied_total",
				Help: "Total number of requests rejected by the access policy",
			},
			[]string{"operation"},
		),
	}
}
