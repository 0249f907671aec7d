package services

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks API calls made through a Client.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg. A nil reg leaves them
// unregistered, which tests use to avoid global state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_api_requests_total",
			Help: "API requests by resource, operation and response status.",
		}, []string{"resource", "operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_api_request_duration_seconds",
			Help:    "API request latency by resource and operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// recordCall records one call. status 0 means no response arrived.
func (m *Metrics) recordCall(resource, operation string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.requests.WithLabelValues(resource, operation, label).Inc()
	m.duration.WithLabelValues(resource, operation).Observe(d.Seconds())
}
