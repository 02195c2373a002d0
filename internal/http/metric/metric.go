package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "product_service"
	subsystem = "http"
)

var requestLabels = []string{"method", "route", "status"}

// Metrics holds the HTTP server collectors.
type Metrics struct {
	InflightRequests prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ResponseSize     *prometheus.HistogramVec
}

// New creates the HTTP collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InflightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inflight_requests",
			Help:      "Number of HTTP requests being served.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Number of HTTP requests by method, route and status.",
		}, requestLabels),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, requestLabels),
		ResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_size_bytes",
			Help:      "HTTP response body size by method, route and status.",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 6),
		}, requestLabels),
	}

	reg.MustRegister(m.InflightRequests, m.RequestsTotal, m.RequestDuration, m.ResponseSize)

	return m
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status, size int, elapsed time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}

	m.RequestsTotal.With(labels).Inc()
	m.RequestDuration.With(labels).Observe(elapsed.Seconds())
	m.ResponseSize.With(labels).Observe(float64(size))
}
