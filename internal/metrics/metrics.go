// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
    "net/http"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wedding_marketplace"

// Metrics bundles a private registry with the application collectors.
// All recording methods are safe on a nil receiver so that tests and CLI
// commands can run without metrics.
type Metrics struct {
    Registry *prometheus.Registry

    httpRequests  *prometheus.CounterVec
    httpDuration  *prometheus.HistogramVec
    transitions   *prometheus.CounterVec
    reviews       prometheus.Counter
    eventFailures prometheus.Counter
}

// New creates a registry with the Go and process collectors plus the
// application metrics.
func New() *Metrics {
    reg := prometheus.NewRegistry()
    reg.MustRegister(
        collectors.NewGoCollector(),
        collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
    )
    m := &Metrics{
        Registry: reg,
        httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "http_requests_total",
            Help:      "HTTP requests by method, route and status code.",
        }, []string{"method", "route", "code"}),
        httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
            Namespace: namespace,
            Name:      "http_request_duration_seconds",
            Help:      "HTTP request latency by method and route.",
            Buckets:   prometheus.DefBuckets,
        }, []string{"method", "route"}),
        transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "reservation_transitions_total",
            Help:      "Reservation status changes by source and target status.",
        }, []string{"from", "to"}),
        reviews: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "reviews_created_total",
            Help:      "Reviews written.",
        }),
        eventFailures: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "event_publish_failures_total",
            Help:      "Reservation events that could not be published.",
        }),
    }
    reg.MustRegister(m.httpRequests, m.httpDuration, m.transitions, m.reviews, m.eventFailures)
    return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
    return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
    if m == nil {
        return
    }
    m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
    m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ReservationTransition records a status change.  Creation is recorded with
// an empty from label.
func (m *Metrics) ReservationTransition(from, to string) {
    if m == nil {
        return
    }
    m.transitions.WithLabelValues(from, to).Inc()
}

// ReviewCreated records a new review.
func (m *Metrics) ReviewCreated() {
    if m == nil {
        return
    }
    m.reviews.Inc()
}

// EventPublishFailed records an event that was dropped.
func (m *Metrics) EventPublishFailed() {
    if m == nil {
        return
    }
    m.eventFailures.Inc()
}
