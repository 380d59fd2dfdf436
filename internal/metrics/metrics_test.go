package metrics

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
)

func TestReservationTransitionCounter(t *testing.T) {
    m := New()
    m.ReservationTransition("pending", "confirmed")
    m.ReservationTransition("pending", "confirmed")
    m.ReservationTransition("", "pending")

    assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending", "confirmed")))
    assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("", "pending")))
}

func TestNilMetricsAreNoops(t *testing.T) {
    var m *Metrics
    assert.NotPanics(t, func() {
        m.ObserveHTTP("GET", "/", 200, time.Millisecond)
        m.ReservationTransition("pending", "rejected")
        m.ReviewCreated()
        m.EventPublishFailed()
    })
}

func TestHandlerExposesApplicationMetrics(t *testing.T) {
    m := New()
    m.ObserveHTTP("GET", "/categories/:slug", 200, 5*time.Millisecond)
    m.ReviewCreated()

    rec := httptest.NewRecorder()
    m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

    assert.Equal(t, http.StatusOK, rec.Code)
    body := rec.Body.String()
    assert.Contains(t, body, `wedding_marketplace_http_requests_total{code="200",method="GET",route="/categories/:slug"} 1`)
    assert.Contains(t, body, "wedding_marketplace_reviews_created_total 1")
}
