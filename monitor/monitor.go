// Package monitor exposes prometheus metrics for widget outcomes and
// frame HTTP traffic on a dedicated registry.
package monitor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for the connect and send counters.
const (
	ResultSuccess      = "success"
	ResultFailure      = "failure"
	ResultInvalid      = "invalid"
	ResultNotConnected = "not_connected"
)

// Metrics holds every collector sendeth reports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	connects     *prometheus.CounterVec
	sends        *prometheus.CounterVec
	sendInFlight prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sendeth_connect_total",
			Help: "Wallet connect attempts by result.",
		}, []string{"result"}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sendeth_send_total",
			Help: "Send attempts by result.",
		}, []string{"result"}),
		sendInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sendeth_send_in_flight",
			Help: "Transfers currently waiting on the wallet bridge.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sendeth_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sendeth_http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: []float64{0.05, 0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		m.connects,
		m.sends,
		m.sendInFlight,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveConnect counts a connect attempt.
func (m *Metrics) ObserveConnect(result string) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(result).Inc()
}

// ObserveSend counts a send attempt.
func (m *Metrics) ObserveSend(result string) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(result).Inc()
}

// SendStarted marks a transfer as in flight. Pair with SendFinished.
func (m *Metrics) SendStarted() {
	if m == nil {
		return
	}
	m.sendInFlight.Inc()
}

// SendFinished marks an in-flight transfer as done.
func (m *Metrics) SendFinished() {
	if m == nil {
		return
	}
	m.sendInFlight.Dec()
}

// ObserveHTTP records one served request. Empty paths (unmatched routes)
// are dropped to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil || path == "" {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Middleware is the chi flavor of the request metrics. The path label is
// the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		var path string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveHTTP(r.Method, path, status, time.Since(start))
	})
}

// GinMiddleware is the gin flavor of the request metrics.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
