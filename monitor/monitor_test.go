package monitor

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Outcomes(t *testing.T) {
	m := New()

	m.ObserveConnect(ResultSuccess)
	m.ObserveConnect(ResultFailure)
	m.ObserveConnect(ResultSuccess)
	m.ObserveSend(ResultInvalid)
	m.SendStarted()
	m.SendStarted()
	m.SendFinished()

	if got := testutil.ToFloat64(m.connects.WithLabelValues(ResultSuccess)); got != 2 {
		t.Errorf("connect success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.connects.WithLabelValues(ResultFailure)); got != 1 {
		t.Errorf("connect failure = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sends.WithLabelValues(ResultInvalid)); got != 1 {
		t.Errorf("send invalid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sendInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveConnect(ResultSuccess)
	m.ObserveSend(ResultFailure)
	m.SendStarted()
	m.SendFinished()
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
}

func TestMetrics_ObserveHTTPDropsUnmatched(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	if n := testutil.CollectAndCount(m.httpRequests); n != 0 {
		t.Errorf("expected no series for unmatched routes, got %d", n)
	}
}

func TestMetrics_ChiMiddleware(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	for _, path := range []string{"/api/state", "/", "/"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/state", "418")); got != 1 {
		t.Errorf("/api/state 418 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/", "200")); got != 2 {
		t.Errorf("/ 200 = %v, want 2", got)
	}
}

func TestMetrics_GinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	engine := gin.New()
	engine.Use(m.GinMiddleware())
	engine.POST("/send", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/")
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send", nil))

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/send", "303")); got != 1 {
		t.Errorf("/send 303 = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSend(ResultSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `sendeth_send_total{result="success"} 1`) {
		t.Errorf("exposition missing send counter:\n%s", rec.Body.String())
	}
}
