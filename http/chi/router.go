// Package chi mounts the sendeth frame handlers on a chi router.
// This package is a thin adapter; all widget behavior lives in the http
// package.
package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	sendethhttp "github.com/mark3labs/sendeth-frame/http"
)

// New returns a chi router serving s with request ids, real client IPs,
// panic recovery, zap request logs and, when configured, prometheus
// request metrics.
//
// Example usage:
//
//	srv, err := sendethhttp.NewServer(cfg, bridge, latch, logger, metrics)
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", chi.New(srv))
func New(s *sendethhttp.Server) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Logger()))
	r.Use(middleware.Recoverer)
	if m := s.Metrics(); m != nil {
		r.Use(m.Middleware)
	}

	for _, route := range s.Routes() {
		r.Method(route.Method, route.Path, route.Handler)
	}
	return r
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			logger.Info("request", fields...)
		})
	}
}
