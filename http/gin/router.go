// Package gin mounts the sendeth frame handlers on a Gin engine.
// This package is a thin adapter that translates gin.Context to stdlib
// http patterns and delegates all widget behavior to the http package.
package gin

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sendethhttp "github.com/mark3labs/sendeth-frame/http"
)

// New returns a Gin engine serving s. The engine recovers from panics,
// logs each request with zap and records prometheus request metrics when
// the server has them.
//
// Example usage:
//
//	srv, err := sendethhttp.NewServer(cfg, bridge, latch, logger, metrics)
//	if err != nil {
//	    return err
//	}
//	engine := gin.New(srv)
//	engine.Run(":8080")
func New(s *sendethhttp.Server) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(s.Logger()))
	if m := s.Metrics(); m != nil {
		engine.Use(m.GinMiddleware())
	}

	for _, route := range s.Routes() {
		engine.Handle(route.Method, route.Path, gin.WrapF(route.Handler))
	}
	return engine
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", c.ClientIP()))
	}
}
