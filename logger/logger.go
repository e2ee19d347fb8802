// Package logger builds the zap loggers used across sendeth.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Production is the environment name that selects JSON output.
const Production = "production"

// New builds a logger for env. Production gets JSON with ISO8601
// timestamps; anything else gets a colored development console.
// outputs replaces the default stderr sink (paths or URLs zap accepts).
func New(env string, outputs ...string) (*zap.Logger, error) {
	var config zap.Config

	if env == Production {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if len(outputs) > 0 {
		config.OutputPaths = outputs
		config.ErrorOutputPaths = outputs
		// Colors only make sense on a terminal.
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return config.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
