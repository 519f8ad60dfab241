// Package logging builds the process logger from the resolved configuration.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a zap logger honoring the configured level. Debug mode
// switches to the development config for human-readable output.
func New(level string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(Level(level))
	return cfg.Build()
}

// Level maps a configured level name to a zap level. CRITICAL maps to
// Fatal; unknown names fall back to Error, matching the configuration
// default.
func Level(name string) zapcore.Level {
	switch name {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "CRITICAL":
		return zapcore.FatalLevel
	default:
		return zapcore.ErrorLevel
	}
}
