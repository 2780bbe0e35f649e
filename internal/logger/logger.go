// Package logger provides structured logging with zap.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the zap configuration before the logger is built.
type Option func(*zap.Config)

// WithLevel sets the minimum enabled level.
func WithLevel(level zapcore.Level) Option {
	return func(cfg *zap.Config) {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
}

// New creates a zap.Logger for env: JSON production output for "production",
// a development console logger otherwise.
func New(env string, opts ...Option) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewTerminal creates a logger for interactive sessions. Only warnings and
// errors are written unless verbose is set, so log lines do not interleave
// with prompts.
func NewTerminal(env string, verbose bool) *zap.Logger {
	if verbose {
		return New(env)
	}
	return New(env, WithLevel(zapcore.WarnLevel))
}
