package middlewares

import (
	"log/slog"
	"time"

	"github.com/strada-dev/strada"
)

// LoggingConfig configures the Logging middleware behaviour.
type LoggingConfig struct {
	// Logger is the structured logger to write to. Defaults to
	// slog.Default when nil.
	Logger *slog.Logger

	// SkipPaths lists request paths that are never logged, typically
	// health checks.
	SkipPaths []string
}

// Logging returns a middleware that writes one structured log line per
// request after the chain settles: method, path, matched route pattern,
// status, duration, and the request ID when RequestID ran upstream.
// Chain errors are logged at error level and propagated unchanged.
func Logging(cfg LoggingConfig) strada.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *strada.Context) error {
		if skip[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Duration("duration", elapsed),
		}
		if pattern := c.MatchedPattern(); pattern != "" {
			attrs = append(attrs, slog.String("route", pattern))
		}
		if resp := c.Response(); resp != nil {
			attrs = append(attrs, slog.Int("status", resp.Status()))
		}
		if id := RequestIDFromContext(c); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}

		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request failed", attrs...)
		} else {
			logger.Info("request", attrs...)
		}
		return err
	}
}
