// Package middleware contains the gin middleware chain for the HTTP API.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
)

// LoggingConfig controls the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are matched exactly and never logged.  Probe endpoints go
	// here so they do not drown out real traffic.
	SkipPaths []string

	// SlowThreshold promotes requests slower than this to warn level.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig returns the logging defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz"},
		SlowThreshold: 3 * time.Second,
	}
}

// Logging returns a middleware that logs one line per request.  Log level
// follows the outcome: server errors log at error, client errors and slow
// requests at warn, everything else at info.
func Logging(logger logging.Logger, cfg LoggingConfig) gin.HandlerFunc {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("client_ip", c.ClientIP()),
			logging.Int("resp_bytes", c.Writer.Size()),
		}
		if query != "" {
			fields = append(fields, logging.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		case cfg.SlowThreshold > 0 && elapsed > cfg.SlowThreshold:
			logger.Warn("slow request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
