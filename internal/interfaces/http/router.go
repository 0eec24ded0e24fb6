// Package http assembles the gin router and HTTP server for the public API.
package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolCanon/internal/interfaces/http/handlers"
	"github.com/turtacn/MolCanon/internal/interfaces/http/middleware"
)

// RouterConfig aggregates everything the router needs.
type RouterConfig struct {
	Mode string // gin mode: debug, release, or test

	Registry *handlers.RegistryHandler
	Health   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler nethttp.Handler

	// RateLimiter enables rate limiting when set.
	RateLimiter   middleware.RateLimiter
	RateLimitConf middleware.RateLimitConfig

	CORS    middleware.CORSConfig
	Logging middleware.LoggingConfig
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(cfg.Logger, cfg.Logging))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimitConf))
	}

	// Probes and operational endpoints sit outside the API group so they
	// are never versioned away.
	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
		r.GET("/healthz/detail", cfg.Health.Detailed)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	if cfg.Registry != nil {
		v1 := r.Group("/api/v1")
		{
			v1.POST("/canonicalize", cfg.Registry.Canonicalize)
			v1.POST("/validate", cfg.Registry.Validate)
			v1.POST("/decode", cfg.Registry.Decode)

			v1.POST("/molecules", cfg.Registry.Register)
			v1.GET("/molecules", cfg.Registry.List)
			v1.GET("/molecules/:idcode", cfg.Registry.Lookup)
		}
	}

	return r
}
