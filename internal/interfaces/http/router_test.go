package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolCanon/internal/interfaces/http/handlers"
	"github.com/turtacn/MolCanon/internal/interfaces/http/middleware"
)

func testRouterConfig(t *testing.T) RouterConfig {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "molcanon_router_test",
	}, logging.NewNopLogger())
	require.NoError(t, err)

	return RouterConfig{
		Mode: gin.TestMode,
		Health: handlers.NewHealthHandler("test", handlers.HealthCheckerFunc{
			CheckerName: "noop",
			CheckFunc:   func(context.Context) error { return nil },
		}),
		Logger:         logging.NewNopLogger(),
		Metrics:        prometheus.NewAppMetrics(collector),
		MetricsHandler: collector.Handler(),
		CORS:           middleware.DefaultCORSConfig(),
		Logging:        middleware.DefaultLoggingConfig(),
	}
}

func TestNewRouter_HealthRoutes(t *testing.T) {
	r := NewRouter(testRouterConfig(t))

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detail"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, path, nil))
		assert.Equal(t, nethttp.StatusOK, w.Code, "GET %s", path)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	r := NewRouter(testRouterConfig(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))

	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}

func TestNewRouter_NoRegistryHandlerMeansNoAPIRoutes(t *testing.T) {
	r := NewRouter(testRouterConfig(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/v1/molecules", nil))

	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestNewRouter_UnknownRoute404(t *testing.T) {
	r := NewRouter(testRouterConfig(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/nope", nil))

	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestNewRouter_RateLimiterEnforced(t *testing.T) {
	cfg := testRouterConfig(t)
	limiter := middleware.NewTokenBucketLimiter(1, 1, 0)
	defer limiter.Stop()
	cfg.RateLimiter = limiter
	cfg.RateLimitConf = middleware.DefaultRateLimitConfig()
	r := NewRouter(cfg)

	// Health endpoints are in the default skip list, so hammer /metrics.
	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.Equal(t, nethttp.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	assert.Equal(t, nethttp.StatusTooManyRequests, second.Code)
}
