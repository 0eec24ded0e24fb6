package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker probes a single backing component.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to the HealthChecker interface.
type HealthCheckerFunc struct {
	CheckerName string
	CheckFunc   func(ctx context.Context) error
}

func (f HealthCheckerFunc) Name() string                    { return f.CheckerName }
func (f HealthCheckerFunc) Check(ctx context.Context) error { return f.CheckFunc(ctx) }

// ComponentCheck is the result of probing one component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version   string
	startedAt time.Time
	checkers  []HealthChecker
}

// NewHealthHandler constructs a HealthHandler.  Checkers are probed on
// readiness and detail requests; liveness never touches them.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startedAt: time.Now(),
		checkers:  checkers,
	}
}

// Liveness reports that the process is running.  It must not depend on any
// backing service, or a database outage would get the process restarted.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Readiness probes every registered component concurrently and returns 503
// when any of them fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.checkAll(ctx)
	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}

// Detailed returns per-component latencies for diagnostics.  Unlike
// Readiness it always answers 200 so dashboards can scrape it during
// partial outages.
func (h *HealthHandler) Detailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	checks, healthy := h.checkAll(ctx)
	overall := "healthy"
	if !healthy {
		overall = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  overall,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"checks":  checks,
	})
}

func (h *HealthHandler) checkAll(ctx context.Context) (map[string]ComponentCheck, bool) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		checks  = make(map[string]ComponentCheck, len(h.checkers))
		healthy = true
	)

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(ck HealthChecker) {
			defer wg.Done()
			start := time.Now()
			err := ck.Check(ctx)
			result := ComponentCheck{
				Status:  "up",
				Latency: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				result.Status = "down"
				result.Error = err.Error()
			}
			mu.Lock()
			checks[ck.Name()] = result
			if err != nil {
				healthy = false
			}
			mu.Unlock()
		}(checker)
	}
	wg.Wait()
	return checks, healthy
}
