package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns a middleware recording request counts, durations, and
// sizes.  The path label uses the route template so that
// /api/v1/molecules/:idcode stays one series regardless of the identifier.
func Metrics(metrics *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			// Unmatched routes share one label to keep cardinality bounded.
			path = "unmatched"
		}
		method := c.Request.Method

		active := metrics.HTTPActiveRequests.WithLabelValues(method, path)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		prometheus.RecordHTTPRequest(
			metrics,
			method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.Request.ContentLength,
			int64(c.Writer.Size()),
		)
	}
}
