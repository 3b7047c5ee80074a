package middleware

import (
	"time"

	"pdf-chat-platform/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and duration per method/path.
// Complements otelgin, which emits spans but not these counters.
func MetricsMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		statusStr := "success"
		if status >= 400 {
			statusStr = "error"
		}

		metrics.RecordRequest(
			c.Request.Method,
			c.Request.URL.Path,
			statusStr,
			duration,
		)
	}
}
