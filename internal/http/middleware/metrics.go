// README: Prometheus middleware recording request counts and latency.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/observability"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.HTTPRequestsInFlight.Inc()
		defer observability.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
