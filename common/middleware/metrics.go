package middleware

import (
	"context"
	"strconv"
	"time"

	awspkg "shopzeo-backend/pkg/aws"

	"github.com/gin-gonic/gin"
)

// CloudWatchMetrics records request count, latency and error count per route.
// No-op when the metrics client is disabled.
func CloudWatchMetrics(metrics *awspkg.MetricsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !metrics.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		dims := map[string]string{
			"Route":  route,
			"Method": c.Request.Method,
			"Status": strconv.Itoa(c.Writer.Status()),
		}

		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metrics.RecordCount(bgCtx, awspkg.MetricHTTPRequests, dims)
			_ = metrics.RecordLatency(bgCtx, awspkg.MetricHTTPLatency, time.Since(start), dims)
			if c.Writer.Status() >= 500 {
				_ = metrics.RecordCount(bgCtx, awspkg.MetricHTTPErrors, dims)
			}
		}()
	}
}
