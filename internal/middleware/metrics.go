package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/pkg/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping raw paths out of the
// label set.
const unmatchedRoute = "unmatched"

// Metrics tracks in-flight requests and observes latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsInFlight.Inc()
		start := time.Now()
		defer metrics.RequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.APILatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
