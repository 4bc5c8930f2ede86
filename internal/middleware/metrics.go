package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/service"
)

// Metrics records one observation per request, labelled by the route
// template so path parameters do not explode cardinality. The scrape
// endpoint itself is excluded.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
