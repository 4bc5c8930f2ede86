package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/service"
)

// MetricsHandler serves the observability endpoints: Prometheus scrapes,
// liveness and readiness.
type MetricsHandler struct {
	metrics    *service.MetricsService
	components map[string]bool
}

// NewMetricsHandler constructs the handler. Components is a static snapshot
// of which optional subsystems came up at boot; it feeds the readiness
// payload.
func NewMetricsHandler(metrics *service.MetricsService, components map[string]bool) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, components: components}
}

// Prometheus serves the metrics registry in exposition format.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health is the liveness probe. It confirms the process is serving.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports per-component availability. The API still serves with cache
// or booking down, so this never returns non-200 once the server is up;
// operators read the component map instead.
func (h *MetricsHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "components": h.components})
}
