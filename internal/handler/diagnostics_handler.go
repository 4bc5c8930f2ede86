package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/response"
)

type diagnosticsService interface {
	TestConnection(ctx context.Context) *dto.ConnectionTestResponse
	ServiceDiagnostics(ctx context.Context) (*dto.ServiceDiagnosticsResponse, error)
}

type cacheInvalidator interface {
	Enabled() bool
	Invalidate(ctx context.Context, pattern string) (int, error)
}

// DiagnosticsHandler exposes the admin health views and cache controls.
type DiagnosticsHandler struct {
	service diagnosticsService
	cache   cacheInvalidator
}

// NewDiagnosticsHandler constructs the handler. The cache may be nil when
// Redis is not configured.
func NewDiagnosticsHandler(service diagnosticsService, cache cacheInvalidator) *DiagnosticsHandler {
	return &DiagnosticsHandler{service: service, cache: cache}
}

// TestConnection godoc
// @Summary Probe the upstream scheduling API
// @Description Makes a single small upstream call and reports latency and reachability
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/diagnostics/connection [get]
func (h *DiagnosticsHandler) TestConnection(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.service.TestConnection(c.Request.Context()), nil)
}

// ServiceDiagnostics godoc
// @Summary Upstream catalog summary
// @Description Entity counts, category classification breakdown and runtime metrics
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/diagnostics/services [get]
func (h *DiagnosticsHandler) ServiceDiagnostics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, err := h.service.ServiceDiagnostics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// FlushCache godoc
// @Summary Invalidate cached catalog data
// @Description Deletes cached entries matching the given glob pattern, or everything when no pattern is given
// @Tags Diagnostics
// @Produce json
// @Param pattern query string false "Key glob, e.g. availability:*"
// @Success 200 {object} response.Envelope
// @Router /admin/cache/invalidate [post]
func (h *DiagnosticsHandler) FlushCache(c *gin.Context) {
	if h.cache == nil || !h.cache.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotConfigured, "caching is disabled"))
		return
	}
	pattern := strings.TrimSpace(c.Query("pattern"))
	if pattern == "" {
		pattern = "*"
	}
	removed, err := h.cache.Invalidate(c.Request.Context(), pattern)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"pattern": pattern, "removed": removed}, nil)
}
