package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/middleware"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/response"
)

type availabilityService interface {
	GetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResponse, bool, error)
}

// AvailabilityHandler wires the aggregated availability feed to HTTP.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Get godoc
// @Summary Aggregated availability feed
// @Description Returns bookable slots merged across live schedule data with a static catalog fallback
// @Tags Availability
// @Produce json
// @Param date query string false "Start date (YYYY-MM-DD). Defaults to today"
// @Param end_date query string false "End date (YYYY-MM-DD). Defaults to the start date"
// @Param category query []string false "Display category filter, repeatable"
// @Param therapist query string false "Therapist name filter"
// @Param time query string false "Preferred time, matched within a two hour window"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid availability query"))
		return
	}

	start := time.Now()
	feed, cacheHit, err := h.service.GetAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, feed, nil, meta)
}
