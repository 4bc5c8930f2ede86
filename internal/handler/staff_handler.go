package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/middleware"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/response"
)

type staffListService interface {
	Staff(ctx context.Context) (*dto.StaffListResponse, bool, error)
}

type staffScheduleService interface {
	WorkingDays(ctx context.Context, search string) (*dto.WorkingDaysResponse, bool, error)
	StaffDetails(ctx context.Context, name string) (*dto.StaffDetailsResponse, error)
}

// StaffHandler exposes the therapist roster and working-days views.
type StaffHandler struct {
	catalog  staffListService
	schedule staffScheduleService
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(catalog staffListService, schedule staffScheduleService) *StaffHandler {
	return &StaffHandler{catalog: catalog, schedule: schedule}
}

// List godoc
// @Summary List therapists
// @Description Falls back to names extracted from service titles when the staff endpoint is unavailable
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	list, cacheHit, err := h.catalog.Staff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, list, nil, middleware.ExtractMeta(c))
}

// Details godoc
// @Summary Get a therapist by name
// @Tags Staff
// @Produce json
// @Param name query string true "Therapist name, full or partial"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/details [get]
func (h *StaffHandler) Details(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name is required"))
		return
	}
	details, err := h.schedule.StaffDetails(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// WorkingDays godoc
// @Summary Weekday availability per therapist
// @Description Weekdays are inferred from booked appointments over a thirty day window
// @Tags Staff
// @Produce json
// @Param search query string false "Keep only therapists whose name contains this"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /staff/working-days [get]
func (h *StaffHandler) WorkingDays(c *gin.Context) {
	view, cacheHit, err := h.schedule.WorkingDays(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}
