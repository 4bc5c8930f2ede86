package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/middleware"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/response"
)

type catalogService interface {
	Services(ctx context.Context) (*dto.ServiceListResponse, bool, error)
	Service(ctx context.Context, id string) (*models.ServiceRecord, error)
	SessionTypes(ctx context.Context) (*dto.SessionTypeListResponse, bool, error)
	Locations(ctx context.Context) (*dto.LocationListResponse, bool, error)
}

type treatmentMenuService interface {
	Menu(ctx context.Context, req dto.TreatmentMenuRequest) (*dto.TreatmentMenuResponse, bool, error)
	ExportMenu(ctx context.Context, format string, req dto.TreatmentMenuRequest) ([]byte, string, string, error)
}

// CatalogHandler exposes the priced service catalog and the grouped
// treatment menu built on top of it.
type CatalogHandler struct {
	catalog    catalogService
	treatments treatmentMenuService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalog catalogService, treatments treatmentMenuService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, treatments: treatments}
}

// Services godoc
// @Summary List priced services
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) Services(c *gin.Context) {
	list, cacheHit, err := h.catalog.Services(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, list, nil, middleware.ExtractMeta(c))
}

// Service godoc
// @Summary Get a single service by upstream id
// @Tags Catalog
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /services/{id} [get]
func (h *CatalogHandler) Service(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	svc, err := h.catalog.Service(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, svc, nil)
}

// SessionTypes godoc
// @Summary List upstream session types
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session-types [get]
func (h *CatalogHandler) SessionTypes(c *gin.Context) {
	list, cacheHit, err := h.catalog.SessionTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, list, nil, middleware.ExtractMeta(c))
}

// Locations godoc
// @Summary List site locations
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /locations [get]
func (h *CatalogHandler) Locations(c *gin.Context) {
	list, cacheHit, err := h.catalog.Locations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, list, nil, middleware.ExtractMeta(c))
}

// Treatments godoc
// @Summary Grouped treatment menu
// @Description Services deduplicated and grouped by therapist and base treatment name, with duration variants
// @Tags Catalog
// @Produce json
// @Param category query string false "Display category filter"
// @Param therapist query string false "Therapist name filter"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /treatments [get]
func (h *CatalogHandler) Treatments(c *gin.Context) {
	var req dto.TreatmentMenuRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid treatment menu query"))
		return
	}

	start := time.Now()
	menu, cacheHit, err := h.treatments.Menu(c.Request.Context(), req)
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
	response.JSON(c, http.StatusOK, menu, nil, meta)
}

// ExportTreatments godoc
// @Summary Export the treatment menu
// @Description Streams the grouped menu as CSV or PDF
// @Tags Catalog
// @Produce octet-stream
// @Param format query string false "Export format: csv or pdf (default pdf)"
// @Param category query string false "Display category filter"
// @Param therapist query string false "Therapist name filter"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /treatments/export [get]
func (h *CatalogHandler) ExportTreatments(c *gin.Context) {
	var req dto.TreatmentMenuRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid treatment menu query"))
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))

	payload, contentType, filename, err := h.treatments.ExportMenu(c.Request.Context(), format, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
