package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/response"
)

type bookingService interface {
	Confirm(ctx context.Context, req dto.ConfirmBookingRequest) (*dto.ConfirmBookingResponse, error)
	Cart(ctx context.Context, cartKey string) ([]models.CartItem, error)
}

// BookingHandler bridges confirmed appointment selections into the cart.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Confirm godoc
// @Summary Confirm a booking into the cart
// @Description Creates or reuses a hidden product for the service and adds a cart line with the appointment details
// @Tags Booking
// @Accept json
// @Produce json
// @Param payload body dto.ConfirmBookingRequest true "Booking selection"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /bookings/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Cart godoc
// @Summary List cart items for a cart key
// @Tags Booking
// @Produce json
// @Param key path string true "Cart key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bookings/cart/{key} [get]
func (h *BookingHandler) Cart(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "cart key is required"))
		return
	}
	items, err := h.service.Cart(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"cart_key": key, "items": items, "total": len(items)}, nil)
}
