package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type fakeBookingSrv struct {
	confirm    *dto.ConfirmBookingResponse
	confirmErr error
	items      []models.CartItem
	lastReq    dto.ConfirmBookingRequest
	lastKey    string
}

func (f *fakeBookingSrv) Confirm(_ context.Context, req dto.ConfirmBookingRequest) (*dto.ConfirmBookingResponse, error) {
	f.lastReq = req
	return f.confirm, f.confirmErr
}

func (f *fakeBookingSrv) Cart(_ context.Context, cartKey string) ([]models.CartItem, error) {
	f.lastKey = cartKey
	return f.items, nil
}

func TestBookingHandlerConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeBookingSrv{
		confirm: &dto.ConfirmBookingResponse{CartKey: "cart-1", CartItemID: "item-1", ProductID: "prod-1", Price: 85},
	}
	handler := NewBookingHandler(service)

	body, _ := json.Marshal(dto.ConfirmBookingRequest{
		ServiceID:   "42",
		ServiceName: "Deep Tissue Massage - 60 mins",
		Price:       85,
		Therapist:   "Maria Lopez",
		Date:        "2026-09-01",
		Time:        "14:00",
	})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings/confirm", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Confirm(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "42", service.lastReq.ServiceID)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "cart-1", envelope.Data["cart_key"])
}

func TestBookingHandlerConfirmRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings/confirm", bytes.NewBufferString("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Confirm(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingHandlerConfirmDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{
		confirmErr: appErrors.Clone(appErrors.ErrNotConfigured, "booking is disabled"),
	})

	body, _ := json.Marshal(dto.ConfirmBookingRequest{ServiceID: "42", ServiceName: "Massage", Price: 85})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings/confirm", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Confirm(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBookingHandlerCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeBookingSrv{
		items: []models.CartItem{{ID: "item-1", CartKey: "cart-1"}},
	}
	handler := NewBookingHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/bookings/cart/cart-1", nil)
	c.Params = gin.Params{{Key: "key", Value: "cart-1"}}

	handler.Cart(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cart-1", service.lastKey)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, float64(1), envelope.Data["total"])
}
