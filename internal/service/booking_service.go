package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/jobs"
)

type productStore interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	UpdatePrice(ctx context.Context, id string, price float64) error
	AddCartItem(ctx context.Context, item *models.CartItem) error
	ListCartItems(ctx context.Context, cartKey string) ([]models.CartItem, error)
	AttachOrderMetadata(ctx context.Context, cartItemID string, meta map[string]string) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// OrderMetadataJobType labels queued order-metadata attachments.
const OrderMetadataJobType = "order_metadata"

// OrderMetadataPayload is the queued payload for metadata attachment.
type OrderMetadataPayload struct {
	CartItemID string
	Meta       map[string]string
}

// BookingServiceConfig tunes the cart side channel.
type BookingServiceConfig struct {
	Enabled   bool
	SKUPrefix string
}

// BookingService bridges a confirmed appointment selection into the shop
// cart. The shop never lists these products; they are created on demand as
// virtual, hidden mirrors of upstream services so checkout has something to
// charge against.
type BookingService struct {
	store    productStore
	queue    jobEnqueuer
	validate *validator.Validate
	logger   *zap.Logger
	cfg      BookingServiceConfig
}

// BookingServiceParams groups constructor dependencies.
type BookingServiceParams struct {
	Store  productStore
	Queue  jobEnqueuer
	Logger *zap.Logger
	Config BookingServiceConfig
}

// NewBookingService constructs a BookingService.
func NewBookingService(params BookingServiceParams) *BookingService {
	cfg := params.Config
	if cfg.SKUPrefix == "" {
		cfg.SKUPrefix = "mb-"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		store:    params.Store,
		queue:    params.Queue,
		validate: validator.New(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Confirm adds a booking to the cart, creating or repricing the backing
// product as needed.
func (s *BookingService) Confirm(ctx context.Context, req dto.ConfirmBookingRequest) (*dto.ConfirmBookingResponse, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "booking is disabled")
	}
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.ServiceName = strings.TrimSpace(req.ServiceName)
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "service_id, service_name and a positive price are required")
	}

	product, err := s.ensureProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	cartKey := strings.TrimSpace(req.CartKey)
	if cartKey == "" {
		cartKey = uuid.NewString()
	}
	item := &models.CartItem{
		ID:        uuid.NewString(),
		CartKey:   cartKey,
		ProductID: product.ID,
		ServiceID: req.ServiceID,
		Therapist: strings.TrimSpace(req.Therapist),
		ApptDate:  strings.TrimSpace(req.Date),
		ApptTime:  strings.TrimSpace(req.Time),
	}
	if err := s.store.AddCartItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add booking to cart")
	}

	s.enqueueMetadata(item)

	return &dto.ConfirmBookingResponse{
		CartKey:    cartKey,
		CartItemID: item.ID,
		ProductID:  product.ID,
		Price:      product.Price,
	}, nil
}

// Cart lists the bookings held in a cart.
func (s *BookingService) Cart(ctx context.Context, cartKey string) ([]models.CartItem, error) {
	if strings.TrimSpace(cartKey) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cart_key is required")
	}
	items, err := s.store.ListCartItems(ctx, cartKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cart items")
	}
	return items, nil
}

// HandleOrderMetadataJob is the queue handler that copies appointment
// details onto the order line.
func (s *BookingService) HandleOrderMetadataJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(OrderMetadataPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for %s job", job.Payload, job.Type)
	}
	return s.store.AttachOrderMetadata(ctx, payload.CartItemID, payload.Meta)
}

// ensureProduct finds or creates the hidden product mirroring the service,
// refreshing its price when the catalog moved.
func (s *BookingService) ensureProduct(ctx context.Context, req dto.ConfirmBookingRequest) (*models.Product, error) {
	sku := s.cfg.SKUPrefix + req.ServiceID
	product, err := s.store.FindBySKU(ctx, sku)
	if err != nil {
		if !errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up booking product")
		}
		product = &models.Product{
			ID:      uuid.NewString(),
			SKU:     sku,
			Name:    req.ServiceName,
			Price:   req.Price,
			Virtual: true,
			Hidden:  true,
		}
		if err := s.store.Create(ctx, product); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking product")
		}
		return product, nil
	}

	if product.Price != req.Price {
		if err := s.store.UpdatePrice(ctx, product.ID, req.Price); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking product price")
		}
		product.Price = req.Price
	}
	return product, nil
}

func (s *BookingService) enqueueMetadata(item *models.CartItem) {
	if s.queue == nil {
		return
	}
	meta := map[string]string{}
	if item.Therapist != "" {
		meta["therapist"] = item.Therapist
	}
	if item.ApptDate != "" {
		meta["appointment_date"] = item.ApptDate
	}
	if item.ApptTime != "" {
		meta["appointment_time"] = item.ApptTime
	}
	if len(meta) == 0 {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    OrderMetadataJobType,
		Payload: OrderMetadataPayload{CartItemID: item.ID, Meta: meta},
	})
	if err != nil {
		// The cart item is already saved; metadata is best effort.
		s.logger.Warn("failed to enqueue order metadata job",
			zap.String("cart_item_id", item.ID),
			zap.Error(err))
	}
}
