package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type fullCatalogClient interface {
	IsConfigured() bool
	GetServices(ctx context.Context, limit int) ([]models.ServiceRecord, error)
	GetSessionTypes(ctx context.Context, limit int) ([]models.SessionTypeRecord, error)
	GetLocations(ctx context.Context) ([]models.LocationRecord, error)
	GetStaff(ctx context.Context, limit int) ([]models.StaffRecord, error)
}

// CatalogServiceConfig tunes catalog listings.
type CatalogServiceConfig struct {
	CacheTTL         time.Duration
	ServiceLimit     int
	SessionTypeLimit int
	StaffLimit       int
}

// CatalogService exposes the upstream catalog entities behind stable,
// normalized listings.
type CatalogService struct {
	client     fullCatalogClient
	cache      *CacheService
	classifier *Classifier
	resolver   *TherapistResolver
	logger     *zap.Logger
	cfg        CatalogServiceConfig
}

// CatalogServiceParams groups constructor dependencies.
type CatalogServiceParams struct {
	Client     fullCatalogClient
	Cache      *CacheService
	Classifier *Classifier
	Resolver   *TherapistResolver
	Logger     *zap.Logger
	Config     CatalogServiceConfig
}

// NewCatalogService constructs a CatalogService with sane defaults.
func NewCatalogService(params CatalogServiceParams) *CatalogService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.ServiceLimit <= 0 {
		cfg.ServiceLimit = 1000
	}
	if cfg.SessionTypeLimit <= 0 {
		cfg.SessionTypeLimit = 500
	}
	if cfg.StaffLimit <= 0 {
		cfg.StaffLimit = 500
	}
	classifier := params.Classifier
	if classifier == nil {
		classifier = NewClassifier()
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = NewTherapistResolver()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		client:     params.Client,
		cache:      params.Cache,
		classifier: classifier,
		resolver:   resolver,
		logger:     logger,
		cfg:        cfg,
	}
}

// Services lists the priced catalog with display categories and extracted
// therapists filled in.
func (s *CatalogService) Services(ctx context.Context) (*dto.ServiceListResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	const cacheKey = "catalog:services"
	if s.cache != nil {
		var cached dto.ServiceListResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	services, err := s.client.GetServices(ctx, s.cfg.ServiceLimit)
	if err != nil {
		return nil, false, err
	}
	for i := range services {
		services[i].Category = s.classifier.Classify(services[i].Category)
		services[i].Therapist = s.resolver.ExtractNameLoose(services[i].Name)
	}

	resp := &dto.ServiceListResponse{Services: services, Total: len(services)}
	s.persist(ctx, cacheKey, resp)
	return resp, false, nil
}

// Service returns one catalog entry by id.
func (s *CatalogService) Service(ctx context.Context, id string) (*models.ServiceRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "service id is required")
	}
	listing, _, err := s.Services(ctx)
	if err != nil {
		return nil, err
	}
	for i := range listing.Services {
		if listing.Services[i].ID == id {
			return &listing.Services[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("service %s not found", id))
}

// SessionTypes lists upstream session types.
func (s *CatalogService) SessionTypes(ctx context.Context) (*dto.SessionTypeListResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	const cacheKey = "catalog:sessiontypes"
	if s.cache != nil {
		var cached dto.SessionTypeListResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	sessionTypes, err := s.client.GetSessionTypes(ctx, s.cfg.SessionTypeLimit)
	if err != nil {
		return nil, false, err
	}
	resp := &dto.SessionTypeListResponse{SessionTypes: sessionTypes, Total: len(sessionTypes)}
	s.persist(ctx, cacheKey, resp)
	return resp, false, nil
}

// Locations lists upstream site locations.
func (s *CatalogService) Locations(ctx context.Context) (*dto.LocationListResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	const cacheKey = "catalog:locations"
	if s.cache != nil {
		var cached dto.LocationListResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	locations, err := s.client.GetLocations(ctx)
	if err != nil {
		return nil, false, err
	}
	resp := &dto.LocationListResponse{Locations: locations, Total: len(locations)}
	s.persist(ctx, cacheKey, resp)
	return resp, false, nil
}

// Staff lists staff members. When the staff endpoint yields nothing the
// roster is reconstructed from therapist names embedded in service names,
// so the storefront still has someone to show.
func (s *CatalogService) Staff(ctx context.Context) (*dto.StaffListResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	const cacheKey = "catalog:staff"
	if s.cache != nil {
		var cached dto.StaffListResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	staff, err := s.client.GetStaff(ctx, s.cfg.StaffLimit)
	if err != nil {
		s.logger.Warn("staff fetch failed, deriving roster from service names", zap.Error(err))
		staff = nil
	}
	if len(staff) == 0 {
		staff = s.staffFromServiceNames(ctx)
	}

	resp := &dto.StaffListResponse{Staff: staff, Total: len(staff)}
	s.persist(ctx, cacheKey, resp)
	return resp, false, nil
}

func (s *CatalogService) staffFromServiceNames(ctx context.Context) []models.StaffRecord {
	services, err := s.client.GetServices(ctx, s.cfg.ServiceLimit)
	if err != nil {
		s.logger.Warn("service fetch for staff fallback failed", zap.Error(err))
		return nil
	}
	seen := make(map[string]struct{})
	staff := make([]models.StaffRecord, 0)
	for _, svc := range services {
		name := s.resolver.ExtractNameLoose(svc.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		record := models.StaffRecord{Name: name}
		if idx := strings.Index(name, " "); idx > 0 {
			record.FirstName = name[:idx]
			record.LastName = name[idx+1:]
		} else {
			record.FirstName = name
		}
		staff = append(staff, record)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff
}

func (s *CatalogService) persist(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
