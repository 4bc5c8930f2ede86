package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/models"
)

type diagnosticsClient interface {
	IsConfigured() bool
	GetStaff(ctx context.Context, limit int) ([]models.StaffRecord, error)
	GetServices(ctx context.Context, limit int) ([]models.ServiceRecord, error)
	GetSessionTypes(ctx context.Context, limit int) ([]models.SessionTypeRecord, error)
}

// DiagnosticsService backs the admin-only health views: a credential
// round-trip check and a catalog summary that surfaces classification gaps.
type DiagnosticsService struct {
	client     diagnosticsClient
	metrics    *MetricsService
	classifier *Classifier
	logger     *zap.Logger
	now        func() time.Time

	sampleLimit int
}

// NewDiagnosticsService constructs a DiagnosticsService.
func NewDiagnosticsService(client diagnosticsClient, metrics *MetricsService, logger *zap.Logger) *DiagnosticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticsService{
		client:      client,
		metrics:     metrics,
		classifier:  NewClassifier(),
		logger:      logger,
		now:         time.Now,
		sampleLimit: 10,
	}
}

// TestConnection performs one small upstream call and reports the outcome.
// Failures are part of the answer, not an error.
func (s *DiagnosticsService) TestConnection(ctx context.Context) *dto.ConnectionTestResponse {
	resp := &dto.ConnectionTestResponse{
		Configured: s.client.IsConfigured(),
		CheckedAt:  s.now().UTC(),
	}
	if !resp.Configured {
		resp.Error = "upstream credentials are not configured"
		return resp
	}

	start := time.Now()
	staff, err := s.client.GetStaff(ctx, 1)
	resp.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Reachable = true
	resp.StaffCount = len(staff)
	return resp
}

// ServiceDiagnostics summarises the upstream catalog: entity counts, how the
// classifier buckets raw categories, and which services fall through.
func (s *DiagnosticsService) ServiceDiagnostics(ctx context.Context) (*dto.ServiceDiagnosticsResponse, error) {
	resp := &dto.ServiceDiagnosticsResponse{
		Configured:        s.client.IsConfigured(),
		CategoryBreakdown: map[string]int{},
		GeneratedAt:       s.now().UTC(),
	}
	if s.metrics != nil {
		resp.Metrics = s.metrics.Snapshot()
	}
	if !resp.Configured {
		return resp, nil
	}

	if services, err := s.client.GetServices(ctx, 1000); err != nil {
		s.logger.Warn("diagnostics service fetch failed", zap.Error(err))
	} else {
		resp.ServiceCount = len(services)
		for _, svc := range services {
			category := s.classifier.Classify(svc.Category)
			resp.CategoryBreakdown[category]++
			if category == models.Uncategorized && len(resp.UncategorizedSamples) < s.sampleLimit {
				resp.UncategorizedSamples = append(resp.UncategorizedSamples, svc.Name)
			}
		}
	}

	if sessionTypes, err := s.client.GetSessionTypes(ctx, 500); err != nil {
		s.logger.Warn("diagnostics session type fetch failed", zap.Error(err))
	} else {
		resp.SessionTypeCount = len(sessionTypes)
		for _, st := range sessionTypes {
			if st.IsAppointment() {
				resp.AppointmentTypeCount++
			}
		}
	}

	if staff, err := s.client.GetStaff(ctx, 500); err != nil {
		s.logger.Warn("diagnostics staff fetch failed", zap.Error(err))
	} else {
		resp.StaffCount = len(staff)
	}

	return resp, nil
}
