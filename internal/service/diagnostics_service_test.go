package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

type fakeDiagnosticsClient struct {
	configured   bool
	staff        []models.StaffRecord
	staffErr     error
	services     []models.ServiceRecord
	servicesErr  error
	sessionTypes []models.SessionTypeRecord
	typesErr     error
	staffLimit   int
}

func (f *fakeDiagnosticsClient) IsConfigured() bool { return f.configured }

func (f *fakeDiagnosticsClient) GetStaff(_ context.Context, limit int) ([]models.StaffRecord, error) {
	f.staffLimit = limit
	return f.staff, f.staffErr
}

func (f *fakeDiagnosticsClient) GetServices(_ context.Context, _ int) ([]models.ServiceRecord, error) {
	return f.services, f.servicesErr
}

func (f *fakeDiagnosticsClient) GetSessionTypes(_ context.Context, _ int) ([]models.SessionTypeRecord, error) {
	return f.sessionTypes, f.typesErr
}

func TestDiagnosticsServiceTestConnection(t *testing.T) {
	t.Run("reachable upstream", func(t *testing.T) {
		client := &fakeDiagnosticsClient{
			configured: true,
			staff:      []models.StaffRecord{{ID: "100", Name: "Maria Lopez"}},
		}
		svc := NewDiagnosticsService(client, nil, zap.NewNop())

		resp := svc.TestConnection(context.Background())

		assert.True(t, resp.Configured)
		assert.True(t, resp.Reachable)
		assert.Equal(t, 1, resp.StaffCount)
		assert.Equal(t, 1, client.staffLimit)
		assert.Empty(t, resp.Error)
		assert.False(t, resp.CheckedAt.IsZero())
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewDiagnosticsService(&fakeDiagnosticsClient{}, nil, zap.NewNop())

		resp := svc.TestConnection(context.Background())

		assert.False(t, resp.Configured)
		assert.False(t, resp.Reachable)
		assert.Contains(t, resp.Error, "not configured")
	})

	t.Run("upstream failure reported inline", func(t *testing.T) {
		client := &fakeDiagnosticsClient{
			configured: true,
			staffErr:   errors.New("connection refused"),
		}
		svc := NewDiagnosticsService(client, nil, zap.NewNop())

		resp := svc.TestConnection(context.Background())

		assert.True(t, resp.Configured)
		assert.False(t, resp.Reachable)
		assert.Contains(t, resp.Error, "connection refused")
	})
}

func TestDiagnosticsServiceServiceDiagnostics(t *testing.T) {
	client := &fakeDiagnosticsClient{
		configured: true,
		staff: []models.StaffRecord{
			{ID: "100", Name: "Maria Lopez"},
			{ID: "101", Name: "Anna Kowalska"},
		},
		services: []models.ServiceRecord{
			{ID: "42", Name: "Deep Tissue Massage - 60 mins", Category: "Massage"},
			{ID: "43", Name: "Hydrating Facial", Category: "Face & Skin"},
			{ID: "44", Name: "Mystery Treatment", Category: "Seasonal Specials"},
		},
		sessionTypes: []models.SessionTypeRecord{
			{ID: "12", Name: "Massage", Type: "Appointment"},
			{ID: "99", Name: "Group Yoga", Type: "Class"},
		},
	}
	svc := NewDiagnosticsService(client, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }

	resp, err := svc.ServiceDiagnostics(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Configured)
	assert.Equal(t, 3, resp.ServiceCount)
	assert.Equal(t, 2, resp.SessionTypeCount)
	assert.Equal(t, 1, resp.AppointmentTypeCount)
	assert.Equal(t, 2, resp.StaffCount)
	assert.Equal(t, 1, resp.CategoryBreakdown["Massage & Bodywork"])
	assert.Equal(t, 1, resp.CategoryBreakdown["Face & Skin Treatments"])
	assert.Equal(t, 1, resp.CategoryBreakdown[models.Uncategorized])
	assert.Equal(t, []string{"Mystery Treatment"}, resp.UncategorizedSamples)
}

func TestDiagnosticsServiceServiceDiagnosticsDegrades(t *testing.T) {
	t.Run("not configured returns empty summary", func(t *testing.T) {
		svc := NewDiagnosticsService(&fakeDiagnosticsClient{}, nil, zap.NewNop())

		resp, err := svc.ServiceDiagnostics(context.Background())

		require.NoError(t, err)
		assert.False(t, resp.Configured)
		assert.Zero(t, resp.ServiceCount)
	})

	t.Run("fetch failures leave counts at zero", func(t *testing.T) {
		client := &fakeDiagnosticsClient{
			configured:  true,
			servicesErr: errors.New("boom"),
			typesErr:    errors.New("boom"),
			staffErr:    errors.New("boom"),
		}
		svc := NewDiagnosticsService(client, nil, zap.NewNop())

		resp, err := svc.ServiceDiagnostics(context.Background())

		require.NoError(t, err)
		assert.True(t, resp.Configured)
		assert.Zero(t, resp.ServiceCount)
		assert.Zero(t, resp.StaffCount)
	})
}
