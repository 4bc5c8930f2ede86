package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type fakeFullCatalog struct {
	configured   bool
	services     []models.ServiceRecord
	servicesErr  error
	sessionTypes []models.SessionTypeRecord
	locations    []models.LocationRecord
	staff        []models.StaffRecord
	staffErr     error
}

func (f *fakeFullCatalog) IsConfigured() bool { return f.configured }

func (f *fakeFullCatalog) GetServices(context.Context, int) ([]models.ServiceRecord, error) {
	return f.services, f.servicesErr
}

func (f *fakeFullCatalog) GetSessionTypes(context.Context, int) ([]models.SessionTypeRecord, error) {
	return f.sessionTypes, nil
}

func (f *fakeFullCatalog) GetLocations(context.Context) ([]models.LocationRecord, error) {
	return f.locations, nil
}

func (f *fakeFullCatalog) GetStaff(context.Context, int) ([]models.StaffRecord, error) {
	return f.staff, f.staffErr
}

func newCatalogService(client fullCatalogClient) *CatalogService {
	return NewCatalogService(CatalogServiceParams{Client: client, Logger: zap.NewNop()})
}

func TestCatalogServicesClassified(t *testing.T) {
	svc := newCatalogService(&fakeFullCatalog{
		configured: true,
		services: []models.ServiceRecord{
			{ID: "1", Name: "Deep Tissue Massage - 60 mins - Maria", Price: 120, Duration: 60, Category: "Massage"},
			{ID: "2", Name: "Gift Voucher", Price: 50, Category: "Retail"},
		},
	})

	resp, cached, err := svc.Services(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, "Massage & Bodywork", resp.Services[0].Category)
	assert.Equal(t, "Maria", resp.Services[0].Therapist)
	assert.Equal(t, models.Uncategorized, resp.Services[1].Category)
}

func TestCatalogServiceByID(t *testing.T) {
	svc := newCatalogService(&fakeFullCatalog{
		configured: true,
		services: []models.ServiceRecord{
			{ID: "1", Name: "Reiki - 45 mins", Price: 70, Duration: 45},
		},
	})

	record, err := svc.Service(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Reiki - 45 mins", record.Name)

	_, err = svc.Service(context.Background(), "404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogStaffFallsBackToServiceNames(t *testing.T) {
	svc := newCatalogService(&fakeFullCatalog{
		configured: true,
		staffErr:   appErrors.ErrUpstreamUnavailable,
		services: []models.ServiceRecord{
			{ID: "1", Name: "Deep Tissue Massage - 60 mins - Maria Lopez"},
			{ID: "2", Name: "Facial - Anna"},
			{ID: "3", Name: "Hot Stone Massage - 90 mins - Maria Lopez"},
			{ID: "4", Name: "Swedish Massage"},
		},
	})

	resp, _, err := svc.Staff(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Staff, 2)
	assert.Equal(t, "Anna", resp.Staff[0].Name)
	assert.Equal(t, "Maria Lopez", resp.Staff[1].Name)
	assert.Equal(t, "Maria", resp.Staff[1].FirstName)
	assert.Equal(t, "Lopez", resp.Staff[1].LastName)
	assert.Empty(t, resp.Staff[1].ID)
}

func TestCatalogNotConfigured(t *testing.T) {
	svc := newCatalogService(&fakeFullCatalog{configured: false})

	_, _, err := svc.Locations(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestCatalogSessionTypesAndLocations(t *testing.T) {
	svc := newCatalogService(&fakeFullCatalog{
		configured: true,
		sessionTypes: []models.SessionTypeRecord{
			{ID: "12", Name: "Deep Tissue", Type: "Appointment", OnlineBookable: true},
		},
		locations: []models.LocationRecord{{ID: "1", Name: "Main Studio"}},
	})

	st, _, err := svc.SessionTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)

	loc, _, err := svc.Locations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Main Studio", loc.Locations[0].Name)
}
