package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/mindbody"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type fakeUpstream struct {
	configured   bool
	staff        []models.StaffRecord
	services     []models.ServiceRecord
	sessionTypes []models.SessionTypeRecord

	bookable    []mindbody.BookableItem
	bookableErr error
	active      []mindbody.ActiveSessionTime
	activeErr   error

	bookableCalls int
	activeCalls   int
	lastBookable  mindbody.BookableItemsQuery
	lastActive    mindbody.ActiveSessionTimesQuery
}

func (f *fakeUpstream) IsConfigured() bool { return f.configured }

func (f *fakeUpstream) GetStaff(context.Context, int) ([]models.StaffRecord, error) {
	return f.staff, nil
}

func (f *fakeUpstream) GetServices(context.Context, int) ([]models.ServiceRecord, error) {
	return f.services, nil
}

func (f *fakeUpstream) GetSessionTypes(context.Context, int) ([]models.SessionTypeRecord, error) {
	return f.sessionTypes, nil
}

func (f *fakeUpstream) GetBookableItems(_ context.Context, q mindbody.BookableItemsQuery) ([]mindbody.BookableItem, error) {
	f.bookableCalls++
	f.lastBookable = q
	return f.bookable, f.bookableErr
}

func (f *fakeUpstream) GetActiveSessionTimes(_ context.Context, q mindbody.ActiveSessionTimesQuery) ([]mindbody.ActiveSessionTime, error) {
	f.activeCalls++
	f.lastActive = q
	return f.active, f.activeErr
}

func baselineUpstream() *fakeUpstream {
	return &fakeUpstream{
		configured: true,
		staff: []models.StaffRecord{
			{ID: "100", FirstName: "Maria", LastName: "Lopez", Name: "Maria Lopez", ImageURL: "https://img/maria.jpg"},
			{ID: "101", FirstName: "Anna", LastName: "Kowalska", Name: "Anna Kowalska"},
		},
		services: []models.ServiceRecord{
			{ID: "42", Name: "Deep Tissue Massage - 60 mins - Maria", Price: 120, Duration: 60, Category: "Massage"},
			{ID: "43", Name: "Signature Facial - Anna", Price: 95, Duration: 45, Category: "Face & Skin"},
		},
		sessionTypes: []models.SessionTypeRecord{
			{ID: "12", Name: "Deep Tissue Massage - 60 mins - Maria", Type: "Appointment", OnlineBookable: true, DefaultDuration: 60},
			{ID: "13", Name: "Signature Facial - Anna", Type: "Appointment", OnlineBookable: true, DefaultDuration: 45},
			{ID: "99", Name: "Morning Yoga", Type: "Class", DefaultDuration: 60},
		},
	}
}

func newAvailabilityService(upstream upstreamCatalogClient) *AvailabilityService {
	svc := NewAvailabilityService(AvailabilityServiceParams{
		Client: upstream,
		Logger: zap.NewNop(),
	})
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestAvailabilityNotConfigured(t *testing.T) {
	svc := newAvailabilityService(&fakeUpstream{configured: false})

	_, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	svc := newAvailabilityService(baselineUpstream())

	_, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "01/09/2026"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-02", EndDate: "2026-09-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityDateRangePassedUpstream(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-02T10:00:00", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
	}
	svc := newAvailabilityService(upstream)

	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01", EndDate: "2026-09-03"})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", upstream.lastBookable.StartDate)
	assert.Equal(t, "2026-09-03", upstream.lastBookable.EndDate)
	require.Len(t, resp.Slots, 1)
}

func TestAvailabilityServedFromBookableItems(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{
			ID:              "slot-1",
			StartDateTime:   "2026-09-01T10:00:00",
			StaffID:         "100",
			StaffName:       "Maria Lopez",
			StaffImageURL:   "https://img/maria.jpg",
			SessionTypeID:   "12",
			SessionTypeName: "Deep Tissue Massage - 60 mins - Maria",
			Duration:        60,
			LocationName:    "Main Studio",
		},
	}
	svc := newAvailabilityService(upstream)

	resp, cached, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, models.SourceBookableItems, resp.DataSource)
	assert.True(t, resp.HasLiveData)
	require.Len(t, resp.Slots, 1)

	slot := resp.Slots[0]
	assert.Equal(t, "2026-09-01", slot.Date)
	assert.Equal(t, "10:00", slot.Time)
	assert.Equal(t, 120.0, slot.Price)
	assert.Equal(t, "Massage & Bodywork", slot.Category)
	assert.Equal(t, "Maria Lopez", slot.TherapistName)

	// Candidate ids are the session type ids with the service ids appended,
	// since some sites file appointments under the service id namespace.
	assert.Equal(t, []string{"12", "13", "99", "42", "43"}, upstream.lastBookable.SessionTypeIDs)
	assert.Equal(t, "2026-09-01", upstream.lastBookable.StartDate)
	assert.Equal(t, 0, upstream.activeCalls)

	assert.Equal(t, []string{"2026-09-01"}, resp.Dates)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "Maria Lopez", resp.Therapists[0].Name)
	assert.Equal(t, []string{"Massage & Bodywork"}, resp.Categories)
}

func TestAvailabilityFallsBackToActiveSessionTimes(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookableErr = appErrors.ErrUpstreamUnavailable
	upstream.active = []mindbody.ActiveSessionTime{
		{ID: "ast-1", StartDateTime: "2026-09-01T14:00:00", StaffID: "101", SessionTypeID: "13"},
	}
	svc := newAvailabilityService(upstream)

	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceActiveSessionTimes, resp.DataSource)
	assert.True(t, resp.HasLiveData)
	require.Len(t, resp.Slots, 1)

	slot := resp.Slots[0]
	assert.Equal(t, "Signature Facial - Anna", slot.Name)
	assert.Equal(t, 45, slot.Duration)
	assert.Equal(t, "Anna Kowalska", slot.TherapistName)
	assert.Equal(t, 95.0, slot.Price)

	assert.Equal(t, "Appointment", upstream.lastActive.ScheduleType)
	assert.Equal(t, "2026-09-01T00:00:00", upstream.lastActive.StartTime)
	assert.Equal(t, "2026-09-01T23:59:59", upstream.lastActive.EndTime)
}

func TestAvailabilitySkipsItemsWithoutStartOrSessionType(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "no-start", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "no-type", StartDateTime: "2026-09-01T10:00:00"},
	}
	upstream.active = []mindbody.ActiveSessionTime{
		{ID: "ast-1", StartDateTime: "2026-09-01T09:00:00", StaffID: "101", SessionTypeID: "13"},
		{ID: "ast-no-start", StaffID: "101", SessionTypeID: "13"},
	}
	svc := newAvailabilityService(upstream)

	// Malformed bookable items must not count as tier output, so the
	// fallback still advances to the session-times tier.
	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceActiveSessionTimes, resp.DataSource)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "ast-1", resp.Slots[0].ID)
}

func TestAvailabilityDeduplicatesRepeatedSlots(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-01T10:00:00", StaffID: "100", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "a-again", StartDateTime: "2026-09-01T10:00:00", StaffID: "100", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "b", StartDateTime: "2026-09-01T11:00:00", StaffID: "100", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
	}
	svc := newAvailabilityService(upstream)

	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	// The repeated (session type, staff, start) triple collapses; the first
	// occurrence wins.
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "a", resp.Slots[0].ID)
	assert.Equal(t, "b", resp.Slots[1].ID)
}

func TestAvailabilityIdempotentForFixedInputs(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-01T10:00:00", StaffID: "100", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "b", StartDateTime: "2026-09-01T11:00:00", StaffID: "101", SessionTypeID: "13", SessionTypeName: "Signature Facial - Anna"},
	}
	svc := newAvailabilityService(upstream)

	req := dto.AvailabilityRequest{Date: "2026-09-01"}
	first, _, err := svc.GetAvailability(context.Background(), req)
	require.NoError(t, err)
	second, _, err := svc.GetAvailability(context.Background(), req)
	require.NoError(t, err)

	// No cache is wired, so both calls hit upstream and must agree.
	assert.Equal(t, 2, upstream.bookableCalls)
	assert.Equal(t, first.Slots, second.Slots)
	assert.Equal(t, first.SlotsByDate, second.SlotsByDate)
	assert.Equal(t, first.Therapists, second.Therapists)
}

func TestAvailabilityFallsBackToStaticCatalog(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookableErr = appErrors.ErrUpstreamUnavailable
	upstream.activeErr = appErrors.ErrUpstreamUnavailable
	// Duplicate service ids collapse to one catalog slot.
	upstream.services = append(upstream.services, upstream.services[0])
	svc := newAvailabilityService(upstream)

	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceStaticCatalog, resp.DataSource)
	assert.False(t, resp.HasLiveData)
	require.Len(t, resp.Slots, 2)

	for _, slot := range resp.Slots {
		assert.Empty(t, slot.Date)
		assert.Empty(t, slot.Time)
	}
	assert.Empty(t, resp.Dates)
	assert.Len(t, resp.SlotsByDate[dto.NoDateKey], 2)
}

func TestAvailabilityTimeWindowBoundary(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-01T10:00:00", StaffID: "100", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "b", StartDateTime: "2026-09-01T15:00:00", StaffID: "100", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
	}
	svc := newAvailabilityService(upstream)

	// A two hour difference is still inside the window; three is not.
	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01", Time: "12:00"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "10:00", resp.Slots[0].Time)
	assert.Equal(t, models.SourceBookableItems, resp.DataSource)
}

func TestAvailabilityTherapistFilterResolvesStaff(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-01T10:00:00", StaffID: "100", StaffName: "Maria Lopez", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "b", StartDateTime: "2026-09-01T11:00:00", StaffID: "101", StaffName: "Anna Kowalska", SessionTypeID: "13", SessionTypeName: "Signature Facial - Anna"},
	}
	svc := newAvailabilityService(upstream)

	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01", Therapist: "maria lopez"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "100", resp.Slots[0].StaffID)
	// The resolved staff id scopes the upstream query as well.
	assert.Equal(t, []string{"100"}, upstream.lastBookable.StaffIDs)
}

func TestAvailabilityTherapistFilterDropsStaffLessSlots(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookableErr = appErrors.ErrUpstreamUnavailable
	upstream.active = []mindbody.ActiveSessionTime{
		{ID: "ast-1", StartDateTime: "2026-09-01T10:00:00", StaffID: "101", SessionTypeID: "13"},
		{ID: "ast-2", StartDateTime: "2026-09-01T11:00:00", SessionTypeID: "13"},
	}
	svc := newAvailabilityService(upstream)

	// Once the filter resolved to a staff member, only id matches pass; a
	// slot without staff never matches by name alone.
	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01", Therapist: "Anna Kowalska"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "ast-1", resp.Slots[0].ID)
	assert.Equal(t, "101", resp.Slots[0].StaffID)
}

func TestAvailabilityCategoryFilter(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-01T10:00:00", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
		{ID: "b", StartDateTime: "2026-09-01T11:00:00", SessionTypeID: "13", SessionTypeName: "Signature Facial - Anna"},
	}
	svc := newAvailabilityService(upstream)

	resp, _, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01", Categories: []string{"Face & Skin Treatments"}})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "Face & Skin Treatments", resp.Slots[0].Category)
}

func TestAvailabilityUsesCache(t *testing.T) {
	upstream := baselineUpstream()
	upstream.bookable = []mindbody.BookableItem{
		{ID: "a", StartDateTime: "2026-09-01T10:00:00", SessionTypeID: "12", SessionTypeName: "Deep Tissue Massage - 60 mins - Maria"},
	}
	svc := newAvailabilityService(upstream)
	svc.cache = NewCacheService(newMapCacheRepo(), nil, time.Minute, zap.NewNop(), true)

	first, cached, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.GetAvailability(context.Background(), dto.AvailabilityRequest{Date: "2026-09-01"})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.TotalSlots, second.TotalSlots)
	assert.Equal(t, 1, upstream.bookableCalls)
}
