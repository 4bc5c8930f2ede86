package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/mindbody"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type fakeScheduleUpstream struct {
	configured      bool
	staff           []models.StaffRecord
	appointments    []models.AppointmentRecord
	appointmentsErr error
	lastQuery       mindbody.StaffAppointmentsQuery
}

func (f *fakeScheduleUpstream) IsConfigured() bool { return f.configured }

func (f *fakeScheduleUpstream) GetStaff(context.Context, int) ([]models.StaffRecord, error) {
	return f.staff, nil
}

func (f *fakeScheduleUpstream) GetStaffAppointments(_ context.Context, q mindbody.StaffAppointmentsQuery) ([]models.AppointmentRecord, error) {
	f.lastQuery = q
	return f.appointments, f.appointmentsErr
}

func newWorkingDaysService(upstream staffScheduleClient) *WorkingDaysService {
	svc := NewWorkingDaysService(WorkingDaysServiceParams{
		Client: upstream,
		Logger: zap.NewNop(),
	})
	svc.now = func() time.Time {
		// A Tuesday.
		return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	}
	return svc
}

func scheduleUpstream() *fakeScheduleUpstream {
	return &fakeScheduleUpstream{
		configured: true,
		staff: []models.StaffRecord{
			{ID: "100", Name: "Maria Lopez", FirstName: "Maria", LastName: "Lopez"},
			{ID: "101", Name: "Anna Kowalska", FirstName: "Anna", LastName: "Kowalska"},
		},
		appointments: []models.AppointmentRecord{
			// 2026-09-06 is a Sunday, 2026-09-07 a Monday.
			{ID: "1", StaffID: "100", StartDateTime: "2026-09-07T10:00:00"},
			{ID: "2", StaffID: "100", StartDateTime: "2026-09-07T14:00:00"},
			{ID: "3", StaffID: "100", StartDateTime: "2026-09-06T11:00:00"},
			{ID: "4", StaffID: "", StartDateTime: "2026-09-07T09:00:00"},
			{ID: "5", StaffID: "100", StartDateTime: ""},
		},
	}
}

func TestWorkingDaysSynthesis(t *testing.T) {
	upstream := scheduleUpstream()
	svc := newWorkingDaysService(upstream)

	resp, cached, err := svc.WorkingDays(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "2026-09-01", resp.WindowStart)
	assert.Equal(t, "2026-10-01", resp.WindowEnd)
	assert.Equal(t, "2026-09-01", upstream.lastQuery.StartDate)
	assert.Equal(t, 1000, upstream.lastQuery.Limit)
	require.Len(t, resp.Therapists, 2)

	// Sorted by name: Anna first.
	anna := resp.Therapists[0]
	assert.Equal(t, "101", anna.StaffID)
	assert.Empty(t, anna.Days)
	assert.Equal(t, 0, anna.AppointmentCount)
	assert.Equal(t, workingDaysSourceNone, anna.Source)

	maria := resp.Therapists[1]
	assert.Equal(t, "100", maria.StaffID)
	// Monday before Sunday in display order, each day listed once, and
	// records without a staff id or start time are skipped.
	assert.Equal(t, []string{"Monday", "Sunday"}, maria.Days)
	assert.Equal(t, 3, maria.AppointmentCount)
	assert.Equal(t, workingDaysSourceLive, maria.Source)
}

func TestWorkingDaysSearchFilter(t *testing.T) {
	svc := newWorkingDaysService(scheduleUpstream())

	resp, _, err := svc.WorkingDays(context.Background(), "mar")
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "Maria Lopez", resp.Therapists[0].Name)

	empty, _, err := svc.WorkingDays(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Therapists)
}

func TestWorkingDaysAppointmentsFailureDegrades(t *testing.T) {
	upstream := scheduleUpstream()
	upstream.appointmentsErr = appErrors.ErrUpstreamUnavailable
	svc := newWorkingDaysService(upstream)

	resp, _, err := svc.WorkingDays(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 2)
	for _, therapist := range resp.Therapists {
		assert.Equal(t, workingDaysSourceNone, therapist.Source)
	}
}

func TestWorkingDaysNotConfigured(t *testing.T) {
	svc := newWorkingDaysService(&fakeScheduleUpstream{configured: false})

	_, _, err := svc.WorkingDays(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestStaffDetails(t *testing.T) {
	svc := newWorkingDaysService(scheduleUpstream())

	details, err := svc.StaffDetails(context.Background(), "maria")
	require.NoError(t, err)
	assert.Equal(t, "100", details.Staff.ID)
	require.NotNil(t, details.WorkingDays)
	assert.Equal(t, []string{"Monday", "Sunday"}, details.WorkingDays.Days)
}

func TestStaffDetailsNotFound(t *testing.T) {
	svc := newWorkingDaysService(scheduleUpstream())

	_, err := svc.StaffDetails(context.Background(), "Bogdan")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStaffDetailsRequiresName(t *testing.T) {
	svc := newWorkingDaysService(scheduleUpstream())

	_, err := svc.StaffDetails(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
