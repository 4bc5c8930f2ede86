package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/mindbody"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type staffScheduleClient interface {
	IsConfigured() bool
	GetStaff(ctx context.Context, limit int) ([]models.StaffRecord, error)
	GetStaffAppointments(ctx context.Context, q mindbody.StaffAppointmentsQuery) ([]models.AppointmentRecord, error)
}

// Upstream has no working-hours endpoint, so weekday availability is
// inferred from which days each therapist actually has bookings in the
// upcoming window.
const (
	workingDaysSourceLive = "mindbody_api"
	workingDaysSourceNone = "none"
)

var weekdayDisplayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WorkingDaysServiceConfig tunes the synthesis window.
type WorkingDaysServiceConfig struct {
	CacheTTL         time.Duration
	WindowDays       int
	AppointmentLimit int
	StaffLimit       int
}

// WorkingDaysService synthesises a per-therapist weekday view from booked
// appointments.
type WorkingDaysService struct {
	client   staffScheduleClient
	cache    *CacheService
	resolver *TherapistResolver
	logger   *zap.Logger
	now      func() time.Time
	cfg      WorkingDaysServiceConfig
}

// WorkingDaysServiceParams groups constructor dependencies.
type WorkingDaysServiceParams struct {
	Client   staffScheduleClient
	Cache    *CacheService
	Resolver *TherapistResolver
	Logger   *zap.Logger
	Config   WorkingDaysServiceConfig
}

// NewWorkingDaysService constructs a WorkingDaysService with sane defaults.
func NewWorkingDaysService(params WorkingDaysServiceParams) *WorkingDaysService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 30
	}
	if cfg.AppointmentLimit <= 0 {
		cfg.AppointmentLimit = 1000
	}
	if cfg.StaffLimit <= 0 {
		cfg.StaffLimit = 500
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = NewTherapistResolver()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkingDaysService{
		client:   params.Client,
		cache:    params.Cache,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// WorkingDays returns the weekday availability of every therapist and
// indicates cache utilisation. A non-empty search keeps only therapists
// whose name contains it. The full roster is cached; search filters the
// cached set per request.
func (s *WorkingDaysService) WorkingDays(ctx context.Context, search string) (*dto.WorkingDaysResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	start := s.now().UTC()
	end := start.AddDate(0, 0, s.cfg.WindowDays)
	cacheKey := fmt.Sprintf("workingdays:%s", start.Format("2006-01-02"))
	if s.cache != nil {
		var cached dto.WorkingDaysResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return filterWorkingDays(&cached, search), true, nil
		}
	}

	staff, err := s.client.GetStaff(ctx, s.cfg.StaffLimit)
	if err != nil {
		return nil, false, err
	}

	appointments, err := s.client.GetStaffAppointments(ctx, mindbody.StaffAppointmentsQuery{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Limit:     s.cfg.AppointmentLimit,
	})
	if err != nil {
		// Appointment data is an enrichment; without it every therapist
		// just reports no availability.
		s.logger.Warn("staff appointments fetch failed", zap.Error(err))
		appointments = nil
	}

	resp := &dto.WorkingDaysResponse{
		Therapists:  s.synthesise(staff, appointments),
		WindowStart: start.Format("2006-01-02"),
		WindowEnd:   end.Format("2006-01-02"),
		GeneratedAt: start,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("working days cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return filterWorkingDays(resp, search), false, nil
}

func filterWorkingDays(resp *dto.WorkingDaysResponse, search string) *dto.WorkingDaysResponse {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return resp
	}
	filtered := *resp
	filtered.Therapists = make([]models.WorkingDaysRecord, 0, len(resp.Therapists))
	for _, record := range resp.Therapists {
		if strings.Contains(strings.ToLower(record.Name), search) {
			filtered.Therapists = append(filtered.Therapists, record)
		}
	}
	return &filtered
}

// StaffDetails returns one staff member, matched by name, with their
// working-days view attached.
func (s *WorkingDaysService) StaffDetails(ctx context.Context, name string) (*dto.StaffDetailsResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	resp, _, err := s.WorkingDays(ctx, "")
	if err != nil {
		return nil, err
	}

	staff, err := s.client.GetStaff(ctx, s.cfg.StaffLimit)
	if err != nil {
		return nil, err
	}
	member := s.resolver.ResolveStaff(name, staff)
	if member == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no staff member matches %q", name))
	}

	details := &dto.StaffDetailsResponse{Staff: *member}
	for i := range resp.Therapists {
		if resp.Therapists[i].StaffID == member.ID {
			details.WorkingDays = &resp.Therapists[i]
			break
		}
	}
	return details, nil
}

func (s *WorkingDaysService) synthesise(staff []models.StaffRecord, appointments []models.AppointmentRecord) []models.WorkingDaysRecord {
	daysByStaff := make(map[string]map[string]struct{})
	countByStaff := make(map[string]int)
	for _, appt := range appointments {
		if appt.StaffID == "" || appt.StartDateTime == "" {
			continue
		}
		date, _ := splitDateTime(appt.StartDateTime)
		if date == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		day := parsed.Weekday().String()
		if daysByStaff[appt.StaffID] == nil {
			daysByStaff[appt.StaffID] = make(map[string]struct{})
		}
		daysByStaff[appt.StaffID][day] = struct{}{}
		countByStaff[appt.StaffID]++
	}

	records := make([]models.WorkingDaysRecord, 0, len(staff))
	for _, member := range staff {
		record := models.WorkingDaysRecord{
			StaffID:          member.ID,
			Name:             member.Name,
			ImageURL:         member.ImageURL,
			Days:             []string{},
			AppointmentCount: countByStaff[member.ID],
			Source:           workingDaysSourceNone,
		}
		if days := daysByStaff[member.ID]; len(days) > 0 {
			for _, day := range weekdayDisplayOrder {
				if _, ok := days[day]; ok {
					record.Days = append(record.Days, day)
				}
			}
			record.Source = workingDaysSourceLive
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}
