package dto

import (
	"time"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// NoDateKey groups catalog-fallback slots, which carry no date, in the
// slots-by-date map.
const NoDateKey = "_no_date"

// AvailabilityRequest carries the availability query filters. All fields are
// optional; an empty request returns everything bookable on the current day.
// EndDate defaults to Date, so a single date queries that day only. The
// category parameter repeats for multiple categories.
type AvailabilityRequest struct {
	Date       string   `form:"date"`
	EndDate    string   `form:"end_date"`
	Categories []string `form:"category"`
	Therapist  string   `form:"therapist"`
	Time       string   `form:"time"`
}

// AvailabilityResponse is the aggregated availability feed.
type AvailabilityResponse struct {
	Slots       []models.AvailabilitySlot            `json:"slots"`
	SlotsByDate map[string][]models.AvailabilitySlot `json:"slots_by_date"`
	Dates       []string                             `json:"dates"`
	Therapists  []models.TherapistSummary            `json:"therapists"`
	Categories  []string                             `json:"categories"`
	TotalSlots  int                                  `json:"total_slots"`
	DataSource  string                               `json:"data_source"`
	HasLiveData bool                                 `json:"has_live_data"`
	GeneratedAt time.Time                            `json:"generated_at"`
}
