package dto

import (
	"time"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// StaffListResponse lists staff members.
type StaffListResponse struct {
	Staff []models.StaffRecord `json:"staff"`
	Total int                  `json:"total"`
}

// StaffDetailsResponse combines a staff record with its synthesised
// working-days view.
type StaffDetailsResponse struct {
	Staff       models.StaffRecord        `json:"staff"`
	WorkingDays *models.WorkingDaysRecord `json:"working_days,omitempty"`
}

// WorkingDaysResponse is the per-therapist weekday availability view.
type WorkingDaysResponse struct {
	Therapists  []models.WorkingDaysRecord `json:"therapists"`
	WindowStart string                     `json:"window_start"`
	WindowEnd   string                     `json:"window_end"`
	GeneratedAt time.Time                  `json:"generated_at"`
}
