package dto

import (
	"time"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// TreatmentMenuRequest filters the grouped treatment menu.
type TreatmentMenuRequest struct {
	Category  string `form:"category"`
	Therapist string `form:"therapist"`
}

// TreatmentMenuResponse is the grouped, deduplicated treatment menu.
type TreatmentMenuResponse struct {
	Groups      []models.TreatmentGroup `json:"groups"`
	Categories  []string                `json:"categories"`
	TotalGroups int                     `json:"total_groups"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// ServiceListResponse lists the raw priced catalog.
type ServiceListResponse struct {
	Services []models.ServiceRecord `json:"services"`
	Total    int                    `json:"total"`
}

// SessionTypeListResponse lists upstream session types.
type SessionTypeListResponse struct {
	SessionTypes []models.SessionTypeRecord `json:"session_types"`
	Total        int                        `json:"total"`
}

// LocationListResponse lists upstream site locations.
type LocationListResponse struct {
	Locations []models.LocationRecord `json:"locations"`
	Total     int                     `json:"total"`
}
