package models

import "strings"

// ServiceRecord is one sellable service from the upstream catalog, already
// normalised from the loose upstream field variants. Fetched fresh per
// request and never persisted.
type ServiceRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Duration  int     `json:"duration"`
	Category  string  `json:"category"`
	Therapist string  `json:"therapist,omitempty"`
}

// StaffRecord is one upstream staff member. Lookup tables key it by id and by
// lower-cased display name.
type StaffRecord struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Name           string   `json:"name"`
	ImageURL       string   `json:"image_url,omitempty"`
	SessionTypeIDs []string `json:"session_type_ids,omitempty"`
}

// SessionTypeRecord distinguishes bookable appointment types from classes and
// series.
type SessionTypeRecord struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	OnlineBookable  bool   `json:"online_bookable"`
	DefaultDuration int    `json:"default_duration"`
}

// IsAppointment reports whether this session type is an appointment rather
// than a class or series.
func (s SessionTypeRecord) IsAppointment() bool {
	return containsFold(s.Type, "appointment")
}

// LocationRecord identifies an upstream site location.
type LocationRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AppointmentRecord is one booked staff appointment, the raw material for
// working-days synthesis.
type AppointmentRecord struct {
	ID            string `json:"id"`
	StaffID       string `json:"staff_id"`
	StaffName     string `json:"staff_name,omitempty"`
	StartDateTime string `json:"start_date_time"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
