package dto

import (
	"time"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// ConnectionTestResponse reports whether the upstream API is reachable with
// the configured credentials.
type ConnectionTestResponse struct {
	Configured bool      `json:"configured"`
	Reachable  bool      `json:"reachable"`
	StaffCount int       `json:"staff_count"`
	LatencyMs  int64     `json:"latency_ms"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// ServiceDiagnosticsResponse summarises the upstream catalog for admins,
// surfacing classification gaps and runtime metrics.
type ServiceDiagnosticsResponse struct {
	Configured           bool                 `json:"configured"`
	ServiceCount         int                  `json:"service_count"`
	SessionTypeCount     int                  `json:"session_type_count"`
	AppointmentTypeCount int                  `json:"appointment_type_count"`
	StaffCount           int                  `json:"staff_count"`
	CategoryBreakdown    map[string]int       `json:"category_breakdown"`
	UncategorizedSamples []string             `json:"uncategorized_samples,omitempty"`
	Metrics              models.SystemMetrics `json:"metrics"`
	GeneratedAt          time.Time            `json:"generated_at"`
}
