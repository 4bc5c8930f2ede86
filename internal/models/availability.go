package models

// Provenance tags for availability slots. Only static_catalog entries carry
// no date/time: they represent catalog rows, not confirmed open slots.
const (
	SourceBookableItems      = "bookable_items"
	SourceActiveSessionTimes = "active_session_times"
	SourceStaticCatalog      = "static_catalog"
)

// AvailabilitySlot is the canonical normalized unit emitted by the
// aggregator: one service + therapist + time-slot combination. Slots from
// the static catalog fallback have empty StartDateTime/Date/Time.
type AvailabilitySlot struct {
	ID             string  `json:"id"`
	SessionTypeID  string  `json:"session_type_id"`
	StaffID        string  `json:"staff_id,omitempty"`
	StartDateTime  string  `json:"start_date_time,omitempty"`
	Date           string  `json:"date,omitempty"`
	Time           string  `json:"time,omitempty"`
	Name           string  `json:"name"`
	Duration       int     `json:"duration"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	TherapistID    string  `json:"therapist_id,omitempty"`
	TherapistName  string  `json:"therapist_name,omitempty"`
	TherapistPhoto string  `json:"therapist_photo,omitempty"`
	LocationID     string  `json:"location_id,omitempty"`
	LocationName   string  `json:"location_name,omitempty"`
	Source         string  `json:"source"`
}

// TherapistSummary is one distinct therapist encountered across an
// aggregation pass.
type TherapistSummary struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// TreatmentVariant is one duration/price option within a treatment group.
type TreatmentVariant struct {
	ServiceID string  `json:"service_id"`
	Duration  int     `json:"duration"`
	Price     float64 `json:"price"`
}

// TreatmentGroup collapses the many (service x duration x therapist) catalog
// rows into one menu entry per therapist and canonical treatment name, with
// duration variants deduplicated and sorted ascending.
type TreatmentGroup struct {
	Therapist      string             `json:"therapist"`
	BaseName       string             `json:"base_name"`
	Category       string             `json:"category"`
	TherapistPhoto string             `json:"therapist_photo,omitempty"`
	Variants       []TreatmentVariant `json:"variants"`
}

// WorkingDaysRecord is the per-therapist weekday view synthesised from booked
// appointments. Days is sorted Monday through Sunday for display. It is a
// heuristic proxy for a working-hours calendar, which upstream does not
// expose.
type WorkingDaysRecord struct {
	StaffID          string   `json:"staff_id,omitempty"`
	Name             string   `json:"name"`
	ImageURL         string   `json:"image_url,omitempty"`
	Days             []string `json:"available_days"`
	AppointmentCount int      `json:"appointment_count"`
	Source           string   `json:"availability_source"`
}
