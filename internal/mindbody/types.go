package mindbody

import "encoding/json"

// Raw upstream shapes. The Mindbody public API is loosely typed: ids arrive
// as numbers or strings, and several fields appear under more than one name
// depending on endpoint and site configuration. These structs capture every
// known variant; normalize.go is the only place that resolves them.

type rawStaff struct {
	ID           json.Number             `json:"Id"`
	FirstName    string                  `json:"FirstName"`
	LastName     string                  `json:"LastName"`
	Name         string                  `json:"Name"`
	ImageURL     string                  `json:"ImageUrl"`
	Photo        string                  `json:"Photo"`
	PhotoURL     string                  `json:"PhotoUrl"`
	SessionTypes []rawSessionTypeSummary `json:"SessionTypes"`
}

type rawSessionTypeSummary struct {
	ID json.Number `json:"Id"`
}

type rawService struct {
	ID              json.Number         `json:"Id"`
	Name            string              `json:"Name"`
	Price           float64             `json:"Price"`
	OnlinePrice     float64             `json:"OnlinePrice"`
	Duration        int                 `json:"Duration"`
	Length          int                 `json:"Length"`
	ServiceCategory *rawServiceCategory `json:"ServiceCategory"`
	Category        string              `json:"Category"`
	Program         string              `json:"Program"`
}

type rawServiceCategory struct {
	Name string `json:"Name"`
}

type rawSessionType struct {
	ID                 json.Number `json:"Id"`
	Name               string      `json:"Name"`
	Type               string      `json:"Type"`
	ScheduleType       string      `json:"ScheduleType"`
	OnlineBookable     bool        `json:"OnlineBookable"`
	AllowOnlineBooking bool        `json:"AllowOnlineBooking"`
	DefaultTimeLength  int         `json:"DefaultTimeLength"`
	Duration           int         `json:"Duration"`
}

type rawLocation struct {
	ID   json.Number `json:"Id"`
	Name string      `json:"Name"`
}

type rawBookableItem struct {
	ID            json.Number     `json:"Id"`
	StartDateTime string          `json:"StartDateTime"`
	Staff         *rawStaff       `json:"Staff"`
	SessionType   *rawSessionType `json:"SessionType"`
	Location      *rawLocation    `json:"Location"`
}

type rawActiveSessionTime struct {
	ID            json.Number     `json:"Id"`
	StartDateTime string          `json:"StartDateTime"`
	StartTime     string          `json:"StartTime"`
	StaffID       json.Number     `json:"StaffId"`
	Staff         *rawStaff       `json:"Staff"`
	SessionTypeID json.Number     `json:"SessionTypeId"`
	SessionType   *rawSessionType `json:"SessionType"`
	LocationID    json.Number     `json:"LocationId"`
	LocationName  string          `json:"LocationName"`
}

type rawAppointment struct {
	ID            json.Number `json:"Id"`
	StaffID       json.Number `json:"StaffId"`
	Staff         *rawStaff   `json:"Staff"`
	StartDateTime string      `json:"StartDateTime"`
}

// BookableItem is one confirmed open slot from /appointment/bookableitems,
// flattened from the nested Staff/SessionType/Location sub-objects.
type BookableItem struct {
	ID              string
	StartDateTime   string
	StaffID         string
	StaffName       string
	StaffImageURL   string
	SessionTypeID   string
	SessionTypeName string
	Duration        int
	LocationID      string
	LocationName    string
}

// ActiveSessionTime is one slot from /appointment/activesessiontimes. The
// response shape is flatter than bookable items; staff and session type may
// come as bare ids or as sub-objects.
type ActiveSessionTime struct {
	ID            string
	StartDateTime string
	StaffID       string
	SessionTypeID string
	LocationID    string
	LocationName  string
}

// BookableItemsQuery scopes a bookable-items request.
type BookableItemsQuery struct {
	SessionTypeIDs []string
	StaffIDs       []string
	StartDate      string
	EndDate        string
	Limit          int
}

// ActiveSessionTimesQuery scopes an active-session-times request.
type ActiveSessionTimesQuery struct {
	SessionTypeIDs []string
	StartTime      string
	EndTime        string
	ScheduleType   string
	Limit          int
}

// StaffAppointmentsQuery scopes a staff-appointments request.
type StaffAppointmentsQuery struct {
	StartDate string
	EndDate   string
	Limit     int
}
