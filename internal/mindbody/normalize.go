package mindbody

import (
	"strings"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// Normalization is confined to this file: every raw upstream shape is mapped
// to a canonical record exactly once, so field-variant handling never leaks
// into services or handlers.

func normalizeStaff(raw rawStaff) models.StaffRecord {
	rec := models.StaffRecord{
		ID:        raw.ID.String(),
		FirstName: strings.TrimSpace(raw.FirstName),
		LastName:  strings.TrimSpace(raw.LastName),
		Name:      strings.TrimSpace(raw.Name),
		ImageURL:  firstNonEmpty(raw.ImageURL, raw.Photo, raw.PhotoURL),
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(rec.FirstName + " " + rec.LastName)
	}
	for _, st := range raw.SessionTypes {
		if id := st.ID.String(); id != "" {
			rec.SessionTypeIDs = append(rec.SessionTypeIDs, id)
		}
	}
	return rec
}

func normalizeService(raw rawService) models.ServiceRecord {
	rec := models.ServiceRecord{
		ID:    raw.ID.String(),
		Name:  strings.TrimSpace(raw.Name),
		Price: raw.Price,
	}
	if rec.Price == 0 {
		rec.Price = raw.OnlinePrice
	}
	rec.Duration = raw.Duration
	if rec.Duration == 0 {
		rec.Duration = raw.Length
	}
	if raw.ServiceCategory != nil && raw.ServiceCategory.Name != "" {
		rec.Category = raw.ServiceCategory.Name
	} else if raw.Category != "" {
		rec.Category = raw.Category
	} else {
		rec.Category = raw.Program
	}
	return rec
}

func normalizeSessionType(raw rawSessionType) models.SessionTypeRecord {
	rec := models.SessionTypeRecord{
		ID:             raw.ID.String(),
		Name:           strings.TrimSpace(raw.Name),
		Type:           firstNonEmpty(raw.Type, raw.ScheduleType),
		OnlineBookable: raw.OnlineBookable || raw.AllowOnlineBooking,
	}
	rec.DefaultDuration = raw.DefaultTimeLength
	if rec.DefaultDuration == 0 {
		rec.DefaultDuration = raw.Duration
	}
	return rec
}

func normalizeLocation(raw rawLocation) models.LocationRecord {
	return models.LocationRecord{ID: raw.ID.String(), Name: strings.TrimSpace(raw.Name)}
}

func normalizeBookableItem(raw rawBookableItem) BookableItem {
	item := BookableItem{
		ID:            raw.ID.String(),
		StartDateTime: raw.StartDateTime,
	}
	if raw.Staff != nil {
		staff := normalizeStaff(*raw.Staff)
		item.StaffID = staff.ID
		item.StaffName = staff.Name
		item.StaffImageURL = staff.ImageURL
	}
	if raw.SessionType != nil {
		st := normalizeSessionType(*raw.SessionType)
		item.SessionTypeID = st.ID
		item.SessionTypeName = st.Name
		item.Duration = st.DefaultDuration
	}
	if raw.Location != nil {
		item.LocationID = raw.Location.ID.String()
		item.LocationName = strings.TrimSpace(raw.Location.Name)
	}
	return item
}

func normalizeActiveSessionTime(raw rawActiveSessionTime) ActiveSessionTime {
	slot := ActiveSessionTime{
		ID:            raw.ID.String(),
		StartDateTime: firstNonEmpty(raw.StartDateTime, raw.StartTime),
		StaffID:       raw.StaffID.String(),
		SessionTypeID: raw.SessionTypeID.String(),
		LocationID:    raw.LocationID.String(),
		LocationName:  raw.LocationName,
	}
	if slot.StaffID == "" && raw.Staff != nil {
		slot.StaffID = raw.Staff.ID.String()
	}
	if slot.SessionTypeID == "" && raw.SessionType != nil {
		slot.SessionTypeID = raw.SessionType.ID.String()
	}
	return slot
}

func normalizeAppointment(raw rawAppointment) models.AppointmentRecord {
	rec := models.AppointmentRecord{
		ID:            raw.ID.String(),
		StaffID:       raw.StaffID.String(),
		StartDateTime: raw.StartDateTime,
	}
	if raw.Staff != nil {
		if rec.StaffID == "" {
			rec.StaffID = raw.Staff.ID.String()
		}
		rec.StaffName = normalizeStaff(*raw.Staff).Name
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
