package service

import (
	"regexp"
	"strings"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// Service names at the studio follow a loose "Treatment - Duration - Therapist"
// convention, so the therapist is recoverable from the name when upstream
// omits structured staff data. The resolver owns that extraction plus the
// staff filter matching built on top of it.
type TherapistResolver struct{}

var (
	// Matches a capitalised name segment after " - ", terminated by another
	// dash or end of string, e.g. "Hot Stone Massage - 60 mins - Maria Lopez".
	therapistNamePattern = regexp.MustCompile(`\s-\s([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s*(?:-|$)`)

	// The catalog fallback sees messier names: an optional trailing initial
	// ("Anna K.") and segments cut off by digits or apostrophes.
	therapistNameLoosePattern = regexp.MustCompile(`\s-\s([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*(?:\s+[A-Z]\.?)?)\s*(?:-|$|\d|')`)

	durationSegmentPattern = regexp.MustCompile(`(?i)^\d+\s*(min|mins)?$`)
)

// NewTherapistResolver constructs the resolver.
func NewTherapistResolver() *TherapistResolver {
	return &TherapistResolver{}
}

// ExtractName pulls a therapist name out of a service name, or returns the
// empty string when the name carries none.
func (r *TherapistResolver) ExtractName(serviceName string) string {
	return extractWith(therapistNamePattern, serviceName)
}

// ExtractNameLoose is the catalog-fallback variant of ExtractName, tolerant
// of trailing initials and truncated segments.
func (r *TherapistResolver) ExtractNameLoose(serviceName string) string {
	return extractWith(therapistNameLoosePattern, serviceName)
}

func extractWith(pattern *regexp.Regexp, serviceName string) string {
	match := pattern.FindStringSubmatch(serviceName)
	if match == nil {
		return ""
	}
	name := strings.TrimSpace(match[1])
	// A duration segment like "60 mins" satisfies the shape of a name.
	if durationSegmentPattern.MatchString(name) {
		return ""
	}
	return name
}

// ResolveStaff maps a free-form therapist filter onto a staff record. Exact
// full-name matches win, then substring matches, then first-name matches.
func (r *TherapistResolver) ResolveStaff(filter string, staff []models.StaffRecord) *models.StaffRecord {
	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" {
		return nil
	}
	for i := range staff {
		if strings.ToLower(staff[i].Name) == needle {
			return &staff[i]
		}
	}
	for i := range staff {
		if strings.Contains(strings.ToLower(staff[i].Name), needle) {
			return &staff[i]
		}
	}
	for i := range staff {
		if strings.ToLower(staff[i].FirstName) == needle {
			return &staff[i]
		}
	}
	return nil
}

// MatchesFilter reports whether a catalog entry satisfies a therapist
// filter. Only the filter's first word is compared, against the extracted
// therapist name and the raw service name, so "Maria Lopez" still matches
// entries labelled just "Maria".
func (r *TherapistResolver) MatchesFilter(filter, therapistName, serviceName string) bool {
	firstWord := strings.ToLower(strings.TrimSpace(filter))
	if firstWord == "" {
		return true
	}
	if idx := strings.IndexAny(firstWord, " \t"); idx > 0 {
		firstWord = firstWord[:idx]
	}
	if therapistName != "" && strings.Contains(strings.ToLower(therapistName), firstWord) {
		return true
	}
	return strings.Contains(strings.ToLower(serviceName), firstWord)
}
