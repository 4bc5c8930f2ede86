package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

func TestClassifierClassify(t *testing.T) {
	classifier := NewClassifier()

	scenarios := []struct {
		name string
		raw  string
		want string
	}{
		{name: "exact match", raw: "Massage & Bodywork", want: "Massage & Bodywork"},
		{name: "raw contains target", raw: "Spa Massage & Bodywork Services", want: "Massage & Bodywork"},
		{name: "target contains raw", raw: "Massage", want: "Massage & Bodywork"},
		{name: "case insensitive", raw: "FACE & SKIN TREATMENTS", want: "Face & Skin Treatments"},
		{name: "whitespace trimmed", raw: "  Osteopathy & Physiotherapy  ", want: "Osteopathy & Physiotherapy"},
		{name: "empty", raw: "", want: models.Uncategorized},
		{name: "blank", raw: "   ", want: models.Uncategorized},
		{name: "no match", raw: "Gift Vouchers", want: models.Uncategorized},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			assert.Equal(t, sc.want, classifier.Classify(sc.raw))
		})
	}
}

// Matching is first-match-wins over the taxonomy slice, so a raw value
// contained in several targets resolves to the earliest one.
func TestClassifierOrderSensitivity(t *testing.T) {
	classifier := NewClassifier()

	// "Med" is a substring of both "Acupuncture & Eastern Med" and
	// "Natural Medicine/ Nutrition"; the earlier target wins.
	assert.Equal(t, "Acupuncture & Eastern Med", classifier.Classify("Med"))

	reversed := NewClassifierWithTargets([]string{
		"Natural Medicine/ Nutrition",
		"Acupuncture & Eastern Med",
	})
	assert.Equal(t, "Natural Medicine/ Nutrition", reversed.Classify("Med"))
}
