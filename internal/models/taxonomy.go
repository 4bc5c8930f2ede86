package models

// Uncategorized is returned for services whose raw category matches no
// taxonomy entry (including empty categories).
const Uncategorized = "Uncategorized"

// TargetCategories is the fixed display taxonomy every raw upstream category
// is classified into. Order matters: classification is first-match-wins, so
// reordering this list changes how ambiguous raw strings resolve.
var TargetCategories = []string{
	"Acupuncture & Eastern Med",
	"Energy & Healing Therapies",
	"Face & Skin Treatments",
	"Fertility, Pre & Postnatal",
	"Massage & Bodywork",
	"Mind & Emotional Health",
	"Natural Medicine/ Nutrition",
	"Osteopathy & Physiotherapy",
}
