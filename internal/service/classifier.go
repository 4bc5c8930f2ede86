package service

import (
	"strings"

	"github.com/home-wellness/spa-booking-api/internal/models"
)

// Classifier maps free-form upstream category strings onto the fixed display
// taxonomy. Upstream categories are operator-entered, so matching is fuzzy:
// a raw value belongs to a target when either string contains the other.
type Classifier struct {
	targets []string
}

// NewClassifier builds a classifier over the standard taxonomy.
func NewClassifier() *Classifier {
	return &Classifier{targets: models.TargetCategories}
}

// NewClassifierWithTargets builds a classifier over a custom taxonomy,
// matched in slice order.
func NewClassifierWithTargets(targets []string) *Classifier {
	return &Classifier{targets: targets}
}

// Classify returns the first target category the raw value matches, or
// Uncategorized when nothing matches. Matching is case-insensitive on
// trimmed input and first-match-wins, so taxonomy order is significant.
func (c *Classifier) Classify(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return models.Uncategorized
	}
	for _, target := range c.targets {
		candidate := strings.ToLower(target)
		if strings.Contains(trimmed, candidate) || strings.Contains(candidate, trimmed) {
			return target
		}
	}
	return models.Uncategorized
}
