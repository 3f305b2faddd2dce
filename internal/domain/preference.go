package domain

import (
	"time"

	"github.com/google/uuid"
)

// Preference is a user's declared profile used for recommendations.
// There is exactly one per user; saving replaces the previous values.
type Preference struct {
	UserID             uuid.UUID
	Interests          []string
	ChildAgeRanges     []string
	MaxDistanceKm      float64
	AccessibilityNeeds []string
	UpdatedAt          time.Time
}
