package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a scored (activity, user) pairing with a justification.
// Recommendations are derived data: every refresh replaces the full set.
type Recommendation struct {
	ActivityID uuid.UUID
	UserID     uuid.UUID
	Score      float64
	Reason     string
	CreatedAt  time.Time
}
