// Package domain contains the core data types for the TinyTrails backend.
// This package has no dependencies on other internal packages and is imported
// by every layer above it (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a venue or event-hosting entity in the catalog.
// OpeningHours holds the raw weekly schedule text; nil means none configured.
type Activity struct {
	ID           uuid.UUID
	Name         string
	Type         string
	AgeRange     []string
	Description  *string
	OpeningHours *string
	Address      string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ActivityFilter narrows a catalog listing.
type ActivityFilter struct {
	// Type keeps only activities of exactly this category. Empty means all.
	Type string
	// OpenNow keeps only activities whose schedule is known and open at the
	// reference time.
	OpenNow bool
}

// OpenStatus is the evaluated opening state of an activity at a point in time.
// Known is false when the activity has no schedule configured.
type OpenStatus struct {
	Open  bool
	Known bool
}

// ActivityWithStatus pairs an activity with its evaluated opening state.
type ActivityWithStatus struct {
	Activity
	Status OpenStatus
}
