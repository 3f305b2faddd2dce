// Package service contains the business logic for the TinyTrails backend.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/hours"
	"github.com/tinytrails/backend/internal/repo"
)

// ActivityHours is the full opening-hours view of a single activity.
// Raw is nil and Display is nil when the activity has no schedule.
type ActivityHours struct {
	Raw      *string
	Schedule hours.Schedule
	Display  []hours.DisplayEntry
	Status   domain.OpenStatus
}

// ActivityService implements business logic for the activity catalog and
// its opening hours.
type ActivityService struct {
	repo repo.ActivityRepo
	loc  *time.Location
}

// NewActivityService constructs an ActivityService. Opening hours are venue
// local time; loc is the timezone reference timestamps are converted to
// before evaluation. A nil loc means UTC.
func NewActivityService(r repo.ActivityRepo, loc *time.Location) *ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &ActivityService{repo: r, loc: loc}
}

// Create validates and persists a new activity.
// Returns domain.ErrValidation if name or type is missing.
func (s *ActivityService) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Type = strings.TrimSpace(a.Type)
	if a.Name == "" {
		return domain.Activity{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if a.Type == "" {
		return domain.Activity{}, fmt.Errorf("%w: type is required", domain.ErrValidation)
	}
	a.OpeningHours = trimmedOrNil(a.OpeningHours)

	result, err := s.repo.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single activity by ID.
func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of activities matching filter, each annotated with
// its opening state at the reference time at, and the total match count.
// The OpenNow filter drops activities that are closed or have no schedule.
func (s *ActivityService) List(ctx context.Context, filter domain.ActivityFilter, at time.Time, p domain.PaginationParams) ([]domain.ActivityWithStatus, int, error) {
	activities, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ActivityService.List: %w", err)
	}

	matched := make([]domain.ActivityWithStatus, 0, len(activities))
	for _, a := range activities {
		st := s.Status(a, at)
		if filter.OpenNow && !(st.Known && st.Open) {
			continue
		}
		matched = append(matched, domain.ActivityWithStatus{Activity: a, Status: st})
	}

	start, end := p.Window(len(matched))
	return matched[start:end], len(matched), nil
}

// Status evaluates whether a is open at the reference time.
func (s *ActivityService) Status(a domain.Activity, at time.Time) domain.OpenStatus {
	if a.OpeningHours == nil {
		return domain.OpenStatus{}
	}
	open, known := hours.IsOpenNow(*a.OpeningHours, at.In(s.loc))
	return domain.OpenStatus{Open: open, Known: known}
}

// Hours returns the structured, display, and evaluated views of an
// activity's opening hours.
func (s *ActivityService) Hours(ctx context.Context, id uuid.UUID, at time.Time) (ActivityHours, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ActivityHours{}, fmt.Errorf("service.ActivityService.Hours: %w", err)
	}
	return s.HoursOf(a, at), nil
}

// HoursOf builds the opening-hours view of an already loaded activity.
func (s *ActivityService) HoursOf(a domain.Activity, at time.Time) ActivityHours {
	h := ActivityHours{
		Raw:      a.OpeningHours,
		Schedule: hours.NewSchedule(),
		Status:   s.Status(a, at),
	}
	if a.OpeningHours != nil {
		h.Schedule = hours.Parse(*a.OpeningHours)
		h.Display = hours.FormatForDisplay(*a.OpeningHours)
	}
	return h
}

// SaveSchedule validates an edited week and stores it in canonical form.
// Returns domain.ErrValidation for malformed schedules and
// domain.ErrNotFound if the activity does not exist.
func (s *ActivityService) SaveSchedule(ctx context.Context, id uuid.UUID, sched hours.Schedule) (domain.Activity, error) {
	if err := hours.Validate(sched); err != nil {
		return domain.Activity{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	raw := hours.Format(sched)

	result, err := s.repo.UpdateOpeningHours(ctx, id, &raw)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.SaveSchedule: %w", err)
	}
	return result, nil
}

// ClearSchedule removes an activity's opening hours so its status becomes unknown.
func (s *ActivityService) ClearSchedule(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.UpdateOpeningHours(ctx, id, nil); err != nil {
		return fmt.Errorf("service.ActivityService.ClearSchedule: %w", err)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
