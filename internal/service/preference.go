package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/repo"
)

// PreferenceService implements business logic for onboarding preference profiles.
type PreferenceService struct {
	repo repo.PreferenceRepo
}

// NewPreferenceService constructs a PreferenceService backed by the provided PreferenceRepo.
func NewPreferenceService(r repo.PreferenceRepo) *PreferenceService {
	return &PreferenceService{repo: r}
}

// Get returns the profile for userID.
// Returns domain.ErrNotFound if the user has not completed onboarding.
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (domain.Preference, error) {
	result, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Preference{}, fmt.Errorf("service.PreferenceService.Get: %w", err)
	}
	return result, nil
}

// Save validates and upserts a profile. Tags are trimmed and blank tags dropped.
// Returns domain.ErrValidation if the user id is missing or the distance is negative.
func (s *PreferenceService) Save(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	if p.UserID == uuid.Nil {
		return domain.Preference{}, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if p.MaxDistanceKm < 0 {
		return domain.Preference{}, fmt.Errorf("%w: max_distance_km must not be negative", domain.ErrValidation)
	}
	p.Interests = cleanTags(p.Interests)
	p.ChildAgeRanges = cleanTags(p.ChildAgeRanges)
	p.AccessibilityNeeds = cleanTags(p.AccessibilityNeeds)

	result, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return domain.Preference{}, fmt.Errorf("service.PreferenceService.Save: %w", err)
	}
	return result, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
