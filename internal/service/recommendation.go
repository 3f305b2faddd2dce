package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/recommend"
	"github.com/tinytrails/backend/internal/repo"
)

// RecommendationService regenerates and serves per-user recommendations.
type RecommendationService struct {
	prefs      repo.PreferenceRepo
	activities repo.ActivityRepo
	recs       repo.RecommendationRepo
	log        *slog.Logger
}

// NewRecommendationService constructs a RecommendationService. A nil logger
// falls back to slog.Default().
func NewRecommendationService(prefs repo.PreferenceRepo, activities repo.ActivityRepo, recs repo.RecommendationRepo, log *slog.Logger) *RecommendationService {
	if log == nil {
		log = slog.Default()
	}
	return &RecommendationService{prefs: prefs, activities: activities, recs: recs, log: log}
}

// Refresh scores the full catalog against the user's profile and replaces the
// stored recommendations with the result.
//
// The steps run in order: read profile, read catalog, delete old rows,
// insert new rows. They are not wrapped in a transaction. If the insert
// fails after the delete succeeded the user is left with no stored
// recommendations and the error is returned; callers must not assume the
// old set survived.
//
// Returns domain.ErrNotFound (before touching stored rows) if the user has
// no preference profile. An empty catalog clears the stored set and
// returns an empty slice.
func (s *RecommendationService) Refresh(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error) {
	profile, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.Refresh: profile: %w", err)
	}
	profile.UserID = userID

	catalog, err := s.activities.List(ctx, domain.ActivityFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.Refresh: catalog: %w", err)
	}

	recs := recommend.Score(profile, catalog)

	deleted, err := s.recs.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.Refresh: delete: %w", err)
	}

	if len(recs) > 0 {
		if err := s.recs.InsertBatch(ctx, recs); err != nil {
			s.log.ErrorContext(ctx, "recommendations deleted but not replaced",
				"user_id", userID, "deleted", deleted, "error", err)
			return nil, fmt.Errorf("service.RecommendationService.Refresh: insert: %w", err)
		}
	}

	s.log.InfoContext(ctx, "recommendations refreshed",
		"user_id", userID,
		"catalog_size", len(catalog),
		"deleted", deleted,
		"inserted", len(recs),
	)
	return recs, nil
}

// List returns the stored recommendations for userID, highest score first.
func (s *RecommendationService) List(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error) {
	recs, err := s.recs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.List: %w", err)
	}
	if recs == nil {
		return []domain.Recommendation{}, nil
	}
	return recs, nil
}
