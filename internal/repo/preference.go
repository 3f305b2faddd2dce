package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tinytrails/backend/internal/domain"
)

// PreferenceRepo defines the persistence operations for user preference profiles.
type PreferenceRepo interface {
	// Get returns the profile for userID.
	// Returns domain.ErrNotFound if the user has not saved one yet.
	Get(ctx context.Context, userID uuid.UUID) (domain.Preference, error)

	// Upsert inserts the profile or replaces the existing one for the same user.
	Upsert(ctx context.Context, p domain.Preference) (domain.Preference, error)
}

// pgPreferenceRepo is the Postgres implementation of PreferenceRepo.
type pgPreferenceRepo struct {
	db db
}

// NewPreferenceRepo constructs a PreferenceRepo backed by the provided db connection.
func NewPreferenceRepo(db db) PreferenceRepo {
	return &pgPreferenceRepo{db: db}
}

// Get retrieves a profile by user id.
func (r *pgPreferenceRepo) Get(ctx context.Context, userID uuid.UUID) (domain.Preference, error) {
	const q = `
		SELECT user_id, interests, child_age_ranges, max_distance, accessibility_needs, updated_at
		FROM user_preferences
		WHERE user_id = @user_id`

	result, err := scanPreference(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.Preference{}, fmt.Errorf("repo.PreferenceRepo.Get: %w", err)
	}
	return result, nil
}

// Upsert writes the full profile. No history is kept: the previous row is
// overwritten in place.
func (r *pgPreferenceRepo) Upsert(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	const q = `
		INSERT INTO user_preferences (user_id, interests, child_age_ranges, max_distance, accessibility_needs)
		VALUES (@user_id, @interests, @child_age_ranges, @max_distance, @accessibility_needs)
		ON CONFLICT (user_id) DO UPDATE
		SET interests           = EXCLUDED.interests,
		    child_age_ranges    = EXCLUDED.child_age_ranges,
		    max_distance        = EXCLUDED.max_distance,
		    accessibility_needs = EXCLUDED.accessibility_needs,
		    updated_at          = now()
		RETURNING user_id, interests, child_age_ranges, max_distance, accessibility_needs, updated_at`

	args := pgx.NamedArgs{
		"user_id":             p.UserID,
		"interests":           nonNil(p.Interests),
		"child_age_ranges":    nonNil(p.ChildAgeRanges),
		"max_distance":        p.MaxDistanceKm,
		"accessibility_needs": nonNil(p.AccessibilityNeeds),
	}

	result, err := scanPreference(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Preference{}, fmt.Errorf("repo.PreferenceRepo.Upsert: %w", err)
	}
	return result, nil
}

func scanPreference(s scanner) (domain.Preference, error) {
	var (
		p  domain.Preference
		id pgtype.UUID
	)
	err := s.Scan(&id, &p.Interests, &p.ChildAgeRanges, &p.MaxDistanceKm, &p.AccessibilityNeeds, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Preference{}, domain.ErrNotFound
		}
		return domain.Preference{}, err
	}
	p.UserID = uuid.UUID(id.Bytes)
	return p, nil
}
