package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/repo"
)

// mockActivityRepo is a hand-written test double for repo.ActivityRepo.
// Each method is a function field; set only the ones your test needs.
type mockActivityRepo struct {
	create             func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	list               func(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error)
	updateOpeningHours func(ctx context.Context, id uuid.UUID, raw *string) (domain.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityRepo) List(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	return m.list(ctx, f)
}
func (m *mockActivityRepo) UpdateOpeningHours(ctx context.Context, id uuid.UUID, raw *string) (domain.Activity, error) {
	return m.updateOpeningHours(ctx, id, raw)
}

// mockPreferenceRepo is a hand-written test double for repo.PreferenceRepo.
type mockPreferenceRepo struct {
	get    func(ctx context.Context, userID uuid.UUID) (domain.Preference, error)
	upsert func(ctx context.Context, p domain.Preference) (domain.Preference, error)
}

func (m *mockPreferenceRepo) Get(ctx context.Context, userID uuid.UUID) (domain.Preference, error) {
	return m.get(ctx, userID)
}
func (m *mockPreferenceRepo) Upsert(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	return m.upsert(ctx, p)
}

// memRecommendationRepo is an in-memory repo.RecommendationRepo that records
// the calls it receives. Set the err fields to make the matching call fail.
type memRecommendationRepo struct {
	rows      map[uuid.UUID][]domain.Recommendation
	deletes   int
	inserts   int
	deleteErr error
	insertErr error
	listErr   error
}

func newMemRecommendationRepo() *memRecommendationRepo {
	return &memRecommendationRepo{rows: map[uuid.UUID][]domain.Recommendation{}}
}

func (m *memRecommendationRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	m.deletes++
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := len(m.rows[userID])
	delete(m.rows, userID)
	return int64(n), nil
}

func (m *memRecommendationRepo) InsertBatch(_ context.Context, recs []domain.Recommendation) error {
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, r := range recs {
		m.rows[r.UserID] = append(m.rows[r.UserID], r)
	}
	return nil
}

func (m *memRecommendationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Recommendation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rows[userID], nil
}

// compile-time checks: the doubles must satisfy the repo interfaces.
var (
	_ repo.ActivityRepo       = (*mockActivityRepo)(nil)
	_ repo.PreferenceRepo     = (*mockPreferenceRepo)(nil)
	_ repo.RecommendationRepo = (*memRecommendationRepo)(nil)
)
