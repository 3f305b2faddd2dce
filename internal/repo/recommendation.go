package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tinytrails/backend/internal/domain"
)

// RecommendationRepo defines the persistence operations for ai_recommendations.
// Rows are never updated in place: a refresh deletes a user's set and
// inserts the new one.
type RecommendationRepo interface {
	// DeleteByUser removes every recommendation for userID and returns how
	// many rows were removed. Deleting zero rows is not an error.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// InsertBatch inserts all recs in a single round trip.
	InsertBatch(ctx context.Context, recs []domain.Recommendation) error

	// ListByUser returns the stored recommendations for userID, highest score first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error)
}

// pgRecommendationRepo is the Postgres implementation of RecommendationRepo.
type pgRecommendationRepo struct {
	db db
}

// NewRecommendationRepo constructs a RecommendationRepo backed by the provided db connection.
func NewRecommendationRepo(db db) RecommendationRepo {
	return &pgRecommendationRepo{db: db}
}

func (r *pgRecommendationRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `DELETE FROM ai_recommendations WHERE user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("repo.RecommendationRepo.DeleteByUser: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertBatch queues one INSERT per recommendation on a pgx.Batch.
// Outside a transaction each statement commits on its own.
func (r *pgRecommendationRepo) InsertBatch(ctx context.Context, recs []domain.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	const q = `
		INSERT INTO ai_recommendations (activity_id, user_id, score, reason)
		VALUES (@activity_id, @user_id, @score, @reason)`

	b := &pgx.Batch{}
	for _, rec := range recs {
		b.Queue(q, pgx.NamedArgs{
			"activity_id": rec.ActivityID,
			"user_id":     rec.UserID,
			"score":       rec.Score,
			"reason":      rec.Reason,
		})
	}

	br := r.db.SendBatch(ctx, b)
	for range recs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("repo.RecommendationRepo.InsertBatch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("repo.RecommendationRepo.InsertBatch: close: %w", err)
	}
	return nil
}

func (r *pgRecommendationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error) {
	const q = `
		SELECT activity_id, user_id, score, reason, created_at
		FROM ai_recommendations
		WHERE user_id = @user_id
		ORDER BY score DESC, created_at, activity_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.RecommendationRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	recs := []domain.Recommendation{}
	for rows.Next() {
		var (
			rec        domain.Recommendation
			activityID pgtype.UUID
			uid        pgtype.UUID
		)
		if err := rows.Scan(&activityID, &uid, &rec.Score, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.RecommendationRepo.ListByUser: scan: %w", err)
		}
		rec.ActivityID = uuid.UUID(activityID.Bytes)
		rec.UserID = uuid.UUID(uid.Bytes)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RecommendationRepo.ListByUser: rows: %w", err)
	}
	return recs, nil
}
