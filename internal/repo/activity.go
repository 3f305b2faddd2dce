// Package repo contains all database access logic for the TinyTrails backend.
// Each table has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tinytrails/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// ActivityRepo defines the persistence operations for catalog activities.
type ActivityRepo interface {
	// Create inserts a new activity and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// GetByID retrieves a single activity by its UUID primary key.
	// Returns domain.ErrNotFound if no activity with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// List returns all activities matching the filter's Type (empty matches
	// all), ordered by name. OpenNow is evaluated by the service, not here.
	List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error)

	// UpdateOpeningHours replaces the raw schedule text; nil clears it.
	// Returns domain.ErrNotFound if no activity with that ID exists.
	UpdateOpeningHours(ctx context.Context, id uuid.UUID, raw *string) (domain.Activity, error)
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, name, type, age_range, description, opening_hours, address, latitude, longitude, created_at, updated_at`

// Create inserts a new activity row and returns the full persisted record.
func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (name, type, age_range, description, opening_hours, address, latitude, longitude)
		VALUES (@name, @type, @age_range, @description, @opening_hours, @address, @latitude, @longitude)
		RETURNING ` + activityColumns

	args := pgx.NamedArgs{
		"name":          a.Name,
		"type":          a.Type,
		"age_range":     nonNil(a.AgeRange),
		"description":   a.Description,  // nil becomes NULL
		"opening_hours": a.OpeningHours, // nil becomes NULL
		"address":       a.Address,
		"latitude":      a.Latitude,
		"longitude":     a.Longitude,
	}

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an activity by primary key.
func (r *pgActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	const q = `SELECT ` + activityColumns + ` FROM activities WHERE id = @id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns activities ordered by name, then id for a stable order.
func (r *pgActivityRepo) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE @type = '' OR type = @type
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"type": filter.Type})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.List: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.List: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.List: rows: %w", err)
	}
	return activities, nil
}

// UpdateOpeningHours overwrites opening_hours and bumps updated_at.
func (r *pgActivityRepo) UpdateOpeningHours(ctx context.Context, id uuid.UUID, raw *string) (domain.Activity, error) {
	const q = `
		UPDATE activities
		SET opening_hours = @opening_hours,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + activityColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "opening_hours": raw})
	result, err := scanActivity(row)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.UpdateOpeningHours: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanActivity maps a single database row into a domain.Activity.
func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a  domain.Activity
		id pgtype.UUID
	)

	err := s.Scan(&id, &a.Name, &a.Type, &a.AgeRange, &a.Description, &a.OpeningHours,
		&a.Address, &a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	return a, nil
}

// nonNil turns a nil slice into an empty one so NOT NULL array columns
// receive '{}' rather than NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
