package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/service"
)

func TestPreferenceService_Save_CleansTags(t *testing.T) {
	var stored domain.Preference
	svc := service.NewPreferenceService(&mockPreferenceRepo{
		upsert: func(_ context.Context, p domain.Preference) (domain.Preference, error) {
			stored = p
			return p, nil
		},
	})

	_, err := svc.Save(context.Background(), domain.Preference{
		UserID:             uuid.New(),
		Interests:          []string{" nature ", "", "museum"},
		ChildAgeRanges:     nil,
		AccessibilityNeeds: []string{"  "},
		MaxDistanceKm:      10,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"nature", "museum"}, stored.Interests)
	assert.Equal(t, []string{}, stored.ChildAgeRanges)
	assert.Equal(t, []string{}, stored.AccessibilityNeeds)
}

func TestPreferenceService_Save_Validation(t *testing.T) {
	svc := service.NewPreferenceService(&mockPreferenceRepo{})

	_, err := svc.Save(context.Background(), domain.Preference{MaxDistanceKm: 5})
	assert.ErrorIs(t, err, domain.ErrValidation, "missing user id")

	_, err = svc.Save(context.Background(), domain.Preference{UserID: uuid.New(), MaxDistanceKm: -1})
	assert.ErrorIs(t, err, domain.ErrValidation, "negative distance")
}

func TestPreferenceService_Get_NotFound(t *testing.T) {
	svc := service.NewPreferenceService(&mockPreferenceRepo{
		get: func(_ context.Context, _ uuid.UUID) (domain.Preference, error) {
			return domain.Preference{}, domain.ErrNotFound
		},
	})

	_, err := svc.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
