package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/repo"
	"github.com/tuconnect/triplog/backend/internal/service"
)

// mockLookupRepo is a hand-written test double for repo.LookupRepo.
type mockLookupRepo struct {
	listStreams    func(ctx context.Context) ([]domain.Stream, error)
	listSpecies    func(ctx context.Context) ([]domain.Species, error)
	listConditions func(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error)
}

func (m *mockLookupRepo) ListStreams(ctx context.Context) ([]domain.Stream, error) {
	return m.listStreams(ctx)
}
func (m *mockLookupRepo) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	return m.listSpecies(ctx)
}
func (m *mockLookupRepo) ListConditions(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error) {
	return m.listConditions(ctx, kind)
}

var _ repo.LookupRepo = (*mockLookupRepo)(nil)

func seededLookupRepo() *mockLookupRepo {
	return &mockLookupRepo{
		listStreams: func(_ context.Context) ([]domain.Stream, error) {
			return []domain.Stream{{ID: 1, Name: "Savage River"}}, nil
		},
		listSpecies: func(_ context.Context) ([]domain.Species, error) {
			return []domain.Species{{ID: 7, Name: "Brown Trout", ScientificName: "Salmo trutta"}}, nil
		},
		listConditions: func(_ context.Context, kind domain.ConditionKind) ([]domain.Condition, error) {
			return []domain.Condition{{ID: 1, Name: string(kind)}}, nil
		},
	}
}

func TestLookupService_All(t *testing.T) {
	svc := service.NewLookupService(seededLookupRepo())

	got, err := svc.All(context.Background())

	require.NoError(t, err)
	assert.Len(t, got.Streams, 1)
	assert.Len(t, got.Species, 1)
	require.Len(t, got.WeatherConditions, 1)
	assert.Equal(t, "weather", got.WeatherConditions[0].Name)
	require.Len(t, got.WaterClarityConditions, 1)
	assert.Equal(t, "water_clarity", got.WaterClarityConditions[0].Name)
	require.Len(t, got.WaterLevelConditions, 1)
	assert.Equal(t, "water_level", got.WaterLevelConditions[0].Name)
}

func TestLookupService_All_OneFailureFailsAll(t *testing.T) {
	boom := errors.New("db exploded")
	r := seededLookupRepo()
	r.listSpecies = func(_ context.Context) ([]domain.Species, error) { return nil, boom }

	_, err := service.NewLookupService(r).All(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestLookupService_Conditions_UnknownKind(t *testing.T) {
	r := seededLookupRepo()
	r.listConditions = func(_ context.Context, _ domain.ConditionKind) ([]domain.Condition, error) {
		return nil, domain.ErrNotFound
	}

	_, err := service.NewLookupService(r).Conditions(context.Background(), "tide")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLookupService_Streams(t *testing.T) {
	got, err := service.NewLookupService(seededLookupRepo()).Streams(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Savage River", got[0].Name)
}
