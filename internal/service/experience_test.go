package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/repo"
	"github.com/tuconnect/triplog/backend/internal/service"
)

// mockExperienceRepo is a hand-written test double for repo.ExperienceRepo.
type mockExperienceRepo struct {
	create  func(ctx context.Context, e domain.Experience) (domain.Experience, error)
	getByID func(ctx context.Context, ownerID, id int64) (domain.Experience, error)
	list    func(ctx context.Context, ownerID int64) ([]domain.Experience, error)
	update  func(ctx context.Context, e domain.Experience) (domain.Experience, error)
	delete  func(ctx context.Context, ownerID, id int64) error
}

func (m *mockExperienceRepo) Create(ctx context.Context, e domain.Experience) (domain.Experience, error) {
	return m.create(ctx, e)
}
func (m *mockExperienceRepo) GetByID(ctx context.Context, ownerID, id int64) (domain.Experience, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockExperienceRepo) List(ctx context.Context, ownerID int64) ([]domain.Experience, error) {
	return m.list(ctx, ownerID)
}
func (m *mockExperienceRepo) Update(ctx context.Context, e domain.Experience) (domain.Experience, error) {
	return m.update(ctx, e)
}
func (m *mockExperienceRepo) Delete(ctx context.Context, ownerID, id int64) error {
	return m.delete(ctx, ownerID, id)
}

var _ repo.ExperienceRepo = (*mockExperienceRepo)(nil)

func validExperience() domain.Experience {
	return domain.Experience{
		CustomStreamName: "  Laurel Run ",
		Location:         " Upper pools ",
		Date:             time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		FishCaught:       2,
	}
}

func TestExperienceService_Create(t *testing.T) {
	var stored domain.Experience
	r := &mockExperienceRepo{
		create: func(_ context.Context, e domain.Experience) (domain.Experience, error) {
			stored = e
			e.ID = 5
			return e, nil
		},
	}
	svc := service.NewExperienceService(r)

	got, err := svc.Create(context.Background(), ownerID, validExperience())

	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, ownerID, stored.OwnerID, "owner comes from the caller")
	assert.Equal(t, "Laurel Run", stored.CustomStreamName)
	assert.Equal(t, "Upper pools", stored.Location)
}

func TestExperienceService_Create_ListedStreamOnly(t *testing.T) {
	r := &mockExperienceRepo{
		create: func(_ context.Context, e domain.Experience) (domain.Experience, error) { return e, nil },
	}
	stream := int64(3)
	e := validExperience()
	e.CustomStreamName = ""
	e.StreamID = &stream

	_, err := service.NewExperienceService(r).Create(context.Background(), ownerID, e)

	assert.NoError(t, err)
}

func TestExperienceService_Create_Invalid(t *testing.T) {
	zero := int64(0)
	tests := []struct {
		name   string
		mutate func(*domain.Experience)
		want   string
	}{
		{"no stream", func(e *domain.Experience) { e.CustomStreamName = "   " }, "streamId or customStreamName is required"},
		{"zero stream id", func(e *domain.Experience) { e.StreamID = &zero }, "streamId must be greater than 0"},
		{"blank location", func(e *domain.Experience) { e.Location = " " }, "location is required"},
		{"missing date", func(e *domain.Experience) { e.Date = time.Time{} }, "date is required"},
		{"negative fish count", func(e *domain.Experience) { e.FishCaught = -1 }, "fishCaught must not be negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			r := &mockExperienceRepo{
				create: func(_ context.Context, e domain.Experience) (domain.Experience, error) {
					called = true
					return e, nil
				},
			}
			e := validExperience()
			tc.mutate(&e)

			_, err := service.NewExperienceService(r).Create(context.Background(), ownerID, e)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tc.want)
			assert.False(t, called)
		})
	}
}

func TestExperienceService_List_NilIsEmpty(t *testing.T) {
	r := &mockExperienceRepo{
		list: func(context.Context, int64) ([]domain.Experience, error) { return nil, nil },
	}

	got, err := service.NewExperienceService(r).List(context.Background(), ownerID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExperienceService_GetByID_NotFound(t *testing.T) {
	r := &mockExperienceRepo{
		getByID: func(context.Context, int64, int64) (domain.Experience, error) {
			return domain.Experience{}, domain.ErrNotFound
		},
	}

	_, err := service.NewExperienceService(r).GetByID(context.Background(), ownerID, 9)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExperienceService_Update_ScopesToOwner(t *testing.T) {
	var stored domain.Experience
	r := &mockExperienceRepo{
		update: func(_ context.Context, e domain.Experience) (domain.Experience, error) {
			stored = e
			return e, nil
		},
	}
	e := validExperience()
	e.OwnerID = 999
	e.ID = 1

	_, err := service.NewExperienceService(r).Update(context.Background(), ownerID, 4, e)

	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.ID, "id comes from the path")
	assert.Equal(t, ownerID, stored.OwnerID, "owner comes from the caller")
}

func TestExperienceService_Update_NotFound(t *testing.T) {
	r := &mockExperienceRepo{
		update: func(context.Context, domain.Experience) (domain.Experience, error) {
			return domain.Experience{}, domain.ErrNotFound
		},
	}

	_, err := service.NewExperienceService(r).Update(context.Background(), ownerID, 4, validExperience())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExperienceService_Update_Invalid(t *testing.T) {
	e := validExperience()
	e.Location = ""

	_, err := service.NewExperienceService(&mockExperienceRepo{}).Update(context.Background(), ownerID, 4, e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExperienceService_Delete_PropagatesErrors(t *testing.T) {
	boom := errors.New("connection reset")
	r := &mockExperienceRepo{
		delete: func(context.Context, int64, int64) error { return boom },
	}

	err := service.NewExperienceService(r).Delete(context.Background(), ownerID, 4)

	assert.ErrorIs(t, err, boom)
}
