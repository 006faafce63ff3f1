package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/repo"
)

// ExperienceService implements business logic for quick experience entries.
type ExperienceService struct {
	repo repo.ExperienceRepo
}

// NewExperienceService constructs an ExperienceService backed by r.
func NewExperienceService(r repo.ExperienceRepo) *ExperienceService {
	return &ExperienceService{repo: r}
}

// Create validates and stores an experience owned by ownerID.
// Returns domain.ErrValidation if input violates business rules.
func (s *ExperienceService) Create(ctx context.Context, ownerID int64, e domain.Experience) (domain.Experience, error) {
	e = normalizeExperience(e)
	if err := validateExperience(e); err != nil {
		return domain.Experience{}, err
	}
	e.OwnerID = ownerID

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("service.ExperienceService.Create: %w", err)
	}
	return created, nil
}

func (s *ExperienceService) GetByID(ctx context.Context, ownerID, id int64) (domain.Experience, error) {
	e, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("service.ExperienceService.GetByID: %w", err)
	}
	return e, nil
}

// List returns ownerID's experiences, newest first. Never nil.
func (s *ExperienceService) List(ctx context.Context, ownerID int64) ([]domain.Experience, error) {
	list, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExperienceService.List: %w", err)
	}
	if list == nil {
		list = []domain.Experience{}
	}
	return list, nil
}

// Update overwrites every field of an experience owned by ownerID.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// experience does not exist for that owner.
func (s *ExperienceService) Update(ctx context.Context, ownerID, id int64, e domain.Experience) (domain.Experience, error) {
	e = normalizeExperience(e)
	if err := validateExperience(e); err != nil {
		return domain.Experience{}, err
	}
	e.ID = id
	e.OwnerID = ownerID

	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("service.ExperienceService.Update: %w", err)
	}
	return updated, nil
}

func (s *ExperienceService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.ExperienceService.Delete: %w", err)
	}
	return nil
}

func normalizeExperience(e domain.Experience) domain.Experience {
	e.CustomStreamName = strings.TrimSpace(e.CustomStreamName)
	e.CustomSpecies = strings.TrimSpace(e.CustomSpecies)
	e.Location = strings.TrimSpace(e.Location)
	return e
}

// validateExperience requires a stream (listed or custom), a location and a
// date. The fish count may be zero but not negative.
func validateExperience(e domain.Experience) error {
	if e.StreamID == nil && e.CustomStreamName == "" {
		return fmt.Errorf("%w: streamId or customStreamName is required", domain.ErrValidation)
	}
	if e.StreamID != nil && *e.StreamID <= 0 {
		return fmt.Errorf("%w: streamId must be greater than 0", domain.ErrValidation)
	}
	if e.Location == "" {
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if e.FishCaught < 0 {
		return fmt.Errorf("%w: fishCaught must not be negative", domain.ErrValidation)
	}
	return nil
}
