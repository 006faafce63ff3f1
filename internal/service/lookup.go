package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/repo"
)

// LookupService serves the read-only reference tables.
type LookupService struct {
	repo repo.LookupRepo
}

// NewLookupService constructs a LookupService backed by the provided LookupRepo.
func NewLookupService(r repo.LookupRepo) *LookupService {
	return &LookupService{repo: r}
}

func (s *LookupService) Streams(ctx context.Context) ([]domain.Stream, error) {
	streams, err := s.repo.ListStreams(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LookupService.Streams: %w", err)
	}
	return streams, nil
}

func (s *LookupService) Species(ctx context.Context) ([]domain.Species, error) {
	species, err := s.repo.ListSpecies(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LookupService.Species: %w", err)
	}
	return species, nil
}

// Conditions returns one condition table.
// Returns domain.ErrNotFound for an unknown kind.
func (s *LookupService) Conditions(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error) {
	conditions, err := s.repo.ListConditions(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("service.LookupService.Conditions: %w", err)
	}
	return conditions, nil
}

// All fetches every lookup table concurrently. The first failure cancels the
// remaining reads and is returned.
func (s *LookupService) All(ctx context.Context) (domain.Lookups, error) {
	var out domain.Lookups
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.Streams, err = s.repo.ListStreams(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Species, err = s.repo.ListSpecies(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.WeatherConditions, err = s.repo.ListConditions(ctx, domain.ConditionWeather)
		return err
	})
	g.Go(func() (err error) {
		out.WaterClarityConditions, err = s.repo.ListConditions(ctx, domain.ConditionWaterClarity)
		return err
	})
	g.Go(func() (err error) {
		out.WaterLevelConditions, err = s.repo.ListConditions(ctx, domain.ConditionWaterLevel)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Lookups{}, fmt.Errorf("service.LookupService.All: %w", err)
	}
	return out, nil
}
