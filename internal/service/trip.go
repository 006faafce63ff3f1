// Package service contains the business logic for the trip log API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/repo"
)

// maxLength is the largest length NUMERIC(5,2) can hold.
var maxLength = decimal.RequireFromString("999.99")

// TripService implements business logic for the trip aggregate.
// A trip and its catches are always written together inside one unit of
// work; reads go straight to the repos.
type TripService struct {
	trips   repo.TripRepo
	catches repo.CatchRepo
	uow     repo.UnitOfWork
}

// NewTripService constructs a TripService. trips and catches serve reads;
// every write goes through uow.
func NewTripService(trips repo.TripRepo, catches repo.CatchRepo, uow repo.UnitOfWork) *TripService {
	return &TripService{trips: trips, catches: catches, uow: uow}
}

// Create validates and persists a new trip owned by ownerID together with its
// catches. The returned trip does not carry the catches (Catches is nil).
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, ownerID int64, trip domain.Trip, catches []domain.Catch) (domain.Trip, error) {
	if err := validateTrip(trip, catches); err != nil {
		return domain.Trip{}, err
	}
	trip.OwnerID = ownerID

	var created domain.Trip
	err := s.uow.Within(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Trips.Create(ctx, trip)
		if err != nil {
			return err
		}
		return r.Catches.InsertAll(ctx, created.ID, catches)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a trip owned by ownerID with its catches in submission order.
// Returns domain.ErrNotFound if the trip does not exist or belongs to someone else.
func (s *TripService) GetByID(ctx context.Context, ownerID, id int64) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	catches, err := s.catches.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if catches == nil {
		catches = []domain.Catch{}
	}
	trip.Catches = catches
	return trip, nil
}

// List returns every trip of ownerID, newest trip date first, each with its
// catches. Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, ownerID int64) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if len(trips) == 0 {
		return []domain.Trip{}, nil
	}

	ids := make([]int64, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	byTrip, err := s.catches.ListByTrips(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}

	for i := range trips {
		c := byTrip[trips[i].ID]
		if c == nil {
			c = []domain.Catch{}
		}
		trips[i].Catches = c
	}
	return trips, nil
}

// Update replaces the fields and the entire catch list of a trip owned by
// ownerID. Either everything is applied or nothing is.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// trip does not exist for that owner.
func (s *TripService) Update(ctx context.Context, ownerID, id int64, trip domain.Trip, catches []domain.Catch) (domain.Trip, error) {
	if err := validateTrip(trip, catches); err != nil {
		return domain.Trip{}, err
	}

	ok, err := s.trips.Exists(ctx, ownerID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", domain.ErrNotFound)
	}

	trip.ID = id
	trip.OwnerID = ownerID

	var updated domain.Trip
	err = s.uow.Within(ctx, func(r repo.Repos) error {
		var err error
		// Owner-scoped: a trip deleted since the Exists check yields ErrNotFound.
		updated, err = r.Trips.Update(ctx, trip)
		if err != nil {
			return err
		}
		if err := r.Catches.DeleteByTrip(ctx, id); err != nil {
			return err
		}
		return r.Catches.InsertAll(ctx, id, catches)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip owned by ownerID and all of its catches.
// Returns domain.ErrNotFound if the trip does not exist for that owner.
func (s *TripService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.trips.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Stats summarizes ownerID's trips: totals, a per-species tally ordered by
// count (most first, then name, then species id), and the longest measured catch.
func (s *TripService) Stats(ctx context.Context, ownerID int64) (domain.TripStats, error) {
	trips, err := s.List(ctx, ownerID)
	if err != nil {
		return domain.TripStats{}, fmt.Errorf("service.TripService.Stats: %w", err)
	}

	stats := domain.TripStats{TotalTrips: len(trips), BySpecies: []domain.SpeciesTally{}}
	tallies := map[int64]*domain.SpeciesTally{}

	for _, t := range trips {
		for _, c := range t.Catches {
			stats.TotalCatches++

			tally, ok := tallies[c.SpeciesID]
			if !ok {
				tally = &domain.SpeciesTally{SpeciesID: c.SpeciesID, SpeciesName: c.SpeciesName}
				tallies[c.SpeciesID] = tally
			}
			tally.Count++

			if !c.Length.Valid {
				continue
			}
			if !tally.Longest.Valid || c.Length.Decimal.GreaterThan(tally.Longest.Decimal) {
				tally.Longest = c.Length
			}
			if stats.LargestCatch == nil || c.Length.Decimal.GreaterThan(stats.LargestCatch.Length) {
				stats.LargestCatch = &domain.CatchHighlight{
					TripID:      t.ID,
					TripDate:    t.Date,
					StreamName:  t.StreamName,
					SpeciesName: c.SpeciesName,
					Length:      c.Length.Decimal,
				}
			}
		}
	}

	for _, tally := range tallies {
		stats.BySpecies = append(stats.BySpecies, *tally)
	}
	sort.Slice(stats.BySpecies, func(i, j int) bool {
		a, b := stats.BySpecies[i], stats.BySpecies[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.SpeciesName != b.SpeciesName {
			return a.SpeciesName < b.SpeciesName
		}
		return a.SpeciesID < b.SpeciesID
	})

	return stats, nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - StreamID must reference a stream.
//   - Date is required.
//   - StopTime, if set alongside StartTime, must not be before it.
//   - Every catch must reference a species; a length, when given, must be
//     positive, have at most two decimal places, and fit NUMERIC(5,2).
func validateTrip(trip domain.Trip, catches []domain.Catch) error {
	if trip.StreamID <= 0 {
		return fmt.Errorf("%w: streamId is required", domain.ErrValidation)
	}
	if trip.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if trip.StartTime != nil && trip.StopTime != nil && trip.StopTime.Before(*trip.StartTime) {
		return fmt.Errorf("%w: stopTime must not be before startTime", domain.ErrValidation)
	}
	for i, c := range catches {
		if c.SpeciesID <= 0 {
			return fmt.Errorf("%w: catches[%d]: speciesId is required", domain.ErrValidation, i)
		}
		if !c.Length.Valid {
			continue
		}
		if !c.Length.Decimal.IsPositive() || c.Length.Decimal.GreaterThan(maxLength) {
			return fmt.Errorf("%w: catches[%d]: length must be greater than 0 and at most %s", domain.ErrValidation, i, maxLength)
		}
		// NUMERIC(5,2) would round 0.004 to 0.00.
		if !c.Length.Decimal.Equal(c.Length.Decimal.Round(2)) {
			return fmt.Errorf("%w: catches[%d]: length must have at most 2 decimal places", domain.ErrValidation, i)
		}
	}
	return nil
}
