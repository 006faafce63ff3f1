package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// CatchRepo defines the persistence operations for Catches.
// Catches are only ever written as a whole list for one trip; there is no
// single-catch update.
type CatchRepo interface {
	// InsertAll inserts every catch for tripID in slice order.
	// Ids are assigned in that order, which is what keeps retrieval ordered.
	InsertAll(ctx context.Context, tripID int64, catches []domain.Catch) error

	// DeleteByTrip removes every catch of tripID.
	DeleteByTrip(ctx context.Context, tripID int64) error

	// ListByTrip returns the catches of tripID in insertion order.
	ListByTrip(ctx context.Context, tripID int64) ([]domain.Catch, error)

	// ListByTrips returns the catches of every trip in tripIDs, keyed by trip id,
	// each list in insertion order. Trips without catches are absent from the map.
	ListByTrips(ctx context.Context, tripIDs []int64) (map[int64][]domain.Catch, error)
}

// pgCatchRepo is the Postgres implementation of CatchRepo.
type pgCatchRepo struct {
	db db
}

// NewCatchRepo constructs a CatchRepo backed by the provided db connection.
// Writes are only atomic with the parent trip when db is a transaction.
func NewCatchRepo(db db) CatchRepo {
	return &pgCatchRepo{db: db}
}

const catchColumns = `
		SELECT c.id, c.trip_id, c.species_id, sp.name, sp.scientific_name,
		       c.length, c.notes, c.created_at
		FROM catches c
		JOIN species sp ON sp.id = c.species_id`

// InsertAll queues one INSERT per catch in a single batch round trip.
// The first failing statement aborts the batch and its error is returned.
func (r *pgCatchRepo) InsertAll(ctx context.Context, tripID int64, catches []domain.Catch) error {
	if len(catches) == 0 {
		return nil
	}

	const q = `
		INSERT INTO catches (trip_id, species_id, length, notes)
		VALUES (@trip_id, @species_id, @length, @notes)`

	b := &pgx.Batch{}
	for _, c := range catches {
		b.Queue(q, pgx.NamedArgs{
			"trip_id":    tripID,
			"species_id": c.SpeciesID,
			"length":     c.Length, // invalid NullDecimal becomes NULL
			"notes":      c.Notes,
		})
	}

	br := r.db.SendBatch(ctx, b)
	for i := range catches {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("repo.CatchRepo.InsertAll: catch %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("repo.CatchRepo.InsertAll: %w", err)
	}
	return nil
}

// DeleteByTrip removes every catch of a trip. Deleting zero rows is not an error.
func (r *pgCatchRepo) DeleteByTrip(ctx context.Context, tripID int64) error {
	const q = `DELETE FROM catches WHERE trip_id = @trip_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.CatchRepo.DeleteByTrip: %w", err)
	}
	return nil
}

// ListByTrip returns a trip's catches ordered by creation time, then id.
// Always returns a non-nil slice.
func (r *pgCatchRepo) ListByTrip(ctx context.Context, tripID int64) ([]domain.Catch, error) {
	const q = catchColumns + `
		WHERE c.trip_id = @trip_id
		ORDER BY c.created_at, c.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.CatchRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	catches := []domain.Catch{}
	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CatchRepo.ListByTrip: scan: %w", err)
		}
		catches = append(catches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CatchRepo.ListByTrip: rows: %w", err)
	}
	return catches, nil
}

// ListByTrips fetches the catches of many trips in one query.
func (r *pgCatchRepo) ListByTrips(ctx context.Context, tripIDs []int64) (map[int64][]domain.Catch, error) {
	out := make(map[int64][]domain.Catch, len(tripIDs))
	if len(tripIDs) == 0 {
		return out, nil
	}

	const q = catchColumns + `
		WHERE c.trip_id = ANY(@trip_ids)
		ORDER BY c.trip_id, c.created_at, c.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.CatchRepo.ListByTrips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CatchRepo.ListByTrips: scan: %w", err)
		}
		out[c.TripID] = append(out[c.TripID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CatchRepo.ListByTrips: rows: %w", err)
	}
	return out, nil
}

// scanCatch maps a single row produced by catchColumns into a domain.Catch.
func scanCatch(s scanner) (domain.Catch, error) {
	var c domain.Catch
	err := s.Scan(&c.ID, &c.TripID, &c.SpeciesID, &c.SpeciesName, &c.ScientificName,
		&c.Length, &c.Notes, &c.CreatedAt)
	if err != nil {
		return domain.Catch{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
