package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// Every read and write is scoped by owner: a trip owned by another member is
// indistinguishable from one that does not exist.
type TripRepo interface {
	// Create inserts a new trip row and returns it with the DB-generated id and
	// created_at populated, and lookup names joined in.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip owned by ownerID.
	// Returns domain.ErrNotFound if no such trip exists for that owner.
	GetByID(ctx context.Context, ownerID, id int64) (domain.Trip, error)

	// List returns all trips of ownerID, most recent trip date first.
	List(ctx context.Context, ownerID int64) ([]domain.Trip, error)

	// Exists reports whether a trip with id is owned by ownerID.
	Exists(ctx context.Context, ownerID, id int64) (bool, error)

	// Update overwrites the mutable fields of the trip identified by
	// (trip.ID, trip.OwnerID) and stamps updated_at.
	// Returns domain.ErrNotFound if no such trip exists for that owner.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip owned by ownerID; its catches go with it.
	// Returns domain.ErrNotFound if no such trip exists for that owner.
	Delete(ctx context.Context, ownerID, id int64) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns and tripJoins are shared by every query that returns trips so
// scanTrip always sees the same column order. The alias t is either the trips
// table or a CTE over INSERT/UPDATE ... RETURNING *.
const tripColumns = `
		SELECT t.id, t.owner_id, t.stream_id, s.name, t.location, t.trip_date,
		       t.start_time, t.stop_time,
		       t.weather_condition_id, COALESCE(wc.name, ''),
		       t.water_clarity_condition_id, COALESCE(cc.name, ''),
		       t.water_level_condition_id, COALESCE(lc.name, ''),
		       t.notes, t.created_at, t.updated_at`

const tripJoins = `
		JOIN streams s ON s.id = t.stream_id
		LEFT JOIN weather_conditions wc ON wc.id = t.weather_condition_id
		LEFT JOIN water_clarity_conditions cc ON cc.id = t.water_clarity_condition_id
		LEFT JOIN water_level_conditions lc ON lc.id = t.water_level_condition_id`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			INSERT INTO trips (owner_id, stream_id, location, trip_date, start_time, stop_time,
			                   weather_condition_id, water_clarity_condition_id, water_level_condition_id, notes)
			VALUES (@owner_id, @stream_id, @location, @trip_date, @start_time, @stop_time,
			        @weather_condition_id, @water_clarity_condition_id, @water_level_condition_id, @notes)
			RETURNING *
		)` + tripColumns + `
		FROM t` + tripJoins

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, ownerID, id int64) (domain.Trip, error) {
	const q = tripColumns + `
		FROM trips t` + tripJoins + `
		WHERE t.id = @id AND t.owner_id = @owner_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the owner's trips ordered by trip date, then creation time,
// both descending.
func (r *pgTripRepo) List(ctx context.Context, ownerID int64) ([]domain.Trip, error) {
	const q = tripColumns + `
		FROM trips t` + tripJoins + `
		WHERE t.owner_id = @owner_id
		ORDER BY t.trip_date DESC, t.created_at DESC, t.id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

// Exists reports whether the trip exists and belongs to ownerID.
func (r *pgTripRepo) Exists(ctx context.Context, ownerID, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM trips WHERE id = @id AND owner_id = @owner_id)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.TripRepo.Exists: %w", err)
	}
	return exists, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
// owner_id and created_at are never touched.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			UPDATE trips
			SET stream_id                  = @stream_id,
			    location                   = @location,
			    trip_date                  = @trip_date,
			    start_time                 = @start_time,
			    stop_time                  = @stop_time,
			    weather_condition_id       = @weather_condition_id,
			    water_clarity_condition_id = @water_clarity_condition_id,
			    water_level_condition_id   = @water_level_condition_id,
			    notes                      = @notes,
			    updated_at                 = now()
			WHERE id = @id AND owner_id = @owner_id
			RETURNING *
		)` + tripColumns + `
		FROM t` + tripJoins

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key, scoped to its owner.
// Catches are removed by the ON DELETE CASCADE foreign key.
func (r *pgTripRepo) Delete(ctx context.Context, ownerID, id int64) error {
	const q = `DELETE FROM trips WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// tripArgs maps the writable trip fields to named query arguments.
// nil pointers become NULL.
func tripArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"owner_id":                   trip.OwnerID,
		"stream_id":                  trip.StreamID,
		"location":                   trip.Location,
		"trip_date":                  pgtype.Date{Time: trip.Date, Valid: true},
		"start_time":                 trip.StartTime,
		"stop_time":                  trip.StopTime,
		"weather_condition_id":       trip.WeatherConditionID,
		"water_clarity_condition_id": trip.WaterClarityConditionID,
		"water_level_condition_id":   trip.WaterLevelConditionID,
		"notes":                      trip.Notes,
	}
}

// scanTrip maps a single row produced by tripColumns into a domain.Trip.
// Timestamps are normalized to UTC.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t    domain.Trip
		date pgtype.Date
	)

	err := s.Scan(
		&t.ID, &t.OwnerID, &t.StreamID, &t.StreamName, &t.Location, &date,
		&t.StartTime, &t.StopTime,
		&t.WeatherConditionID, &t.WeatherCondition,
		&t.WaterClarityConditionID, &t.WaterClarityCondition,
		&t.WaterLevelConditionID, &t.WaterLevelCondition,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.Date = date.Time
	t.StartTime = utcPtr(t.StartTime)
	t.StopTime = utcPtr(t.StopTime)
	t.UpdatedAt = utcPtr(t.UpdatedAt)
	t.CreatedAt = t.CreatedAt.UTC()

	return t, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
