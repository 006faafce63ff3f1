package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// ExperienceRepo defines the persistence operations for Experiences.
// Like trips, every operation is scoped by owner.
type ExperienceRepo interface {
	Create(ctx context.Context, e domain.Experience) (domain.Experience, error)
	// GetByID returns domain.ErrNotFound if no such experience exists for ownerID.
	GetByID(ctx context.Context, ownerID, id int64) (domain.Experience, error)
	// List returns ownerID's experiences, most recent date first.
	List(ctx context.Context, ownerID int64) ([]domain.Experience, error)
	// Update returns domain.ErrNotFound if no such experience exists for the owner.
	Update(ctx context.Context, e domain.Experience) (domain.Experience, error)
	// Delete returns domain.ErrNotFound if no such experience exists for ownerID.
	Delete(ctx context.Context, ownerID, id int64) error
}

type pgExperienceRepo struct {
	db db
}

// NewExperienceRepo constructs an ExperienceRepo backed by db.
func NewExperienceRepo(db db) ExperienceRepo {
	return &pgExperienceRepo{db: db}
}

// The alias e is either the experiences table or a CTE over a write's
// RETURNING *.
const experienceColumns = `
		SELECT e.id, e.owner_id, e.stream_id, COALESCE(s.name, ''), e.custom_stream_name,
		       e.location, e.experience_date,
		       e.weather_condition_id, COALESCE(wc.name, ''),
		       e.water_clarity_condition_id, COALESCE(cc.name, ''),
		       e.water_level_condition_id, COALESCE(lc.name, ''),
		       e.fish_caught, e.species_id, COALESCE(sp.name, ''), e.custom_species,
		       e.notes, e.created_at, e.updated_at`

const experienceJoins = `
		LEFT JOIN streams s ON s.id = e.stream_id
		LEFT JOIN species sp ON sp.id = e.species_id
		LEFT JOIN weather_conditions wc ON wc.id = e.weather_condition_id
		LEFT JOIN water_clarity_conditions cc ON cc.id = e.water_clarity_condition_id
		LEFT JOIN water_level_conditions lc ON lc.id = e.water_level_condition_id`

func (r *pgExperienceRepo) Create(ctx context.Context, e domain.Experience) (domain.Experience, error) {
	const q = `
		WITH e AS (
			INSERT INTO experiences (owner_id, stream_id, custom_stream_name, location, experience_date,
			                         weather_condition_id, water_clarity_condition_id, water_level_condition_id,
			                         fish_caught, species_id, custom_species, notes)
			VALUES (@owner_id, @stream_id, @custom_stream_name, @location, @experience_date,
			        @weather_condition_id, @water_clarity_condition_id, @water_level_condition_id,
			        @fish_caught, @species_id, @custom_species, @notes)
			RETURNING *
		)` + experienceColumns + `
		FROM e` + experienceJoins

	result, err := scanExperience(r.db.QueryRow(ctx, q, experienceArgs(e)))
	if err != nil {
		return domain.Experience{}, fmt.Errorf("repo.ExperienceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExperienceRepo) GetByID(ctx context.Context, ownerID, id int64) (domain.Experience, error) {
	const q = experienceColumns + `
		FROM experiences e` + experienceJoins + `
		WHERE e.id = @id AND e.owner_id = @owner_id`

	result, err := scanExperience(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.Experience{}, fmt.Errorf("repo.ExperienceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgExperienceRepo) List(ctx context.Context, ownerID int64) ([]domain.Experience, error) {
	const q = experienceColumns + `
		FROM experiences e` + experienceJoins + `
		WHERE e.owner_id = @owner_id
		ORDER BY e.experience_date DESC, e.created_at DESC, e.id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExperienceRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExperienceRepo.List: scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExperienceRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgExperienceRepo) Update(ctx context.Context, e domain.Experience) (domain.Experience, error) {
	const q = `
		WITH e AS (
			UPDATE experiences
			SET stream_id                  = @stream_id,
			    custom_stream_name         = @custom_stream_name,
			    location                   = @location,
			    experience_date            = @experience_date,
			    weather_condition_id       = @weather_condition_id,
			    water_clarity_condition_id = @water_clarity_condition_id,
			    water_level_condition_id   = @water_level_condition_id,
			    fish_caught                = @fish_caught,
			    species_id                 = @species_id,
			    custom_species             = @custom_species,
			    notes                      = @notes,
			    updated_at                 = now()
			WHERE id = @id AND owner_id = @owner_id
			RETURNING *
		)` + experienceColumns + `
		FROM e` + experienceJoins

	args := experienceArgs(e)
	args["id"] = e.ID

	result, err := scanExperience(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Experience{}, fmt.Errorf("repo.ExperienceRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgExperienceRepo) Delete(ctx context.Context, ownerID, id int64) error {
	const q = `DELETE FROM experiences WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.ExperienceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExperienceRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func experienceArgs(e domain.Experience) pgx.NamedArgs {
	return pgx.NamedArgs{
		"owner_id":                   e.OwnerID,
		"stream_id":                  e.StreamID,
		"custom_stream_name":         e.CustomStreamName,
		"location":                   e.Location,
		"experience_date":            pgtype.Date{Time: e.Date, Valid: true},
		"weather_condition_id":       e.WeatherConditionID,
		"water_clarity_condition_id": e.WaterClarityConditionID,
		"water_level_condition_id":   e.WaterLevelConditionID,
		"fish_caught":                e.FishCaught,
		"species_id":                 e.SpeciesID,
		"custom_species":             e.CustomSpecies,
		"notes":                      e.Notes,
	}
}

func scanExperience(s scanner) (domain.Experience, error) {
	var (
		e    domain.Experience
		date pgtype.Date
	)

	err := s.Scan(
		&e.ID, &e.OwnerID, &e.StreamID, &e.StreamName, &e.CustomStreamName,
		&e.Location, &date,
		&e.WeatherConditionID, &e.WeatherCondition,
		&e.WaterClarityConditionID, &e.WaterClarityCondition,
		&e.WaterLevelConditionID, &e.WaterLevelCondition,
		&e.FishCaught, &e.SpeciesID, &e.SpeciesName, &e.CustomSpecies,
		&e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Experience{}, domain.ErrNotFound
		}
		return domain.Experience{}, err
	}

	e.Date = date.Time
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = utcPtr(e.UpdatedAt)
	return e, nil
}
