package repo

import (
	"context"
	"fmt"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// LookupRepo reads the reference tables trips and catches point at.
// Only active rows are returned, ordered by name.
type LookupRepo interface {
	ListStreams(ctx context.Context) ([]domain.Stream, error)
	ListSpecies(ctx context.Context) ([]domain.Species, error)
	ListConditions(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error)
}

type pgLookupRepo struct {
	db db
}

// NewLookupRepo constructs a LookupRepo backed by the provided db connection.
func NewLookupRepo(db db) LookupRepo {
	return &pgLookupRepo{db: db}
}

// conditionTables maps each condition kind to its table. Table names cannot
// be bound as parameters, so only names from this map reach the SQL text.
var conditionTables = map[domain.ConditionKind]string{
	domain.ConditionWeather:      "weather_conditions",
	domain.ConditionWaterClarity: "water_clarity_conditions",
	domain.ConditionWaterLevel:   "water_level_conditions",
}

func (r *pgLookupRepo) ListStreams(ctx context.Context) ([]domain.Stream, error) {
	const q = `
		SELECT id, name, description
		FROM streams
		WHERE is_active
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LookupRepo.ListStreams: %w", err)
	}
	defer rows.Close()

	streams := []domain.Stream{}
	for rows.Next() {
		var s domain.Stream
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, fmt.Errorf("repo.LookupRepo.ListStreams: scan: %w", err)
		}
		streams = append(streams, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LookupRepo.ListStreams: rows: %w", err)
	}
	return streams, nil
}

func (r *pgLookupRepo) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	const q = `
		SELECT id, name, scientific_name, description
		FROM species
		WHERE is_active
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LookupRepo.ListSpecies: %w", err)
	}
	defer rows.Close()

	species := []domain.Species{}
	for rows.Next() {
		var s domain.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.ScientificName, &s.Description); err != nil {
			return nil, fmt.Errorf("repo.LookupRepo.ListSpecies: scan: %w", err)
		}
		species = append(species, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LookupRepo.ListSpecies: rows: %w", err)
	}
	return species, nil
}

// ListConditions returns the active rows of one condition table.
// Returns domain.ErrNotFound for an unknown kind.
func (r *pgLookupRepo) ListConditions(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error) {
	table, ok := conditionTables[kind]
	if !ok {
		return nil, fmt.Errorf("repo.LookupRepo.ListConditions: %q: %w", kind, domain.ErrNotFound)
	}

	q := `
		SELECT id, name, description
		FROM ` + table + `
		WHERE is_active
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LookupRepo.ListConditions: %w", err)
	}
	defer rows.Close()

	conditions := []domain.Condition{}
	for rows.Next() {
		var c domain.Condition
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("repo.LookupRepo.ListConditions: scan: %w", err)
		}
		conditions = append(conditions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LookupRepo.ListConditions: rows: %w", err)
	}
	return conditions, nil
}
