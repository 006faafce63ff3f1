package domain

import "time"

// Experience is a quick log entry for a day on the water, kept alongside the
// detailed trip log. It may name a stream that is not in the lookup table and
// records a fish count instead of individual catches.
type Experience struct {
	ID      int64
	OwnerID int64

	// At least one of StreamID and CustomStreamName is set.
	StreamID         *int64
	StreamName       string // populated on reads only
	CustomStreamName string
	Location         string
	Date             time.Time

	WeatherConditionID      *int64
	WeatherCondition        string
	WaterClarityConditionID *int64
	WaterClarityCondition   string
	WaterLevelConditionID   *int64
	WaterLevelCondition     string

	FishCaught    int
	SpeciesID     *int64
	SpeciesName   string // populated on reads only
	CustomSpecies string
	Notes         string

	CreatedAt time.Time
	UpdatedAt *time.Time
}
