package domain

// Stream is a named water body trips are logged against.
type Stream struct {
	ID          int64
	Name        string
	Description string
}

// Species is a fish species a catch can reference.
type Species struct {
	ID             int64
	Name           string
	ScientificName string
	Description    string
}

// Condition is one entry of a weather, water-clarity or water-level table.
type Condition struct {
	ID          int64
	Name        string
	Description string
}

// ConditionKind selects one of the condition lookup tables.
type ConditionKind string

const (
	ConditionWeather      ConditionKind = "weather"
	ConditionWaterClarity ConditionKind = "water_clarity"
	ConditionWaterLevel   ConditionKind = "water_level"
)

// Lookups bundles every lookup table, as served to forms in a single call.
type Lookups struct {
	Streams                []Stream
	Species                []Species
	WeatherConditions      []Condition
	WaterClarityConditions []Condition
	WaterLevelConditions   []Condition
}
