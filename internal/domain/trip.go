// Package domain contains the core data types for the trip log API.
// It is imported by every other internal package (repo, service, handler)
// and carries no SQL or HTTP concerns.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trip is a single fishing outing by one member on one stream.
// A trip is the aggregate root; its catches have no existence outside it and
// are always written together with it.
type Trip struct {
	ID      int64
	OwnerID int64

	StreamID   int64
	StreamName string // populated on reads only
	Location   string

	// Date is the calendar day of the trip. Only the year, month and day are
	// meaningful.
	Date time.Time
	// StartTime and StopTime are absolute instants. They are stored and
	// returned in UTC; conversion to wall-clock time is a client concern.
	StartTime *time.Time
	StopTime  *time.Time

	WeatherConditionID      *int64
	WeatherCondition        string
	WaterClarityConditionID *int64
	WaterClarityCondition   string
	WaterLevelConditionID   *int64
	WaterLevelCondition     string

	Notes string

	CreatedAt time.Time
	UpdatedAt *time.Time // nil until the first update

	// Catches is nil when the catch list was not loaded (e.g. the result of a
	// create or update) and non-nil, possibly empty, when it was.
	Catches []Catch
}

// Catch is one fish landed during a trip.
// A catch is never updated in place: every trip update replaces the whole list.
type Catch struct {
	ID             int64
	TripID         int64
	SpeciesID      int64
	SpeciesName    string // populated on reads only
	ScientificName string // populated on reads only
	Length         decimal.NullDecimal
	Notes          string
	CreatedAt      time.Time
}

// UsableCatches returns the catches that carry a species reference, keeping
// their relative order. Entries without a species are dropped rather than
// rejected, because clients submit blank catch rows from their forms.
func UsableCatches(catches []Catch) []Catch {
	out := make([]Catch, 0, len(catches))
	for _, c := range catches {
		if c.SpeciesID > 0 {
			out = append(out, c)
		}
	}
	return out
}
