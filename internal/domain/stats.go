package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripStats summarizes one member's trips and catches.
type TripStats struct {
	TotalTrips   int
	TotalCatches int
	BySpecies    []SpeciesTally
	// LargestCatch is nil when no catch has a recorded length.
	LargestCatch *CatchHighlight
}

// SpeciesTally counts the catches of one species.
type SpeciesTally struct {
	SpeciesID   int64
	SpeciesName string
	Count       int
	Longest     decimal.NullDecimal
}

// CatchHighlight points at a single notable catch and the trip it came from.
type CatchHighlight struct {
	TripID      int64
	TripDate    time.Time
	StreamName  string
	SpeciesName string
	Length      decimal.Decimal
}
