package domain

import "time"

// ExportRow is a single row in the trip export.
// It is a flat, denormalized view: one row per catch, with trip fields repeated
// for every catch on that trip. Trips with no catches yield one row with zero
// values for all catch fields.
type ExportRow struct {
	// Trip fields, repeated for every catch on the trip.
	TripID     int64
	TripDate   string // "2006-01-02" formatted date
	StreamName string
	Location   string
	StartTime  *time.Time
	StopTime   *time.Time
	Weather    string
	Clarity    string
	WaterLevel string
	TripNotes  string

	// Catch fields, zero values when the trip has no catches.
	SpeciesName    string
	ScientificName string
	Length         string // decimal text, empty when not measured
	CatchNotes     string
}
