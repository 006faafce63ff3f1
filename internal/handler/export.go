package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_date", "stream", "location", "start_time", "stop_time",
	"weather", "water_clarity", "water_level", "trip_notes",
	"species", "scientific_name", "length", "catch_notes",
}

type exportRow struct {
	TripID         int64      `json:"tripId"`
	TripDate       string     `json:"tripDate"`
	StreamName     string     `json:"streamName"`
	Location       string     `json:"location"`
	StartTime      *time.Time `json:"startTime"`
	StopTime       *time.Time `json:"stopTime"`
	Weather        string     `json:"weather,omitempty"`
	WaterClarity   string     `json:"waterClarity,omitempty"`
	WaterLevel     string     `json:"waterLevel,omitempty"`
	TripNotes      string     `json:"tripNotes,omitempty"`
	SpeciesName    string     `json:"speciesName,omitempty"`
	ScientificName string     `json:"scientificName,omitempty"`
	Length         *float64   `json:"length,omitempty"`
	CatchNotes     string     `json:"catchNotes,omitempty"`
}

// GetExport handles GET /trips/export.
// It returns one row per catch across all of the caller's trips.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}

	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid format parameter")
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeError(w, http.StatusBadRequest, codeBadRequest, "format must be csv or json")
			return
		}
	}

	rows, err := s.export.Export(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	out := make([]exportRow, len(rows))
	for i, row := range rows {
		out[i] = domainRowToJSONRow(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as a CSV attachment.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to its JSON shape.
// Empty catch fields are omitted.
func domainRowToJSONRow(r domain.ExportRow) exportRow {
	row := exportRow{
		TripID:         r.TripID,
		TripDate:       r.TripDate,
		StreamName:     r.StreamName,
		Location:       r.Location,
		StartTime:      r.StartTime,
		StopTime:       r.StopTime,
		Weather:        r.Weather,
		WaterClarity:   r.Clarity,
		WaterLevel:     r.WaterLevel,
		TripNotes:      r.TripNotes,
		SpeciesName:    r.SpeciesName,
		ScientificName: r.ScientificName,
		CatchNotes:     r.CatchNotes,
	}
	if r.Length != "" {
		if f, err := strconv.ParseFloat(r.Length, 64); err == nil {
			row.Length = &f
		}
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil time pointers are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		strconv.FormatInt(r.TripID, 10),
		r.TripDate,
		r.StreamName,
		r.Location,
		formatOptionalTime(r.StartTime),
		formatOptionalTime(r.StopTime),
		r.Weather,
		r.Clarity,
		r.WaterLevel,
		r.TripNotes,
		r.SpeciesName,
		r.ScientificName,
		r.Length,
		r.CatchNotes,
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
