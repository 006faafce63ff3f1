package service

import (
	"context"
	"fmt"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// tripLister is the slice of TripService the export needs.
type tripLister interface {
	List(ctx context.Context, ownerID int64) ([]domain.Trip, error)
}

// ExportService flattens a member's trips into one row per catch.
type ExportService struct {
	trips tripLister
}

// NewExportService constructs an ExportService that reads trips, with their
// catches, from trips.
func NewExportService(trips tripLister) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per catch across all of ownerID's trips, in
// trip list order and catch submission order.
// Trips with no catches contribute one row with empty catch fields.
func (s *ExportService) Export(ctx context.Context, ownerID int64) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:     t.ID,
			TripDate:   t.Date.Format("2006-01-02"),
			StreamName: t.StreamName,
			Location:   t.Location,
			StartTime:  t.StartTime,
			StopTime:   t.StopTime,
			Weather:    t.WeatherCondition,
			Clarity:    t.WaterClarityCondition,
			WaterLevel: t.WaterLevelCondition,
			TripNotes:  t.Notes,
		}

		if len(t.Catches) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, c := range t.Catches {
			row := base
			row.SpeciesName = c.SpeciesName
			row.ScientificName = c.ScientificName
			if c.Length.Valid {
				row.Length = c.Length.Decimal.StringFixed(2)
			}
			row.CatchNotes = c.Notes
			rows = append(rows, row)
		}
	}
	return rows, nil
}
