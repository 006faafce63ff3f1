package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

type statsResponse struct {
	TotalTrips   int                `json:"totalTrips"`
	TotalCatches int                `json:"totalCatches"`
	BySpecies    []speciesTally     `json:"bySpecies"`
	LargestCatch *largestCatchEntry `json:"largestCatch"`
}

type speciesTally struct {
	SpeciesID   int64    `json:"speciesId"`
	SpeciesName string   `json:"speciesName"`
	Count       int      `json:"count"`
	Longest     *float64 `json:"longest"`
}

type largestCatchEntry struct {
	TripID      int64              `json:"tripId"`
	TripDate    openapi_types.Date `json:"tripDate"`
	StreamName  string             `json:"streamName"`
	SpeciesName string             `json:"speciesName"`
	Length      float64            `json:"length"`
}

// GetTripStats handles GET /trips/stats.
func (s *Server) GetTripStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}

	stats, err := s.trips.Stats(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

func statsToResponse(st domain.TripStats) statsResponse {
	resp := statsResponse{
		TotalTrips:   st.TotalTrips,
		TotalCatches: st.TotalCatches,
		BySpecies:    make([]speciesTally, len(st.BySpecies)),
	}
	for i, t := range st.BySpecies {
		resp.BySpecies[i] = speciesTally{
			SpeciesID:   t.SpeciesID,
			SpeciesName: t.SpeciesName,
			Count:       t.Count,
			Longest:     optionalFloat(t.Longest),
		}
	}
	if lc := st.LargestCatch; lc != nil {
		resp.LargestCatch = &largestCatchEntry{
			TripID:      lc.TripID,
			TripDate:    openapi_types.Date{Time: lc.TripDate},
			StreamName:  lc.StreamName,
			SpeciesName: lc.SpeciesName,
			Length:      lc.Length.InexactFloat64(),
		}
	}
	return resp
}
