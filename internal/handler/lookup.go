package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

type streamResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type speciesResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ScientificName string `json:"scientificName"`
	Description    string `json:"description"`
}

type conditionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type lookupsResponse struct {
	Streams                []streamResponse    `json:"streams"`
	Species                []speciesResponse   `json:"species"`
	WeatherConditions      []conditionResponse `json:"weatherConditions"`
	WaterClarityConditions []conditionResponse `json:"waterClarityConditions"`
	WaterLevelConditions   []conditionResponse `json:"waterLevelConditions"`
}

// conditionKinds maps the URL segment of each condition table to its kind.
var conditionKinds = map[string]domain.ConditionKind{
	"weather-conditions":       domain.ConditionWeather,
	"water-clarity-conditions": domain.ConditionWaterClarity,
	"water-level-conditions":   domain.ConditionWaterLevel,
}

// GetLookup handles GET /lookups/{kind}, where kind is streams, species,
// one of the condition tables, or all.
func (s *Server) GetLookup(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	ctx := r.Context()

	var (
		body any
		err  error
	)
	switch kind {
	case "streams":
		var streams []domain.Stream
		streams, err = s.lookups.Streams(ctx)
		body = mapStreams(streams)
	case "species":
		var species []domain.Species
		species, err = s.lookups.Species(ctx)
		body = mapSpecies(species)
	case "all":
		var all domain.Lookups
		all, err = s.lookups.All(ctx)
		body = lookupsResponse{
			Streams:                mapStreams(all.Streams),
			Species:                mapSpecies(all.Species),
			WeatherConditions:      mapConditions(all.WeatherConditions),
			WaterClarityConditions: mapConditions(all.WaterClarityConditions),
			WaterLevelConditions:   mapConditions(all.WaterLevelConditions),
		}
	default:
		ck, known := conditionKinds[kind]
		if !known {
			writeError(w, http.StatusNotFound, codeNotFound, "unknown lookup "+kind)
			return
		}
		var conditions []domain.Condition
		conditions, err = s.lookups.Conditions(ctx, ck)
		body = mapConditions(conditions)
	}

	if err != nil {
		s.writeServiceError(w, r, err, "unknown lookup "+kind)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func mapStreams(in []domain.Stream) []streamResponse {
	out := make([]streamResponse, len(in))
	for i, s := range in {
		out[i] = streamResponse{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	return out
}

func mapSpecies(in []domain.Species) []speciesResponse {
	out := make([]speciesResponse, len(in))
	for i, s := range in {
		out[i] = speciesResponse{ID: s.ID, Name: s.Name, ScientificName: s.ScientificName, Description: s.Description}
	}
	return out
}

func mapConditions(in []domain.Condition) []conditionResponse {
	out := make([]conditionResponse, len(in))
	for i, c := range in {
		out[i] = conditionResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	return out
}
