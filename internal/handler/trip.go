package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// tripRequest is the body of POST /trips and PUT /trips/{id}.
type tripRequest struct {
	StreamID                int64              `json:"streamId" validate:"required,gt=0"`
	Location                string             `json:"location" validate:"max=500"`
	Date                    openapi_types.Date `json:"date" validate:"required"`
	StartTime               *time.Time         `json:"startTime"`
	StopTime                *time.Time         `json:"stopTime"`
	WeatherConditionID      *int64             `json:"weatherConditionId" validate:"omitempty,gt=0"`
	WaterClarityConditionID *int64             `json:"waterClarityConditionId" validate:"omitempty,gt=0"`
	WaterLevelConditionID   *int64             `json:"waterLevelConditionId" validate:"omitempty,gt=0"`
	Notes                   string             `json:"notes" validate:"max=10000"`
	Catches                 []catchRequest     `json:"catches" validate:"dive"`
}

type catchRequest struct {
	// SpeciesID is not validated: entries without one are dropped, not rejected.
	SpeciesID int64            `json:"speciesId"`
	Length    *decimal.Decimal `json:"length"`
	Notes     string           `json:"notes" validate:"max=2000"`
}

type tripResponse struct {
	ID                      int64              `json:"id"`
	StreamID                int64              `json:"streamId"`
	StreamName              string             `json:"streamName"`
	Location                string             `json:"location"`
	Date                    openapi_types.Date `json:"date"`
	StartTime               *time.Time         `json:"startTime"`
	StopTime                *time.Time         `json:"stopTime"`
	WeatherConditionID      *int64             `json:"weatherConditionId"`
	WeatherCondition        *string            `json:"weatherCondition"`
	WaterClarityConditionID *int64             `json:"waterClarityConditionId"`
	WaterClarityCondition   *string            `json:"waterClarityCondition"`
	WaterLevelConditionID   *int64             `json:"waterLevelConditionId"`
	WaterLevelCondition     *string            `json:"waterLevelCondition"`
	Notes                   string             `json:"notes"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               *time.Time         `json:"updatedAt"`
	// Catches is omitted on create and update, which do not echo them.
	Catches *[]catchResponse `json:"catches,omitempty"`
}

type catchResponse struct {
	ID             int64    `json:"id"`
	SpeciesID      int64    `json:"speciesId"`
	SpeciesName    string   `json:"speciesName"`
	ScientificName string   `json:"scientificName"`
	Length         *float64 `json:"length"`
	Notes          string   `json:"notes"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}

	var req tripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	trip, catches := requestToTrip(req)

	created, err := s.trips.Create(r.Context(), ownerID, trip, catches)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Returns every trip of the caller, newest first, each with its catches.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), ownerID, id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
// The submitted catch list replaces the stored one entirely.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}

	var req tripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	trip, catches := requestToTrip(req)

	updated, err := s.trips.Update(r.Context(), ownerID, id, trip, catches)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), ownerID, id); err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "trip deleted"})
}

// --- mapping helpers --------------------------------------------------------

// pathID binds the {id} path parameter, writing a 400 naming the resource if
// it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid "+resource+" id")
		return 0, false
	}
	return id, true
}

// requestToTrip converts a validated request body into the trip fields and
// catch list the service expects. Catch entries without a species are
// dropped here.
func requestToTrip(req tripRequest) (domain.Trip, []domain.Catch) {
	t := domain.Trip{
		StreamID:                req.StreamID,
		Location:                req.Location,
		Date:                    req.Date.Time,
		StartTime:               req.StartTime,
		StopTime:                req.StopTime,
		WeatherConditionID:      req.WeatherConditionID,
		WaterClarityConditionID: req.WaterClarityConditionID,
		WaterLevelConditionID:   req.WaterLevelConditionID,
		Notes:                   req.Notes,
	}

	catches := make([]domain.Catch, len(req.Catches))
	for i, c := range req.Catches {
		catches[i] = domain.Catch{SpeciesID: c.SpeciesID, Notes: c.Notes}
		if c.Length != nil {
			catches[i].Length = decimal.NewNullDecimal(*c.Length)
		}
	}
	return t, domain.UsableCatches(catches)
}

// tripToResponse converts a domain.Trip into its JSON shape.
// Condition names are null exactly when the condition id is.
func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:                      t.ID,
		StreamID:                t.StreamID,
		StreamName:              t.StreamName,
		Location:                t.Location,
		Date:                    openapi_types.Date{Time: t.Date},
		StartTime:               t.StartTime,
		StopTime:                t.StopTime,
		WeatherConditionID:      t.WeatherConditionID,
		WaterClarityConditionID: t.WaterClarityConditionID,
		WaterLevelConditionID:   t.WaterLevelConditionID,
		Notes:                   t.Notes,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
	if t.WeatherConditionID != nil {
		resp.WeatherCondition = &t.WeatherCondition
	}
	if t.WaterClarityConditionID != nil {
		resp.WaterClarityCondition = &t.WaterClarityCondition
	}
	if t.WaterLevelConditionID != nil {
		resp.WaterLevelCondition = &t.WaterLevelCondition
	}

	if t.Catches != nil {
		catches := make([]catchResponse, len(t.Catches))
		for i, c := range t.Catches {
			catches[i] = catchToResponse(c)
		}
		resp.Catches = &catches
	}
	return resp
}

func catchToResponse(c domain.Catch) catchResponse {
	return catchResponse{
		ID:             c.ID,
		SpeciesID:      c.SpeciesID,
		SpeciesName:    c.SpeciesName,
		ScientificName: c.ScientificName,
		Length:         optionalFloat(c.Length),
		Notes:          c.Notes,
	}
}

// optionalFloat renders a nullable decimal as a JSON number or null.
func optionalFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
