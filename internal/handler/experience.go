package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// experienceRequest is the body of POST /experiences and PUT /experiences/{id}.
// Whether a stream is named at all is checked by the service.
type experienceRequest struct {
	StreamID                *int64             `json:"streamId" validate:"omitempty,gt=0"`
	CustomStreamName        string             `json:"customStreamName" validate:"max=200"`
	Location                string             `json:"location" validate:"required,max=500"`
	Date                    openapi_types.Date `json:"date" validate:"required"`
	WeatherConditionID      *int64             `json:"weatherConditionId" validate:"omitempty,gt=0"`
	WaterClarityConditionID *int64             `json:"waterClarityConditionId" validate:"omitempty,gt=0"`
	WaterLevelConditionID   *int64             `json:"waterLevelConditionId" validate:"omitempty,gt=0"`
	FishCaught              int                `json:"fishCaught" validate:"gte=0"`
	SpeciesID               *int64             `json:"speciesId" validate:"omitempty,gt=0"`
	CustomSpecies           string             `json:"customSpecies" validate:"max=200"`
	Notes                   string             `json:"notes" validate:"max=10000"`
}

type experienceResponse struct {
	ID                      int64              `json:"id"`
	StreamID                *int64             `json:"streamId"`
	StreamName              *string            `json:"streamName"`
	CustomStreamName        string             `json:"customStreamName"`
	Location                string             `json:"location"`
	Date                    openapi_types.Date `json:"date"`
	WeatherConditionID      *int64             `json:"weatherConditionId"`
	WeatherCondition        *string            `json:"weatherCondition"`
	WaterClarityConditionID *int64             `json:"waterClarityConditionId"`
	WaterClarityCondition   *string            `json:"waterClarityCondition"`
	WaterLevelConditionID   *int64             `json:"waterLevelConditionId"`
	WaterLevelCondition     *string            `json:"waterLevelCondition"`
	FishCaught              int                `json:"fishCaught"`
	SpeciesID               *int64             `json:"speciesId"`
	SpeciesName             *string            `json:"speciesName"`
	CustomSpecies           string             `json:"customSpecies"`
	Notes                   string             `json:"notes"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               *time.Time         `json:"updatedAt"`
}

// CreateExperience handles POST /experiences.
func (s *Server) CreateExperience(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}

	var req experienceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	created, err := s.exps.Create(r.Context(), ownerID, requestToExperience(req))
	if err != nil {
		s.writeServiceError(w, r, err, "experience not found")
		return
	}

	writeJSON(w, http.StatusCreated, experienceToResponse(created))
}

// ListExperiences handles GET /experiences.
func (s *Server) ListExperiences(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}

	list, err := s.exps.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err, "experience not found")
		return
	}

	out := make([]experienceResponse, len(list))
	for i, e := range list {
		out[i] = experienceToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetExperience handles GET /experiences/{id}.
func (s *Server) GetExperience(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "experience")
	if !ok {
		return
	}

	e, err := s.exps.GetByID(r.Context(), ownerID, id)
	if err != nil {
		s.writeServiceError(w, r, err, "experience not found")
		return
	}

	writeJSON(w, http.StatusOK, experienceToResponse(e))
}

// UpdateExperience handles PUT /experiences/{id}.
func (s *Server) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "experience")
	if !ok {
		return
	}

	var req experienceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	updated, err := s.exps.Update(r.Context(), ownerID, id, requestToExperience(req))
	if err != nil {
		s.writeServiceError(w, r, err, "experience not found")
		return
	}

	writeJSON(w, http.StatusOK, experienceToResponse(updated))
}

// DeleteExperience handles DELETE /experiences/{id}.
func (s *Server) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := memberID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "experience")
	if !ok {
		return
	}

	if err := s.exps.Delete(r.Context(), ownerID, id); err != nil {
		s.writeServiceError(w, r, err, "experience not found")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "experience deleted"})
}

func requestToExperience(req experienceRequest) domain.Experience {
	return domain.Experience{
		StreamID:                req.StreamID,
		CustomStreamName:        req.CustomStreamName,
		Location:                req.Location,
		Date:                    req.Date.Time,
		WeatherConditionID:      req.WeatherConditionID,
		WaterClarityConditionID: req.WaterClarityConditionID,
		WaterLevelConditionID:   req.WaterLevelConditionID,
		FishCaught:              req.FishCaught,
		SpeciesID:               req.SpeciesID,
		CustomSpecies:           req.CustomSpecies,
		Notes:                   req.Notes,
	}
}

// experienceToResponse renders joined names as null exactly when their id is.
func experienceToResponse(e domain.Experience) experienceResponse {
	resp := experienceResponse{
		ID:                      e.ID,
		StreamID:                e.StreamID,
		CustomStreamName:        e.CustomStreamName,
		Location:                e.Location,
		Date:                    openapi_types.Date{Time: e.Date},
		WeatherConditionID:      e.WeatherConditionID,
		WaterClarityConditionID: e.WaterClarityConditionID,
		WaterLevelConditionID:   e.WaterLevelConditionID,
		FishCaught:              e.FishCaught,
		SpeciesID:               e.SpeciesID,
		CustomSpecies:           e.CustomSpecies,
		Notes:                   e.Notes,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}
	if e.StreamID != nil {
		resp.StreamName = &e.StreamName
	}
	if e.SpeciesID != nil {
		resp.SpeciesName = &e.SpeciesName
	}
	if e.WeatherConditionID != nil {
		resp.WeatherCondition = &e.WeatherCondition
	}
	if e.WaterClarityConditionID != nil {
		resp.WaterClarityCondition = &e.WaterClarityCondition
	}
	if e.WaterLevelConditionID != nil {
		resp.WaterLevelCondition = &e.WaterLevelCondition
	}
	return resp
}
