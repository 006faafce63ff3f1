package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/handler"
)

type mockLookupServicer struct {
	streams    func(ctx context.Context) ([]domain.Stream, error)
	species    func(ctx context.Context) ([]domain.Species, error)
	conditions func(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error)
	all        func(ctx context.Context) (domain.Lookups, error)
}

func (m *mockLookupServicer) Streams(ctx context.Context) ([]domain.Stream, error) {
	return m.streams(ctx)
}
func (m *mockLookupServicer) Species(ctx context.Context) ([]domain.Species, error) {
	return m.species(ctx)
}
func (m *mockLookupServicer) Conditions(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error) {
	return m.conditions(ctx, kind)
}
func (m *mockLookupServicer) All(ctx context.Context) (domain.Lookups, error) {
	return m.all(ctx)
}

var _ handler.LookupServicer = (*mockLookupServicer)(nil)

// getPublic sends an unauthenticated GET; lookups need no token.
func getPublic(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetLookup_Streams(t *testing.T) {
	svc := &mockLookupServicer{
		streams: func(context.Context) ([]domain.Stream, error) {
			return []domain.Stream{{ID: 1, Name: "Casselman River"}, {ID: 2, Name: "Savage River", Description: "tailwater"}}, nil
		},
	}

	rec := getPublic(newHTTPHandler(services{lookups: svc}), "/lookups/streams")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id": 1, "name": "Casselman River", "description": ""},
		{"id": 2, "name": "Savage River", "description": "tailwater"}
	]`, rec.Body.String())
}

func TestGetLookup_Species(t *testing.T) {
	svc := &mockLookupServicer{
		species: func(context.Context) ([]domain.Species, error) {
			return []domain.Species{{ID: 7, Name: "Brown Trout", ScientificName: "Salmo trutta"}}, nil
		},
	}

	rec := getPublic(newHTTPHandler(services{lookups: svc}), "/lookups/species")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id": 7, "name": "Brown Trout", "scientificName": "Salmo trutta", "description": ""}]`, rec.Body.String())
}

func TestGetLookup_ConditionKinds(t *testing.T) {
	tests := map[string]domain.ConditionKind{
		"/lookups/weather-conditions":       domain.ConditionWeather,
		"/lookups/water-clarity-conditions": domain.ConditionWaterClarity,
		"/lookups/water-level-conditions":   domain.ConditionWaterLevel,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			var got domain.ConditionKind
			svc := &mockLookupServicer{
				conditions: func(_ context.Context, kind domain.ConditionKind) ([]domain.Condition, error) {
					got = kind
					return []domain.Condition{{ID: 1, Name: "Clear"}}, nil
				},
			}

			rec := getPublic(newHTTPHandler(services{lookups: svc}), path)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, want, got)
		})
	}
}

func TestGetLookup_All(t *testing.T) {
	svc := &mockLookupServicer{
		all: func(context.Context) (domain.Lookups, error) {
			return domain.Lookups{
				Streams:           []domain.Stream{{ID: 1, Name: "Savage River"}},
				Species:           []domain.Species{{ID: 7, Name: "Brown Trout"}},
				WeatherConditions: []domain.Condition{{ID: 2, Name: "Sunny"}},
			}, nil
		},
	}

	rec := getPublic(newHTTPHandler(services{lookups: svc}), "/lookups/all")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body["streams"], 1)
	assert.Len(t, body["species"], 1)
	assert.Len(t, body["weatherConditions"], 1)
	assert.NotNil(t, body["waterLevelConditions"], "empty tables are arrays, not null")
	assert.Empty(t, body["waterLevelConditions"])
}

func TestGetLookup_404_UnknownKind(t *testing.T) {
	rec := getPublic(newHTTPHandler(services{lookups: &mockLookupServicer{}}), "/lookups/moon-phases")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestGetLookup_500(t *testing.T) {
	svc := &mockLookupServicer{
		streams: func(context.Context) ([]domain.Stream, error) { return nil, errors.New("connection reset") },
	}

	rec := getPublic(newHTTPHandler(services{lookups: svc}), "/lookups/streams")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
