// Package handler implements the HTTP handlers for the trip log API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, ownerID int64, trip domain.Trip, catches []domain.Catch) (domain.Trip, error)
	GetByID(ctx context.Context, ownerID, id int64) (domain.Trip, error)
	List(ctx context.Context, ownerID int64) ([]domain.Trip, error)
	Update(ctx context.Context, ownerID, id int64, trip domain.Trip, catches []domain.Catch) (domain.Trip, error)
	Delete(ctx context.Context, ownerID, id int64) error
	Stats(ctx context.Context, ownerID int64) (domain.TripStats, error)
}

// ExportServicer produces the flat trip export.
type ExportServicer interface {
	Export(ctx context.Context, ownerID int64) ([]domain.ExportRow, error)
}

// LookupServicer serves the reference tables.
type LookupServicer interface {
	Streams(ctx context.Context) ([]domain.Stream, error)
	Species(ctx context.Context) ([]domain.Species, error)
	Conditions(ctx context.Context, kind domain.ConditionKind) ([]domain.Condition, error)
	All(ctx context.Context) (domain.Lookups, error)
}

// MemberServicer registers and signs in members.
type MemberServicer interface {
	Register(ctx context.Context, m domain.Member, password string) (domain.Member, domain.AuthToken, error)
	Login(ctx context.Context, email, password string) (domain.Member, domain.AuthToken, error)
}

// ExperienceServicer manages quick experience entries.
type ExperienceServicer interface {
	Create(ctx context.Context, ownerID int64, e domain.Experience) (domain.Experience, error)
	GetByID(ctx context.Context, ownerID, id int64) (domain.Experience, error)
	List(ctx context.Context, ownerID int64) ([]domain.Experience, error)
	Update(ctx context.Context, ownerID, id int64, e domain.Experience) (domain.Experience, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips    TripServicer
	export   ExportServicer
	lookups  LookupServicer
	members  MemberServicer
	exps     ExperienceServicer
	log      *slog.Logger
	validate *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, export ExportServicer, lookups LookupServicer, members MemberServicer, exps ExperienceServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:    trips,
		export:   export,
		lookups:  lookups,
		members:  members,
		exps:     exps,
		log:      log,
		validate: newValidator(),
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, nil)
}

// Routes returns the API router. authenticate guards every /trips and
// /experiences route; health, auth and lookup routes are public.
func (s *Server) Routes(authenticate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)

	r.Post("/auth/register", s.Register)
	r.Post("/auth/login", s.Login)

	r.Get("/lookups/{kind}", s.GetLookup)

	r.Route("/trips", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/stats", s.GetTripStats)
		r.Get("/export", s.GetExport)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Route("/experiences", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", s.ListExperiences)
		r.Post("/", s.CreateExperience)
		r.Get("/{id}", s.GetExperience)
		r.Put("/{id}", s.UpdateExperience)
		r.Delete("/{id}", s.DeleteExperience)
	})

	return r
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
