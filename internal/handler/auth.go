package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

type registerRequest struct {
	Email     openapi_types.Email `json:"email" validate:"required,email"`
	Password  string              `json:"password" validate:"required,min=6,max=72"`
	FirstName string              `json:"firstName" validate:"required,max=100"`
	LastName  string              `json:"lastName" validate:"required,max=100"`
}

type loginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required"`
}

type memberResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Member    memberResponse `json:"member"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	m := domain.Member{Email: string(req.Email), FirstName: req.FirstName, LastName: req.LastName}
	created, tok, err := s.members.Register(r.Context(), m, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "member not found")
		return
	}

	writeJSON(w, http.StatusCreated, toAuthResponse(created, tok))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	m, tok, err := s.members.Login(r.Context(), string(req.Email), req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "member not found")
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(m, tok))
}

func toAuthResponse(m domain.Member, tok domain.AuthToken) authResponse {
	return authResponse{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		Member: memberResponse{
			ID:        m.ID,
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
		},
	}
}
