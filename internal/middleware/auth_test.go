package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuconnect/triplog/backend/internal/auth"
	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/middleware"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct {
	token    string
	memberID int64
}

func (s stubVerifier) Verify(token string) (auth.Claims, error) {
	if token != s.token {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{MemberID: s.memberID}, nil
}

// memberEcho responds 200 and reports the member id it sees in the context.
var memberEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-Member-ID", strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticator_ValidToken(t *testing.T) {
	h := middleware.NewAuthenticator(stubVerifier{token: "good", memberID: 200})(memberEcho)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "200", rec.Header().Get("X-Member-ID"))
}

func TestAuthenticator_SchemeIsCaseInsensitive(t *testing.T) {
	h := middleware.NewAuthenticator(stubVerifier{token: "good", memberID: 1})(memberEcho)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic Zm9vOmJhcg=="},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer forged"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })
			h := middleware.NewAuthenticator(stubVerifier{token: "good", memberID: 1})(next)

			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
			assert.False(t, reached, "the next handler must not run")
		})
	}
}

func TestMemberIDFromContext_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := middleware.MemberIDFromContext(req.Context())

	assert.False(t, ok)
}

// The real issuer satisfies the verifier interface end to end.
func TestAuthenticator_WithTokenIssuer(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "tuconnect")
	tok, err := issuer.Issue(domain.Member{ID: 9, Email: "angler@example.com"})
	require.NoError(t, err)

	h := middleware.NewAuthenticator(issuer)(memberEcho)
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", rec.Header().Get("X-Member-ID"))
}
