package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tuconnect/triplog/backend/internal/auth"
)

// TokenVerifier checks a bearer token and returns its claims.
// *auth.TokenIssuer satisfies it.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type ctxKey int

const (
	memberIDKey ctxKey = iota
	memberSlotKey
)

// memberSlot lets the request logger see the member id resolved further down
// the chain.
type memberSlot struct {
	id int64
}

func withMemberSlot(ctx context.Context, s *memberSlot) context.Context {
	return context.WithValue(ctx, memberSlotKey, s)
}

// WithMemberID returns a context carrying memberID as the authenticated member.
func WithMemberID(ctx context.Context, memberID int64) context.Context {
	if s, ok := ctx.Value(memberSlotKey).(*memberSlot); ok {
		s.id = memberID
	}
	return context.WithValue(ctx, memberIDKey, memberID)
}

// MemberIDFromContext returns the authenticated member id stored by
// NewAuthenticator. ok is false on unauthenticated requests.
func MemberIDFromContext(ctx context.Context) (id int64, ok bool) {
	id, ok = ctx.Value(memberIDKey).(int64)
	return id, ok && id > 0
}

// NewAuthenticator returns a middleware that requires an
// "Authorization: Bearer <token>" header carrying a valid token. The member
// id from the token is stored in the request context; requests without a
// valid token are rejected with 401 and never reach the next handler.
func NewAuthenticator(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithMemberID(r.Context(), claims.MemberID)))
		})
	}
}
