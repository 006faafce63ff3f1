// Package auth issues and verifies member bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the JWT claims carried by a member token.
// Subject holds the member id in decimal; MemberID duplicates it as a number
// so clients do not have to parse it.
type Claims struct {
	jwt.RegisteredClaims
	MemberID int64  `json:"memberId"`
	Email    string `json:"email"`
}

// TokenIssuer signs and verifies HS256 member tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer returns a TokenIssuer. Tokens expire ttl after issue.
func NewTokenIssuer(secret string, ttl time.Duration, issuer string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token for m.
func (s *TokenIssuer) Issue(m domain.Member) (domain.AuthToken, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(m.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expires),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		MemberID: m.ID,
		Email:    m.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("auth.TokenIssuer.Issue: %w", err)
	}
	return domain.AuthToken{Value: signed, ExpiresAt: expires.UTC()}, nil
}

// Verify parses and validates a token string.
// Returns ErrExpiredToken for an expired token and ErrInvalidToken for
// anything else that fails: bad signature, wrong algorithm, wrong issuer,
// or a token without a member id.
func (s *TokenIssuer) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if claims.MemberID <= 0 {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
