package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

func testMember() domain.Member {
	return domain.Member{ID: 42, Email: "angler@example.com"}
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, "tuconnect")

	tok, err := issuer.Issue(testMember())
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := issuer.Verify(tok.Value)

	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.MemberID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "angler@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")
}

func TestTokenIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, "tuconnect")

	a, err := issuer.Issue(testMember())
	require.NoError(t, err)
	b, err := issuer.Issue(testMember())
	require.NoError(t, err)

	assert.NotEqual(t, a.Value, b.Value)
}

func TestTokenIssuer_Verify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute, "tuconnect")
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := issuer.Issue(testMember())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(tok.Value)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_Verify_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, "tuconnect")
	good, err := issuer.Issue(testMember())
	require.NoError(t, err)

	otherSecret, err := NewTokenIssuer("other-secret", time.Hour, "tuconnect").Issue(testMember())
	require.NoError(t, err)

	otherIssuer, err := NewTokenIssuer("test-secret", time.Hour, "someone-else").Issue(testMember())
	require.NoError(t, err)

	noMember, err := NewTokenIssuer("test-secret", time.Hour, "tuconnect").Issue(domain.Member{})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "tuconnect"},
		MemberID:         42,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered", good.Value[:strings.LastIndex(good.Value, ".")] + ".AAAA"},
		{"other secret", otherSecret.Value},
		{"other issuer", otherIssuer.Value},
		{"no member id", noMember.Value},
		{"alg none", unsigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Verify(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenIssuer_ClaimNames(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, "tuconnect")
	tok, err := issuer.Issue(testMember())
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.EqualValues(t, 42, raw["memberId"])
	assert.NotContains(t, raw, "member_id")
	assert.Equal(t, "angler@example.com", raw["email"])
}
