package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tuconnect/triplog/backend/internal/auth"
	"github.com/tuconnect/triplog/backend/internal/domain"
	"github.com/tuconnect/triplog/backend/internal/repo"
)

// minPasswordLength is the shortest password Register accepts.
const minPasswordLength = 6

// TokenIssuer signs bearer tokens for authenticated members.
type TokenIssuer interface {
	Issue(m domain.Member) (domain.AuthToken, error)
}

// MemberService registers members and signs them in.
type MemberService struct {
	members repo.MemberRepo
	tokens  TokenIssuer
}

// NewMemberService constructs a MemberService.
func NewMemberService(members repo.MemberRepo, tokens TokenIssuer) *MemberService {
	return &MemberService{members: members, tokens: tokens}
}

// Register creates a member with a bcrypt-hashed password and signs them in.
// Returns domain.ErrValidation for missing fields or a short password and
// domain.ErrConflict if the email is already registered.
func (s *MemberService) Register(ctx context.Context, m domain.Member, password string) (domain.Member, domain.AuthToken, error) {
	m.Email = strings.TrimSpace(m.Email)
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)

	if m.Email == "" || m.FirstName == "" || m.LastName == "" {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("%w: email, firstName and lastName are required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Register: %w", err)
	}
	m.PasswordHash = hash

	created, err := s.members.Create(ctx, m)
	if err != nil {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Register: %w", err)
	}

	tok, err := s.tokens.Issue(created)
	if err != nil {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Register: %w", err)
	}
	return created, tok, nil
}

// Login checks email and password and returns a fresh token.
// An unknown email and a wrong password both return domain.ErrUnauthorized,
// so callers cannot tell which one failed.
func (s *MemberService) Login(ctx context.Context, email, password string) (domain.Member, domain.AuthToken, error) {
	m, err := s.members.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Login: %w: invalid email or password", domain.ErrUnauthorized)
		}
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Login: %w", err)
	}
	if !auth.ComparePassword(m.PasswordHash, password) {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}

	tok, err := s.tokens.Issue(m)
	if err != nil {
		return domain.Member{}, domain.AuthToken{}, fmt.Errorf("service.MemberService.Login: %w", err)
	}
	return m, tok, nil
}
