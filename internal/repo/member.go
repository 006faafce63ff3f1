package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuconnect/triplog/backend/internal/domain"
)

// MemberRepo defines the persistence operations for member identities.
type MemberRepo interface {
	// Create inserts a member. Returns domain.ErrConflict if the email is taken.
	Create(ctx context.Context, m domain.Member) (domain.Member, error)

	// GetByEmail looks a member up by email, case-insensitively.
	// Returns domain.ErrNotFound if no member has that email.
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
}

type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

// Create stores emails lowercased so the unique constraint is case-insensitive.
func (r *pgMemberRepo) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	const q = `
		INSERT INTO members (email, password_hash, first_name, last_name)
		VALUES (lower(@email), @password_hash, @first_name, @last_name)
		RETURNING id, email, password_hash, first_name, last_name, created_at`

	args := pgx.NamedArgs{
		"email":         m.Email,
		"password_hash": m.PasswordHash,
		"first_name":    m.FirstName,
		"last_name":     m.LastName,
	}

	result, err := scanMember(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w: email already registered", domain.ErrConflict)
		}
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	const q = `
		SELECT id, email, password_hash, first_name, last_name, created_at
		FROM members
		WHERE email = lower(@email)`

	result, err := scanMember(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.GetByEmail: %w", err)
	}
	return result, nil
}

func scanMember(s scanner) (domain.Member, error) {
	var m domain.Member
	err := s.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.FirstName, &m.LastName, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}
	return m, nil
}
