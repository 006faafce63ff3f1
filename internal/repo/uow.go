package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Repos bundles the repositories that take part in a trip write.
// Inside UnitOfWork.Within every member is bound to the same transaction.
type Repos struct {
	Trips   TripRepo
	Catches CatchRepo
}

// UnitOfWork runs a function against repositories that share one transaction.
// If fn returns nil the transaction commits; on any error (or panic) it rolls
// back, so callers never observe a half-applied write.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(r Repos) error) error
}

// txBeginner is satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Beginning on a pgx.Tx creates a savepoint, which lets integration tests run
// a unit of work inside their per-test rollback transaction.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgUnitOfWork struct {
	db txBeginner
}

// NewUnitOfWork constructs a UnitOfWork that opens its transactions on db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx.
func NewUnitOfWork(db txBeginner) UnitOfWork {
	return &pgUnitOfWork{db: db}
}

// Within begins a transaction, runs fn, and commits or rolls back.
// The returned error wraps fn's error unchanged so errors.Is keeps working.
func (u *pgUnitOfWork) Within(ctx context.Context, fn func(r Repos) error) error {
	err := pgx.BeginFunc(ctx, u.db, func(tx pgx.Tx) error {
		return fn(Repos{
			Trips:   NewTripRepo(tx),
			Catches: NewCatchRepo(tx),
		})
	})
	if err != nil {
		return fmt.Errorf("repo.UnitOfWork.Within: %w", err)
	}
	return nil
}
