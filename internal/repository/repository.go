package repository

import (
	"context"
	"errors"
	"time"

	"courtledger-backend/internal/domain"
)

// ErrConflict is returned by compare-and-swap style writes when the
// stored value moved under the caller. Callers re-read and retry.
var ErrConflict = errors.New("concurrent modification")

// UserSnapshot is one full materialization of the users collection,
// delivered on every upstream change. Err is set when the watch failed;
// Users then holds the last state the watcher saw before failing.
type UserSnapshot struct {
	Users []domain.User
	Err   error
}

type UserRepository interface {
	// Create stores the user and assigns its ID.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// SetBalance overwrites the balance field only. It does not append a
	// transaction record.
	SetBalance(ctx context.Context, id string, balanceCents int64) error
	// Delete removes the user document. Transaction history is left in
	// place (orphaned, still queryable).
	Delete(ctx context.Context, id string) error
	// Watch emits a full snapshot of the collection on every change until
	// ctx is cancelled. The channel is closed after a terminal error or
	// cancellation.
	Watch(ctx context.Context) (<-chan UserSnapshot, error)
}

type LedgerRepository interface {
	// CreateTransaction appends an immutable transaction record with a
	// server-assigned timestamp. Not idempotent: a retried call produces
	// a duplicate record.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	// ApplyBalanceChange atomically re-reads the user's authoritative
	// balance, writes balance+delta, and appends the matching transaction
	// record. Either both writes commit or neither does. Returns the
	// created transaction and the new balance.
	ApplyBalanceChange(ctx context.Context, userID, userName string, deltaCents int64, description string) (*domain.Transaction, int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	ListAll(ctx context.Context, limit int) ([]domain.Transaction, error)
	// ListBetween returns transactions with timestamp in [start, end),
	// oldest first, for settlement aggregation.
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
}

type SettlementRepository interface {
	// State returns the current settlement state, or a zero state if none
	// has been recorded yet.
	State(ctx context.Context) (*domain.SettlementState, error)
	// CommitReport stores the weekly report and advances the running
	// balance in one atomic operation. Fails if the report's week was
	// already settled.
	CommitReport(ctx context.Context, report *domain.WeeklyReport) error
	GetReport(ctx context.Context, week string) (*domain.WeeklyReport, error)
}
