package service

import (
	"context"

	"courtledger-backend/internal/domain"
)

// UserResolver answers balance-read lookups from the directory's live
// snapshot. The snapshot may lag the store; authoritative values are
// re-read inside the store transaction that commits a mutation.
type UserResolver interface {
	Lookup(id string) (domain.User, bool)
}

type LedgerService interface {
	// TopUp credits amountCents (> 0) to the user and appends the
	// matching transaction atomically. Returns the transaction and the
	// new balance.
	TopUp(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, int64, error)
	// Deduct debits amountCents (> 0, supplied as a positive magnitude).
	// No floor at zero; overdraft is allowed.
	Deduct(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, int64, error)
	// SetBalance overwrites the stored balance without appending a
	// transaction. Admin use only; pair with RecordTransaction to keep
	// the audit trail intact.
	SetBalance(ctx context.Context, userID string, balanceCents int64) error
	// RecordTransaction appends a transaction without touching the
	// balance. Not idempotent.
	RecordTransaction(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, error)
}

type TransactionLogService interface {
	// ForUser returns the user's most recent transactions, newest first.
	// limit <= 0 applies the default of 50.
	ForUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	// All returns the most recent transactions across all users, newest
	// first. limit <= 0 applies the default of 100.
	All(ctx context.Context, limit int) ([]domain.Transaction, error)
}

type UserService interface {
	CreateUser(ctx context.Context, name, credential string, initialBalanceCents int64) (*domain.User, error)
	// DeleteUser removes the user only; prior transactions stay in the
	// log, orphaned but immutable.
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type SettlementService interface {
	// RunWeeklySettlement aggregates the period, advances the running
	// balance, and stores the report.
	RunWeeklySettlement(ctx context.Context, in domain.SettlementInputs) (*domain.WeeklyReport, error)
	// PreviewWeeklySettlement computes the same report without
	// committing anything.
	PreviewWeeklySettlement(ctx context.Context, in domain.SettlementInputs) (*domain.WeeklyReport, error)
}
