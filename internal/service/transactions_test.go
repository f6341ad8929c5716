package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/service"
)

func TestTransactionLog_DefaultLimits(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerRepo)
	svc := service.NewTransactionLogService(repo)

	repo.On("ListByUser", ctx, "u1", 50).Return([]domain.Transaction{}, nil)
	repo.On("ListAll", ctx, 100).Return([]domain.Transaction{}, nil)

	_, err := svc.ForUser(ctx, "u1", 0)
	require.NoError(t, err)
	_, err = svc.All(ctx, -5)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTransactionLog_ExplicitLimit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerRepo)
	svc := service.NewTransactionLogService(repo)

	repo.On("ListByUser", ctx, "u1", 10).Return([]domain.Transaction{{ID: "t1"}}, nil)

	txs, err := svc.ForUser(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

// ForUser must return only the requested user's transactions, newest
// first, and reproduce amount, description, and userId exactly as
// committed, with non-decreasing commit timestamps.
func TestTransactionLog_OrderingAndOwnership(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLedgerRepo()
	ledger := service.NewLedgerService(fake, new(MockUserRepo), snapshotWith(
		domain.User{ID: "u1", Name: "Alice"},
		domain.User{ID: "u2", Name: "Bob"},
	))
	svc := service.NewTransactionLogService(fake)

	_, _, err := ledger.TopUp(ctx, "u1", "Alice", 1000, "first")
	require.NoError(t, err)
	_, _, err = ledger.TopUp(ctx, "u2", "Bob", 9999, "other user")
	require.NoError(t, err)
	_, _, err = ledger.Deduct(ctx, "u1", "Alice", 400, "second")
	require.NoError(t, err)
	_, _, err = ledger.TopUp(ctx, "u1", "Alice", 50, "third")
	require.NoError(t, err)

	txs, err := svc.ForUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	for i, tx := range txs {
		assert.Equal(t, "u1", tx.UserID)
		if i > 0 {
			assert.False(t, txs[i-1].Timestamp.Before(tx.Timestamp), "expected newest-first ordering")
		}
	}

	// Newest first: third, second, first.
	assert.Equal(t, int64(50), txs[0].AmountCents)
	assert.Equal(t, "third", txs[0].Description)
	assert.Equal(t, int64(-400), txs[1].AmountCents)
	assert.Equal(t, "second", txs[1].Description)
	assert.Equal(t, int64(1000), txs[2].AmountCents)
	assert.Equal(t, "first", txs[2].Description)
}

// Deleting a user orphans its history; the records stay queryable
// through the all-users view.
func TestTransactionLog_SurvivesUserDeletion(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLedgerRepo()
	ledger := service.NewLedgerService(fake, new(MockUserRepo), snapshotWith(domain.User{ID: "u1", Name: "Alice"}))
	logSvc := service.NewTransactionLogService(fake)

	userRepo := new(MockUserRepo)
	userRepo.On("Delete", ctx, "u1").Return(nil)
	users := service.NewUserService(userRepo)

	_, _, err := ledger.TopUp(ctx, "u1", "Alice", 2500, "top up")
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, "u1"))

	txs, err := logSvc.All(ctx, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "u1", txs[0].UserID)
	assert.Equal(t, int64(2500), txs[0].AmountCents)
}
