package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
)

type ledgerRepository struct {
	store *Store
}

var _ repository.LedgerRepository = (*ledgerRepository)(nil)

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	ref := r.store.client.Collection(colTransactions).Doc(uuid.NewString())
	if _, err := ref.Create(ctx, tx); err != nil {
		return classify(err)
	}
	tx.ID = ref.ID
	return nil
}

// ApplyBalanceChange commits the balance update and the transaction
// record in a single Firestore transaction. The balance is re-read
// inside the transaction, so a concurrent mutation is retried against
// the fresh value instead of being overwritten from a stale snapshot.
func (r *ledgerRepository) ApplyBalanceChange(ctx context.Context, userID, userName string, deltaCents int64, description string) (*domain.Transaction, int64, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	userRef := r.store.client.Collection(colUsers).Doc(userID)
	txRef := r.store.client.Collection(colTransactions).Doc(uuid.NewString())

	record := &domain.Transaction{
		UserID:      userID,
		UserName:    userName,
		AmountCents: deltaCents,
		Description: description,
	}

	logger.StoreCall("ApplyBalanceChange", "user_id", userID, "delta_cents", deltaCents)

	var newBalance int64
	err := r.store.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		snap, err := t.Get(userRef)
		if err != nil {
			return err
		}
		user, err := decodeUser(snap)
		if err != nil {
			return err
		}

		newBalance = user.BalanceCents + deltaCents
		if err := t.Update(userRef, []firestore.Update{
			{Path: "balanceCents", Value: newBalance},
		}); err != nil {
			return err
		}
		return t.Create(txRef, record)
	})
	logger.StoreResult("ApplyBalanceChange", err, "user_id", userID)
	if err != nil {
		if errors.Is(err, domain.ErrCorrupt) {
			return nil, 0, err
		}
		return nil, 0, classify(err)
	}
	record.ID = txRef.ID

	// The timestamp is server-assigned; read it back so callers see the
	// committed value. The write already succeeded, so a failed read-back
	// only leaves the local timestamp zero.
	if snap, err := txRef.Get(ctx); err == nil {
		if decoded, derr := decodeTransaction(snap); derr == nil {
			record.Timestamp = decoded.Timestamp
		}
	} else {
		logger.Debug("Transaction committed but read-back failed", "transaction_id", record.ID, "error", err)
	}

	return record, newBalance, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	q := r.store.client.Collection(colTransactions).
		Where("userId", "==", userID).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit)
	return r.list(ctx, q)
}

func (r *ledgerRepository) ListAll(ctx context.Context, limit int) ([]domain.Transaction, error) {
	q := r.store.client.Collection(colTransactions).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit)
	return r.list(ctx, q)
}

func (r *ledgerRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	q := r.store.client.Collection(colTransactions).
		Where("timestamp", ">=", start).
		Where("timestamp", "<", end).
		OrderBy("timestamp", firestore.Asc)
	return r.list(ctx, q)
}

func (r *ledgerRepository) list(ctx context.Context, q firestore.Query) ([]domain.Transaction, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	it := q.Documents(ctx)
	defer it.Stop()

	var txs []domain.Transaction
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		tx, err := decodeTransaction(snap)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, nil
}

func decodeTransaction(snap *firestore.DocumentSnapshot) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := snap.DataTo(&tx); err != nil {
		return nil, classifyCorrupt(snap.Ref.ID, err)
	}
	tx.ID = snap.Ref.ID
	return &tx, nil
}
