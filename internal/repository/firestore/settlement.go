package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
)

type settlementRepository struct {
	store *Store
}

var _ repository.SettlementRepository = (*settlementRepository)(nil)

func (r *settlementRepository) State(ctx context.Context) (*domain.SettlementState, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	snap, err := r.store.client.Collection(colSettlement).Doc(docState).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// System inception: running balance starts at zero.
			return &domain.SettlementState{}, nil
		}
		return nil, classify(err)
	}

	var state domain.SettlementState
	if err := snap.DataTo(&state); err != nil {
		return nil, classifyCorrupt(snap.Ref.ID, err)
	}
	return &state, nil
}

// CommitReport stores the weekly report and advances the running balance
// in one Firestore transaction. The state is re-read inside the
// transaction and compared against the balance the report was computed
// from; a mismatch means another settlement ran concurrently and the
// caller must recompute.
func (r *settlementRepository) CommitReport(ctx context.Context, report *domain.WeeklyReport) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	stateRef := r.store.client.Collection(colSettlement).Doc(docState)
	reportRef := r.store.client.Collection(colReports).Doc(report.Week)

	logger.StoreCall("CommitReport", "week", report.Week, "gross_profit_cents", report.GrossProfitCents)

	err := r.store.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		var state domain.SettlementState
		snap, err := t.Get(stateRef)
		switch {
		case err == nil:
			if derr := snap.DataTo(&state); derr != nil {
				return classifyCorrupt(snap.Ref.ID, derr)
			}
		case status.Code(err) == codes.NotFound:
			// First settlement ever; zero state.
		default:
			return err
		}

		if state.LastSettledWeek == report.Week && report.Week != "" {
			return fmt.Errorf("%w: week %s already settled", domain.ErrInvalidArgument, report.Week)
		}
		if state.RunningBalanceCents != report.RunningBalanceCents-report.GrossProfitCents {
			return repository.ErrConflict
		}

		if err := t.Create(reportRef, report); err != nil {
			return err
		}
		return t.Set(stateRef, &domain.SettlementState{
			RunningBalanceCents: report.RunningBalanceCents,
			LastSettledWeek:     report.Week,
		})
	})
	logger.StoreResult("CommitReport", err, "week", report.Week)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) || errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrCorrupt) {
			return err
		}
		return classify(err)
	}
	return nil
}

func (r *settlementRepository) GetReport(ctx context.Context, week string) (*domain.WeeklyReport, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	snap, err := r.store.client.Collection(colReports).Doc(week).Get(ctx)
	if err != nil {
		return nil, classify(err)
	}
	var report domain.WeeklyReport
	if err := snap.DataTo(&report); err != nil {
		return nil, classifyCorrupt(snap.Ref.ID, err)
	}
	return &report, nil
}
