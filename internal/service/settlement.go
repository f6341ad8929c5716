package service

import (
	"context"
	"errors"
	"fmt"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
	"courtledger-backend/internal/utils"
)

// commitRetries bounds the recompute-and-recommit loop when another
// settlement run advanced the running balance first.
const commitRetries = 3

type settlementService struct {
	ledgerRepo     repository.LedgerRepository
	settlementRepo repository.SettlementRepository
	basePriceCents int64
	minPriceCents  int64
}

func NewSettlementService(ledgerRepo repository.LedgerRepository, settlementRepo repository.SettlementRepository, basePriceCents, minPriceCents int64) SettlementService {
	return &settlementService{
		ledgerRepo:     ledgerRepo,
		settlementRepo: settlementRepo,
		basePriceCents: basePriceCents,
		minPriceCents:  minPriceCents,
	}
}

func (s *settlementService) RunWeeklySettlement(ctx context.Context, in domain.SettlementInputs) (*domain.WeeklyReport, error) {
	if err := validateInputs(in); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < commitRetries; attempt++ {
		report, err := s.compute(ctx, in)
		if err != nil {
			return nil, err
		}

		err = s.settlementRepo.CommitReport(ctx, report)
		if errors.Is(err, repository.ErrConflict) {
			logger.Warn("Settlement state moved during commit, recomputing", "week", report.Week, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Info("Weekly settlement committed",
			"week", report.Week,
			"total_income_cents", report.TotalIncomeCents,
			"gross_profit_cents", report.GrossProfitCents,
			"running_balance_cents", report.RunningBalanceCents,
			"recommended_price_cents", report.RecommendedPriceCents,
			"price_clamped", report.PriceClamped)
		return report, nil
	}
	return nil, fmt.Errorf("settlement commit kept conflicting after %d attempts: %w", commitRetries, repository.ErrConflict)
}

func (s *settlementService) PreviewWeeklySettlement(ctx context.Context, in domain.SettlementInputs) (*domain.WeeklyReport, error) {
	if err := validateInputs(in); err != nil {
		return nil, err
	}
	return s.compute(ctx, in)
}

// compute builds the report from the current settlement state. Income
// counts top-ups only; deductions are balance corrections, not revenue.
func (s *settlementService) compute(ctx context.Context, in domain.SettlementInputs) (*domain.WeeklyReport, error) {
	state, err := s.settlementRepo.State(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.ledgerRepo.ListBetween(ctx, in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return nil, err
	}

	var totalIncome int64
	for _, tx := range txs {
		if tx.AmountCents > 0 {
			totalIncome += tx.AmountCents
		}
	}

	totalExpenses := *in.CourtCostCents + *in.ShuttlecockCostCents
	grossProfit := totalIncome - totalExpenses
	runningBalance := state.RunningBalanceCents + grossProfit

	rec := utils.RecommendPrice(s.basePriceCents, runningBalance, s.minPriceCents)

	_, _, week := utils.WeekOf(in.PeriodStart, in.PeriodStart.Location())
	return &domain.WeeklyReport{
		Week:                  week,
		PeriodStart:           in.PeriodStart,
		PeriodEnd:             in.PeriodEnd,
		SessionCount:          in.SessionCount,
		TotalPlayers:          in.TotalPlayers,
		TotalIncomeCents:      totalIncome,
		CourtCostCents:        *in.CourtCostCents,
		ShuttlecockCostCents:  *in.ShuttlecockCostCents,
		TotalExpensesCents:    totalExpenses,
		GrossProfitCents:      grossProfit,
		RunningBalanceCents:   runningBalance,
		BasePriceCents:        s.basePriceCents,
		AdjustmentCents:       rec.AdjustmentCents,
		RecommendedPriceCents: rec.PriceCents,
		PriceClamped:          rec.Clamped,
	}, nil
}

// validateInputs rejects missing cost figures outright: substituting
// zero would silently understate expenses.
func validateInputs(in domain.SettlementInputs) error {
	if in.PeriodStart.IsZero() || in.PeriodEnd.IsZero() {
		return fmt.Errorf("%w: settlement period is required", domain.ErrInvalidArgument)
	}
	if !in.PeriodEnd.After(in.PeriodStart) {
		return fmt.Errorf("%w: period end must be after start", domain.ErrInvalidArgument)
	}
	if in.CourtCostCents == nil {
		return fmt.Errorf("%w: court cost is required", domain.ErrInvalidArgument)
	}
	if in.ShuttlecockCostCents == nil {
		return fmt.Errorf("%w: shuttlecock cost is required", domain.ErrInvalidArgument)
	}
	if *in.CourtCostCents < 0 || *in.ShuttlecockCostCents < 0 {
		return fmt.Errorf("%w: costs must not be negative", domain.ErrInvalidArgument)
	}
	return nil
}
