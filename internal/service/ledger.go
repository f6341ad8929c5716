package service

import (
	"context"
	"fmt"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	userRepo   repository.UserRepository
	resolver   UserResolver
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, userRepo repository.UserRepository, resolver UserResolver) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo, userRepo: userRepo, resolver: resolver}
}

func (s *ledgerService) TopUp(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, int64, error) {
	return s.apply(ctx, userID, userName, amountCents, description, amountCents)
}

func (s *ledgerService) Deduct(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, int64, error) {
	return s.apply(ctx, userID, userName, amountCents, description, -amountCents)
}

// apply validates and routes both mutation kinds through the atomic
// balance+log write. amountCents is the caller-supplied magnitude,
// deltaCents the signed amount actually committed.
func (s *ledgerService) apply(ctx context.Context, userID, userName string, amountCents int64, description string, deltaCents int64) (*domain.Transaction, int64, error) {
	if amountCents <= 0 {
		return nil, 0, fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidArgument, amountCents)
	}

	// Fast existence check against the live snapshot. A miss can be a
	// stale snapshot rather than a deleted user; the caller retries once
	// the directory catches up.
	user, ok := s.resolver.Lookup(userID)
	if !ok {
		return nil, 0, fmt.Errorf("%w: user %s not in directory snapshot", domain.ErrNotFound, userID)
	}
	if userName == "" {
		userName = user.Name
	}

	tx, newBalance, err := s.ledgerRepo.ApplyBalanceChange(ctx, userID, userName, deltaCents, description)
	if err != nil {
		return nil, 0, err
	}

	logger.Info("Balance mutation committed",
		"user_id", userID,
		"amount_cents", deltaCents,
		"new_balance_cents", newBalance,
		"description", description)
	return tx, newBalance, nil
}

func (s *ledgerService) SetBalance(ctx context.Context, userID string, balanceCents int64) error {
	return s.userRepo.SetBalance(ctx, userID, balanceCents)
}

func (s *ledgerService) RecordTransaction(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, error) {
	if amountCents == 0 {
		return nil, fmt.Errorf("%w: amount must be non-zero", domain.ErrInvalidArgument)
	}
	tx := &domain.Transaction{
		UserID:      userID,
		UserName:    userName,
		AmountCents: amountCents,
		Description: description,
	}
	if err := s.ledgerRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
