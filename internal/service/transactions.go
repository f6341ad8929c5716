package service

import (
	"context"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/repository"
)

const (
	defaultUserHistoryLimit = 50
	defaultAllHistoryLimit  = 100
)

type transactionLogService struct {
	ledgerRepo repository.LedgerRepository
}

func NewTransactionLogService(ledgerRepo repository.LedgerRepository) TransactionLogService {
	return &transactionLogService{ledgerRepo: ledgerRepo}
}

func (s *transactionLogService) ForUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultUserHistoryLimit
	}
	return s.ledgerRepo.ListByUser(ctx, userID, limit)
}

func (s *transactionLogService) All(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultAllHistoryLimit
	}
	return s.ledgerRepo.ListAll(ctx, limit)
}
