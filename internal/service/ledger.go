package service

import (
	"context"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/repository"
)

type ledgerService struct {
	transactionRepo repository.TransactionRepository
}

func NewLedgerService(transactionRepo repository.TransactionRepository) LedgerService {
	return &ledgerService{transactionRepo: transactionRepo}
}

func (s *ledgerService) ListTransactions(ctx context.Context, query string) ([]domain.Transaction, error) {
	return s.transactionRepo.List(ctx, query)
}
