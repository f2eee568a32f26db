package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/repository"
)

const (
	transactionIDPrefix = "TRX-"
	firstTransactionSeq = 1001
)

type transactionRepository struct {
	mu      sync.RWMutex
	entries []domain.Transaction
	lastSeq int
}

func NewTransactionRepository(entries []domain.Transaction) repository.TransactionRepository {
	r := &transactionRepository{lastSeq: firstTransactionSeq - 1}
	for _, tx := range entries {
		r.entries = append(r.entries, tx)
		r.observe(tx.ID)
	}
	return r
}

func (r *transactionRepository) observe(id string) {
	if !strings.HasPrefix(id, transactionIDPrefix) {
		return
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(id, transactionIDPrefix)); err == nil && n > r.lastSeq {
		r.lastSeq = n
	}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	logger.StoreCall("INSERT", "transactions", "contractID", tx.ContractID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.ID == "" {
		r.lastSeq++
		tx.ID = fmt.Sprintf("%s%d", transactionIDPrefix, r.lastSeq)
	} else {
		r.observe(tx.ID)
	}
	r.entries = append(r.entries, *tx)
	logger.StoreResult("INSERT", 1, nil, "transactionID", tx.ID)
	return nil
}

// List returns the ledger newest first, filtered by a free-text query.
func (r *transactionRepository) List(ctx context.Context, query string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Transaction
	for i := len(r.entries) - 1; i >= 0; i-- {
		if tx := r.entries[i]; tx.Matches(query) {
			out = append(out, tx)
		}
	}
	return out, nil
}
