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

const contractIDPrefix = "CON-"

type contractRepository struct {
	mu        sync.RWMutex
	contracts map[string]*domain.Contract
	order     []string
	lastSeq   int
}

func NewContractRepository(contracts []domain.Contract) repository.ContractRepository {
	r := &contractRepository{contracts: make(map[string]*domain.Contract, len(contracts))}
	for i := range contracts {
		c := contracts[i].Clone()
		if _, dup := r.contracts[c.ID]; dup {
			continue
		}
		r.contracts[c.ID] = c
		r.order = append(r.order, c.ID)
		r.observe(c.ID)
	}
	return r
}

// observe keeps lastSeq at the highest numeric suffix seen so generated ids
// never collide with seeded ones.
func (r *contractRepository) observe(id string) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, contractIDPrefix))
	if err == nil && strings.HasPrefix(id, contractIDPrefix) && n > r.lastSeq {
		r.lastSeq = n
	}
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	logger.StoreCall("INSERT", "contracts", "partyName", c.PartyName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		r.lastSeq++
		c.ID = fmt.Sprintf("%s%03d", contractIDPrefix, r.lastSeq)
	} else {
		if _, exists := r.contracts[c.ID]; exists {
			err := fmt.Errorf("%w: contract %s already exists", domain.ErrValidation, c.ID)
			logger.StoreResult("INSERT", 0, err)
			return err
		}
		r.observe(c.ID)
	}

	r.contracts[c.ID] = c.Clone()
	r.order = append(r.order, c.ID)
	logger.StoreResult("INSERT", 1, nil, "contractID", c.ID)
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[id]
	if !ok {
		return nil, fmt.Errorf("%w: contract %s", domain.ErrNotFound, id)
	}
	return c.Clone(), nil
}

func (r *contractRepository) Update(ctx context.Context, c *domain.Contract) error {
	logger.StoreCall("UPDATE", "contracts", "contractID", c.ID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contracts[c.ID]; !ok {
		err := fmt.Errorf("%w: contract %s", domain.ErrNotFound, c.ID)
		logger.StoreResult("UPDATE", 0, err)
		return err
	}
	r.contracts[c.ID] = c.Clone()
	logger.StoreResult("UPDATE", 1, nil)
	return nil
}

// List returns matching contracts, most recently created first.
func (r *contractRepository) List(ctx context.Context, filter domain.ContractFilter) ([]domain.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Contract
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.contracts[r.order[i]]
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.PartyType != "" && c.PartyType != filter.PartyType {
			continue
		}
		if !c.Matches(filter.Query) {
			continue
		}
		out = append(out, *c.Clone())
	}
	return out, nil
}
