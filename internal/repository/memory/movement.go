package memory

import (
	"context"
	"sync"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/repository"

	"github.com/google/uuid"
)

type movementRepository struct {
	mu    sync.RWMutex
	byEqu map[string][]domain.Movement
}

func NewMovementRepository(moves []domain.Movement) repository.MovementRepository {
	r := &movementRepository{byEqu: make(map[string][]domain.Movement)}
	for _, m := range moves {
		r.byEqu[m.EquipmentID] = append(r.byEqu[m.EquipmentID], m)
	}
	return r
}

func (r *movementRepository) Append(ctx context.Context, moves []domain.Movement) error {
	logger.StoreCall("INSERT", "movements", "count", len(moves))

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range moves {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		r.byEqu[m.EquipmentID] = append(r.byEqu[m.EquipmentID], m)
	}
	logger.StoreResult("INSERT", len(moves), nil)
	return nil
}

// ListByEquipment returns the custody history of a unit, newest first.
func (r *movementRepository) ListByEquipment(ctx context.Context, equipmentID string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hist := r.byEqu[equipmentID]
	out := make([]domain.Movement, 0, len(hist))
	for i := len(hist) - 1; i >= 0; i-- {
		out = append(out, hist[i])
	}
	return out, nil
}
