package memory

import (
	"context"
	"fmt"
	"sync"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/repository"
)

type equipmentRepository struct {
	mu    sync.RWMutex
	units map[string]*domain.Equipment
	order []string
}

func NewEquipmentRepository(units []domain.Equipment) repository.EquipmentRepository {
	r := &equipmentRepository{units: make(map[string]*domain.Equipment, len(units))}
	for _, u := range units {
		u := u
		if _, dup := r.units[u.ID]; dup {
			continue
		}
		r.units[u.ID] = &u
		r.order = append(r.order, u.ID)
	}
	return r
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[id]
	if !ok {
		return nil, fmt.Errorf("%w: equipment %s", domain.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (r *equipmentRepository) List(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Equipment
	for _, id := range r.order {
		u := r.units[id]
		if filter.Category != "" && u.Category != filter.Category {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if !u.Matches(filter.Query) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *equipmentRepository) ListAvailable(ctx context.Context, category domain.EquipmentCategory) ([]domain.Equipment, error) {
	return r.List(ctx, domain.EquipmentFilter{Category: category, Status: domain.EquipmentStatusAvailable})
}

func (r *equipmentRepository) ListByContract(ctx context.Context, contractID string) ([]domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Equipment
	for _, id := range r.order {
		if u := r.units[id]; u.ContractID == contractID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *equipmentRepository) ApplyCustodyTransition(ctx context.Context, changes []domain.CustodyChange) ([]domain.Equipment, error) {
	logger.StoreCall("APPLY_CUSTODY", "equipment", "changes", len(changes))

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(changes))
	for _, ch := range changes {
		if err := r.checkChange(ch, seen); err != nil {
			logger.StoreResult("APPLY_CUSTODY", 0, err, "equipmentID", ch.ID)
			return nil, err
		}
	}

	updated := make([]domain.Equipment, 0, len(changes))
	for _, ch := range changes {
		u := r.units[ch.ID]
		u.Status = ch.NewStatus
		u.ContractID = ch.ContractID
		u.CurrentHolder = ch.HolderName
		u.LastMovementDate = ch.MovementDate
		updated = append(updated, *u)
	}

	logger.StoreResult("APPLY_CUSTODY", len(updated), nil)
	return updated, nil
}

// checkChange validates one change against current state. Nothing is written
// until every change in the batch has passed.
func (r *equipmentRepository) checkChange(ch domain.CustodyChange, seen map[string]bool) error {
	u, ok := r.units[ch.ID]
	if !ok {
		return fmt.Errorf("%w: unknown equipment id %q", domain.ErrValidation, ch.ID)
	}
	if seen[ch.ID] {
		return fmt.Errorf("%w: equipment %s appears twice in one transition", domain.ErrValidation, ch.ID)
	}
	seen[ch.ID] = true

	if ch.MovementDate == "" {
		return fmt.Errorf("%w: movement date is required for %s", domain.ErrValidation, ch.ID)
	}

	switch ch.NewStatus {
	case domain.EquipmentStatusOutwardToCustomer, domain.EquipmentStatusOutwardToVendor:
		if ch.ContractID == "" || ch.ContractID == domain.NoContract {
			return fmt.Errorf("%w: outward unit %s needs a contract", domain.ErrValidation, ch.ID)
		}
		if u.Status != domain.EquipmentStatusAvailable {
			return fmt.Errorf("%w: %s (%s) is %s", domain.ErrAvailability, u.ID, u.Code, u.Status)
		}
	case domain.EquipmentStatusAvailable, domain.EquipmentStatusMaintenance, domain.EquipmentStatusLost:
		if ch.ContractID != domain.NoContract {
			return fmt.Errorf("%w: %s unit %s cannot reference contract %s", domain.ErrValidation, ch.NewStatus, ch.ID, ch.ContractID)
		}
	default:
		return fmt.Errorf("%w: unknown equipment status %q", domain.ErrValidation, ch.NewStatus)
	}
	return nil
}

func (r *equipmentRepository) UpdateModelPrice(ctx context.Context, modelName string, price int64) (int, error) {
	logger.StoreCall("UPDATE_PRICE", "equipment", "model", modelName, "price", price)
	if price <= 0 || price > domain.MaxAmount {
		err := fmt.Errorf("%w: price must be positive and at most %d", domain.ErrValidation, domain.MaxAmount)
		logger.StoreResult("UPDATE_PRICE", 0, err)
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, u := range r.units {
		if u.Name == modelName {
			u.Price = price
			n++
		}
	}
	if n == 0 {
		err := fmt.Errorf("%w: model %q", domain.ErrNotFound, modelName)
		logger.StoreResult("UPDATE_PRICE", 0, err)
		return 0, err
	}
	logger.StoreResult("UPDATE_PRICE", n, nil)
	return n, nil
}
