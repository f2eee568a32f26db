package repository

import (
	"context"

	"vkolc-backend/internal/domain"
)

type EquipmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	List(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error)
	ListAvailable(ctx context.Context, category domain.EquipmentCategory) ([]domain.Equipment, error)
	ListByContract(ctx context.Context, contractID string) ([]domain.Equipment, error)

	// ApplyCustodyTransition is the only way custody fields change. The batch
	// is applied entirely or not at all.
	ApplyCustodyTransition(ctx context.Context, changes []domain.CustodyChange) ([]domain.Equipment, error)
	UpdateModelPrice(ctx context.Context, modelName string, price int64) (int, error)
}

type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	Update(ctx context.Context, contract *domain.Contract) error
	List(ctx context.Context, filter domain.ContractFilter) ([]domain.Contract, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	List(ctx context.Context, query string) ([]domain.Transaction, error)
}

type MovementRepository interface {
	Append(ctx context.Context, moves []domain.Movement) error
	ListByEquipment(ctx context.Context, equipmentID string) ([]domain.Movement, error)
}

type TemplateRepository interface {
	List(ctx context.Context) ([]domain.GearTemplate, error)
	GetByName(ctx context.Context, name string) (*domain.GearTemplate, error)
}
