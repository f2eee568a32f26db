package service

import (
	"context"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/security"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (*security.RoleClaims, error)
}

// ContractService is the contract/quotation engine. It is the only writer of
// contracts and of equipment custody.
type ContractService interface {
	CreateDraftContract(ctx context.Context, party domain.PartyInfo, items []domain.QuotationItem, proposedTotal int64) (*domain.Contract, error)
	ReviseQuotation(ctx context.Context, contractID string, items []domain.QuotationItem, total int64) (*domain.Contract, error)
	FinalizeQuotation(ctx context.Context, contractID string, items []domain.QuotationItem, total int64) (*domain.Contract, error)
	ExtendContract(ctx context.Context, contractID string, items []domain.QuotationItem, additionalTotal int64) (*domain.Contract, error)
	EndContract(ctx context.Context, contractID string) (*domain.Contract, error)
	GetContract(ctx context.Context, contractID string) (*domain.ContractDetail, error)
	ListContracts(ctx context.Context, filter domain.ContractFilter) ([]domain.Contract, error)
}

type InventoryService interface {
	ListEquipment(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error)
	ListAvailable(ctx context.Context, category domain.EquipmentCategory) ([]domain.Equipment, error)
	GetEquipment(ctx context.Context, id string) (*domain.Equipment, error)
	ListModelSummaries(ctx context.Context) ([]domain.ModelSummary, error)
	UpdateModelPrice(ctx context.Context, modelName string, price int64) (int, error)
	ListTemplates(ctx context.Context) ([]domain.GearTemplate, error)
	ApplyTemplate(ctx context.Context, name string, exclude []string) ([]domain.Equipment, error)
	GetMovementHistory(ctx context.Context, equipmentID string) ([]domain.Movement, error)
}

type LedgerService interface {
	ListTransactions(ctx context.Context, query string) ([]domain.Transaction, error)
}

type DashboardService interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, error)
	ListOverdue(ctx context.Context) ([]domain.Contract, error)
}
