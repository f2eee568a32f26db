// Package memory keeps the rental state in process memory. Every read hands
// out a copy, and writes go through the repository methods only.
package memory

import (
	"vkolc-backend/internal/repository"
	"vkolc-backend/internal/seed"
)

type Store struct {
	repository.EquipmentRepository
	repository.ContractRepository
	repository.TransactionRepository
	repository.MovementRepository
	repository.TemplateRepository
}

func NewStore(data *seed.Data) *Store {
	return &Store{
		EquipmentRepository:   NewEquipmentRepository(data.Equipment),
		ContractRepository:    NewContractRepository(data.Contracts),
		TransactionRepository: NewTransactionRepository(data.Transactions),
		MovementRepository:    NewMovementRepository(data.Movements),
		TemplateRepository:    NewTemplateRepository(data.Templates),
	}
}
