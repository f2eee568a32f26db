package service

import (
	"context"
	"math"
	"time"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/repository"
)

type dashboardService struct {
	equipmentRepo repository.EquipmentRepository
	contractRepo  repository.ContractRepository
	now           func() time.Time
}

func NewDashboardService(equipmentRepo repository.EquipmentRepository, contractRepo repository.ContractRepository, now func() time.Time) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{
		equipmentRepo: equipmentRepo,
		contractRepo:  contractRepo,
		now:           now,
	}
}

func (s *dashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	contracts, err := s.contractRepo.List(ctx, domain.ContractFilter{})
	if err != nil {
		return nil, err
	}
	units, err := s.equipmentRepo.List(ctx, domain.EquipmentFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	sum := &domain.DashboardSummary{TotalUnits: len(units)}
	for _, c := range contracts {
		switch c.Status {
		case domain.ContractStatusOngoing:
			sum.ActiveContracts++
			sum.OngoingValue += c.TotalAmount
			if domain.IsOverdue(&c, now) {
				sum.OverdueContracts++
				sum.Overdue = append(sum.Overdue, c)
			}
		case domain.ContractStatusQuotationPending:
			sum.PendingContracts++
		}
	}
	for _, u := range units {
		if u.Status.IsOutward() {
			sum.InFieldUnits++
		}
	}
	sum.UtilizationPercent = math.Round(domain.UtilizationRatio(units)*1000) / 10
	return sum, nil
}

func (s *dashboardService) ListOverdue(ctx context.Context) ([]domain.Contract, error) {
	ongoing, err := s.contractRepo.List(ctx, domain.ContractFilter{Status: domain.ContractStatusOngoing})
	if err != nil {
		return nil, err
	}
	now := s.now()
	var out []domain.Contract
	for _, c := range ongoing {
		if domain.IsOverdue(&c, now) {
			out = append(out, c)
		}
	}
	return out, nil
}
