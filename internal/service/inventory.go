package service

import (
	"context"
	"fmt"
	"sort"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/repository"
)

type inventoryService struct {
	equipmentRepo repository.EquipmentRepository
	movementRepo  repository.MovementRepository
	templateRepo  repository.TemplateRepository
}

func NewInventoryService(
	equipmentRepo repository.EquipmentRepository,
	movementRepo repository.MovementRepository,
	templateRepo repository.TemplateRepository,
) InventoryService {
	return &inventoryService{
		equipmentRepo: equipmentRepo,
		movementRepo:  movementRepo,
		templateRepo:  templateRepo,
	}
}

func (s *inventoryService) ListEquipment(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, filter.Category)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	return s.equipmentRepo.List(ctx, filter)
}

func (s *inventoryService) ListAvailable(ctx context.Context, category domain.EquipmentCategory) ([]domain.Equipment, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	return s.equipmentRepo.ListAvailable(ctx, category)
}

func (s *inventoryService) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

// ListModelSummaries groups the fleet by model, ordered by category and then
// model name.
func (s *inventoryService) ListModelSummaries(ctx context.Context) ([]domain.ModelSummary, error) {
	units, err := s.equipmentRepo.List(ctx, domain.EquipmentFilter{})
	if err != nil {
		return nil, err
	}

	byModel := map[string]*domain.ModelSummary{}
	var names []string
	for _, u := range units {
		m, ok := byModel[u.Name]
		if !ok {
			m = &domain.ModelSummary{Name: u.Name, Category: u.Category, Price: u.Price}
			byModel[u.Name] = m
			names = append(names, u.Name)
		}
		m.TotalUnits++
		switch {
		case u.Status == domain.EquipmentStatusAvailable:
			m.AvailableUnits++
		case u.Status.IsOutward():
			m.OutwardUnits++
		}
		m.Units = append(m.Units, u)
	}

	rank := make(map[domain.EquipmentCategory]int, len(domain.Categories))
	for i, c := range domain.Categories {
		rank[c] = i
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := byModel[names[i]], byModel[names[j]]
		if a.Category != b.Category {
			return rank[a.Category] < rank[b.Category]
		}
		return a.Name < b.Name
	})

	out := make([]domain.ModelSummary, len(names))
	for i, n := range names {
		out[i] = *byModel[n]
	}
	return out, nil
}

func (s *inventoryService) UpdateModelPrice(ctx context.Context, modelName string, price int64) (int, error) {
	logger.EnterMethod("inventoryService.UpdateModelPrice", "model", modelName, "price", price)

	n, err := s.equipmentRepo.UpdateModelPrice(ctx, modelName, price)
	if err != nil {
		logger.ExitMethodWithError("inventoryService.UpdateModelPrice", err, "model", modelName)
		return 0, err
	}

	logger.ExitMethod("inventoryService.UpdateModelPrice", "model", modelName, "units", n)
	return n, nil
}

func (s *inventoryService) ListTemplates(ctx context.Context) ([]domain.GearTemplate, error) {
	return s.templateRepo.List(ctx)
}

// ApplyTemplate picks, for every model of the template, the first Available
// unit that is not in exclude. Models with no free unit are skipped.
func (s *inventoryService) ApplyTemplate(ctx context.Context, name string, exclude []string) ([]domain.Equipment, error) {
	tpl, err := s.templateRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	available, err := s.equipmentRepo.ListAvailable(ctx, "")
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		taken[id] = true
	}

	var picked []domain.Equipment
	for _, model := range tpl.Models {
		for _, u := range available {
			if u.Name != model || taken[u.ID] {
				continue
			}
			picked = append(picked, u)
			taken[u.ID] = true
			break
		}
	}

	logger.Debug("Template applied", "template", name, "picked", len(picked), "models", len(tpl.Models))
	return picked, nil
}

func (s *inventoryService) GetMovementHistory(ctx context.Context, equipmentID string) ([]domain.Movement, error) {
	if _, err := s.equipmentRepo.GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.movementRepo.ListByEquipment(ctx, equipmentID)
}
