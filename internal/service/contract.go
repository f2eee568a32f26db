package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/repository"
	"vkolc-backend/internal/utils"
)

// EngineSettings are the defaults the engine applies to new contracts and
// returned units.
type EngineSettings struct {
	DefaultDurationDays int
	WarehouseLocation   string
}

type Option func(*contractService)

// WithClock replaces the wall clock used for dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *contractService) {
		s.now = now
	}
}

type contractService struct {
	// mu serializes every write so multi-record changes are never observed
	// half applied.
	mu              sync.Mutex
	equipmentRepo   repository.EquipmentRepository
	contractRepo    repository.ContractRepository
	transactionRepo repository.TransactionRepository
	movementRepo    repository.MovementRepository
	settings        EngineSettings
	now             func() time.Time
}

func NewContractService(
	equipmentRepo repository.EquipmentRepository,
	contractRepo repository.ContractRepository,
	transactionRepo repository.TransactionRepository,
	movementRepo repository.MovementRepository,
	settings EngineSettings,
	opts ...Option,
) ContractService {
	if settings.DefaultDurationDays <= 0 {
		settings.DefaultDurationDays = domain.DefaultDurationDays
	}
	if settings.WarehouseLocation == "" {
		settings.WarehouseLocation = "Main Warehouse"
	}
	s := &contractService{
		equipmentRepo:   equipmentRepo,
		contractRepo:    contractRepo,
		transactionRepo: transactionRepo,
		movementRepo:    movementRepo,
		settings:        settings,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *contractService) today() string {
	return s.now().Format(domain.DateLayout)
}

func (s *contractService) CreateDraftContract(ctx context.Context, party domain.PartyInfo, items []domain.QuotationItem, proposedTotal int64) (*domain.Contract, error) {
	logger.EnterMethod("contractService.CreateDraftContract", "partyName", party.PartyName, "items", len(items), "total", proposedTotal)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.buildDraft(ctx, party, items, proposedTotal)
	if err != nil {
		logger.ExitMethodWithError("contractService.CreateDraftContract", err, "partyName", party.PartyName)
		return nil, err
	}

	if err := s.contractRepo.Create(ctx, c); err != nil {
		logger.ExitMethodWithError("contractService.CreateDraftContract", err, "partyName", party.PartyName)
		return nil, err
	}

	logger.ExitMethod("contractService.CreateDraftContract", "contractID", c.ID)
	return c, nil
}

func (s *contractService) buildDraft(ctx context.Context, party domain.PartyInfo, items []domain.QuotationItem, proposedTotal int64) (*domain.Contract, error) {
	if err := validateParty(&party); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if err := checkReconciles(items, proposedTotal); err != nil {
		return nil, err
	}
	if _, err := s.loadAvailable(ctx, items); err != nil {
		return nil, err
	}

	now := s.now()
	startDate := party.StartDate
	if startDate == "" {
		startDate = now.Format(domain.DateLayout)
	}
	duration := party.Duration
	if duration == 0 {
		duration = s.settings.DefaultDurationDays
	}
	manager := strings.TrimSpace(party.Manager)
	if manager == "" {
		if actor, ok := ActorFromContext(ctx); ok {
			manager = actor.DisplayName
		}
	}

	return &domain.Contract{
		PartyName:        party.PartyName,
		PartyType:        party.PartyType,
		Direction:        party.Direction,
		StartDate:        startDate,
		Duration:         duration,
		Status:           domain.ContractStatusQuotationPending,
		TotalAmount:      proposedTotal,
		Manager:          manager,
		ProjectName:      party.ProjectName,
		AssignedCustomer: party.AssignedCustomer,
		AssignedProject:  party.AssignedProject,
		BillTo:           party.BillTo,
		Notes:            party.Notes,
		Quotations: []domain.Quotation{{
			Version:     1,
			EditCount:   0,
			TotalAmount: proposedTotal,
			Items:       copyItems(items),
			Status:      domain.QuotationStatusSubmitted,
			SubmittedAt: now,
		}},
	}, nil
}

func (s *contractService) ReviseQuotation(ctx context.Context, contractID string, items []domain.QuotationItem, total int64) (*domain.Contract, error) {
	logger.EnterMethod("contractService.ReviseQuotation", "contractID", contractID, "items", len(items), "total", total)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.loadForTransition(ctx, contractID, domain.TransitionRevise)
	if err != nil {
		logger.ExitMethodWithError("contractService.ReviseQuotation", err, "contractID", contractID)
		return nil, err
	}

	q := c.LatestQuotation()
	if q.EditCount >= domain.MaxQuotationEdits {
		err := fmt.Errorf("%w: contract %s already has %d revisions", domain.ErrEditLimitExceeded, contractID, q.EditCount)
		logger.ExitMethodWithError("contractService.ReviseQuotation", err, "contractID", contractID)
		return nil, err
	}
	if err := validateItems(items); err != nil {
		logger.ExitMethodWithError("contractService.ReviseQuotation", err, "contractID", contractID)
		return nil, err
	}
	if err := checkReconciles(items, total); err != nil {
		logger.ExitMethodWithError("contractService.ReviseQuotation", err, "contractID", contractID)
		return nil, err
	}
	if err := s.checkKnown(ctx, items); err != nil {
		logger.ExitMethodWithError("contractService.ReviseQuotation", err, "contractID", contractID)
		return nil, err
	}

	q.Items = copyItems(items)
	q.TotalAmount = total
	q.EditCount++
	q.Status = domain.QuotationStatusSubmitted
	q.SubmittedAt = s.now()
	c.TotalAmount = total

	if err := s.contractRepo.Update(ctx, c); err != nil {
		logger.ExitMethodWithError("contractService.ReviseQuotation", err, "contractID", contractID)
		return nil, err
	}

	logger.ExitMethod("contractService.ReviseQuotation", "contractID", contractID, "editCount", q.EditCount)
	return c, nil
}

func (s *contractService) FinalizeQuotation(ctx context.Context, contractID string, items []domain.QuotationItem, total int64) (*domain.Contract, error) {
	logger.EnterMethod("contractService.FinalizeQuotation", "contractID", contractID, "items", len(items), "total", total)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.loadForTransition(ctx, contractID, domain.TransitionFinalize)
	if err != nil {
		logger.ExitMethodWithError("contractService.FinalizeQuotation", err, "contractID", contractID)
		return nil, err
	}
	if err := validateItems(items); err != nil {
		logger.ExitMethodWithError("contractService.FinalizeQuotation", err, "contractID", contractID)
		return nil, err
	}
	if err := checkReconciles(items, total); err != nil {
		logger.ExitMethodWithError("contractService.FinalizeQuotation", err, "contractID", contractID)
		return nil, err
	}
	units, err := s.loadAvailable(ctx, items)
	if err != nil {
		logger.ExitMethodWithError("contractService.FinalizeQuotation", err, "contractID", contractID)
		return nil, err
	}

	now := s.now()
	q := c.LatestQuotation()
	q.Items = copyItems(items)
	q.TotalAmount = total
	q.Status = domain.QuotationStatusApproved
	q.SubmittedAt = now
	c.Status = domain.ContractStatusOngoing
	c.TotalAmount = total

	if err := s.handOver(ctx, c, units); err != nil {
		logger.ExitMethodWithError("contractService.FinalizeQuotation", err, "contractID", contractID)
		return nil, err
	}

	s.recordLedger(ctx, c, len(items), total, fmt.Sprintf("Quotation v%d finalized", q.Version))
	s.recordMovements(ctx, c, units, domain.DirectionOut)

	logger.ExitMethod("contractService.FinalizeQuotation", "contractID", contractID, "units", len(units))
	return c, nil
}

func (s *contractService) ExtendContract(ctx context.Context, contractID string, items []domain.QuotationItem, additionalTotal int64) (*domain.Contract, error) {
	logger.EnterMethod("contractService.ExtendContract", "contractID", contractID, "items", len(items), "additionalTotal", additionalTotal)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.loadForTransition(ctx, contractID, domain.TransitionExtend)
	if err != nil {
		logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
		return nil, err
	}
	if err := validateItems(items); err != nil {
		logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
		return nil, err
	}
	q := c.LatestQuotation()
	for _, it := range items {
		for _, held := range q.Items {
			if held.EquipmentID == it.EquipmentID {
				err := fmt.Errorf("%w: unit %s is already on contract %s", domain.ErrAvailability, it.EquipmentID, contractID)
				logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
				return nil, err
			}
		}
	}
	if err := checkReconciles(items, additionalTotal); err != nil {
		logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
		return nil, err
	}
	if c.TotalAmount > domain.MaxAmount-additionalTotal {
		err := fmt.Errorf("%w: extended total would exceed %d", domain.ErrValidation, domain.MaxAmount)
		logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
		return nil, err
	}
	units, err := s.loadAvailable(ctx, items)
	if err != nil {
		logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
		return nil, err
	}

	q.Items = append(q.Items, copyItems(items)...)
	q.TotalAmount += additionalTotal
	c.TotalAmount += additionalTotal

	if err := s.handOver(ctx, c, units); err != nil {
		logger.ExitMethodWithError("contractService.ExtendContract", err, "contractID", contractID)
		return nil, err
	}

	s.recordLedger(ctx, c, len(items), additionalTotal, fmt.Sprintf("Extension: %d additional units", len(items)))
	s.recordMovements(ctx, c, units, domain.DirectionOut)

	logger.ExitMethod("contractService.ExtendContract", "contractID", contractID, "totalAmount", c.TotalAmount)
	return c, nil
}

func (s *contractService) EndContract(ctx context.Context, contractID string) (*domain.Contract, error) {
	logger.EnterMethod("contractService.EndContract", "contractID", contractID)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.loadForTransition(ctx, contractID, domain.TransitionEnd)
	if err != nil {
		logger.ExitMethodWithError("contractService.EndContract", err, "contractID", contractID)
		return nil, err
	}

	units, err := s.equipmentRepo.ListByContract(ctx, contractID)
	if err != nil {
		logger.ExitMethodWithError("contractService.EndContract", err, "contractID", contractID)
		return nil, err
	}

	now := s.now()
	if c.Status == domain.ContractStatusQuotationPending {
		if q := c.LatestQuotation(); q != nil {
			q.Status = domain.QuotationStatusRejected
		}
	}
	c.Status = domain.ContractStatusClosed
	c.ClosedAt = &now

	date := now.Format(domain.DateLayout)
	changes := make([]domain.CustodyChange, len(units))
	for i, u := range units {
		changes[i] = domain.CustodyChange{
			ID:           u.ID,
			NewStatus:    domain.EquipmentStatusAvailable,
			ContractID:   domain.NoContract,
			HolderName:   s.settings.WarehouseLocation,
			MovementDate: date,
		}
	}

	if err := s.commit(ctx, c, changes, restoreChanges(units)); err != nil {
		logger.ExitMethodWithError("contractService.EndContract", err, "contractID", contractID)
		return nil, err
	}

	s.recordMovements(ctx, c, units, domain.DirectionIn)

	logger.ExitMethod("contractService.EndContract", "contractID", contractID, "returnedUnits", len(units))
	return c, nil
}

func (s *contractService) GetContract(ctx context.Context, contractID string) (*domain.ContractDetail, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	units, err := s.equipmentRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return &domain.ContractDetail{
		Contract: c,
		Units:    units,
		Overdue:  domain.IsOverdue(c, s.now()),
	}, nil
}

func (s *contractService) ListContracts(ctx context.Context, filter domain.ContractFilter) ([]domain.Contract, error) {
	return s.contractRepo.List(ctx, filter)
}

// loadForTransition fetches a contract and checks that it may take t.
func (s *contractService) loadForTransition(ctx context.Context, contractID string, t domain.Transition) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.CanTransition(t) {
		return nil, fmt.Errorf("%w: cannot %s contract %s in status %s", domain.ErrInvalidTransition, t, c.ID, c.Status)
	}
	if t != domain.TransitionEnd && c.LatestQuotation() == nil {
		return nil, fmt.Errorf("%w: contract %s has no quotation", domain.ErrInvalidTransition, c.ID)
	}
	return c, nil
}

// loadAvailable re-reads every unit and requires it to be Available now.
func (s *contractService) loadAvailable(ctx context.Context, items []domain.QuotationItem) ([]domain.Equipment, error) {
	units := make([]domain.Equipment, 0, len(items))
	for _, it := range items {
		u, err := s.lookupUnit(ctx, it.EquipmentID)
		if err != nil {
			return nil, err
		}
		if u.Status != domain.EquipmentStatusAvailable {
			return nil, fmt.Errorf("%w: %s (%s) is %s", domain.ErrAvailability, u.ID, u.Code, u.Status)
		}
		units = append(units, *u)
	}
	return units, nil
}

func (s *contractService) checkKnown(ctx context.Context, items []domain.QuotationItem) error {
	for _, it := range items {
		if _, err := s.lookupUnit(ctx, it.EquipmentID); err != nil {
			return err
		}
	}
	return nil
}

func (s *contractService) lookupUnit(ctx context.Context, id string) (*domain.Equipment, error) {
	u, err := s.equipmentRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown equipment id %q", domain.ErrValidation, id)
	}
	return u, err
}

// handOver moves units out to the contract's party and saves the contract.
func (s *contractService) handOver(ctx context.Context, c *domain.Contract, units []domain.Equipment) error {
	status := domain.OutwardStatusFor(c.PartyType)
	date := s.today()
	changes := make([]domain.CustodyChange, len(units))
	for i, u := range units {
		changes[i] = domain.CustodyChange{
			ID:           u.ID,
			NewStatus:    status,
			ContractID:   c.ID,
			HolderName:   c.PartyName,
			MovementDate: date,
		}
	}
	return s.commit(ctx, c, changes, restoreChanges(units))
}

// commit applies the custody changes and then saves the contract. If the save
// fails, undo is applied so custody matches the unchanged contract again.
func (s *contractService) commit(ctx context.Context, c *domain.Contract, changes, undo []domain.CustodyChange) error {
	if len(changes) > 0 {
		if _, err := s.equipmentRepo.ApplyCustodyTransition(ctx, changes); err != nil {
			return err
		}
	}

	if err := s.contractRepo.Update(ctx, c); err != nil {
		if len(undo) > 0 {
			if _, uerr := s.equipmentRepo.ApplyCustodyTransition(ctx, undo); uerr != nil {
				logger.WithContract(c.ID).Error("Failed to revert custody after contract save failure", "error", uerr)
			}
		}
		return err
	}
	return nil
}

// restoreChanges describes the current custody of units, used to undo a
// transition.
func restoreChanges(units []domain.Equipment) []domain.CustodyChange {
	undo := make([]domain.CustodyChange, len(units))
	for i, u := range units {
		undo[i] = domain.CustodyChange{
			ID:           u.ID,
			NewStatus:    u.Status,
			ContractID:   u.ContractID,
			HolderName:   u.CurrentHolder,
			MovementDate: u.LastMovementDate,
		}
	}
	return undo
}

// recordLedger appends the display ledger entry for a finalize or extension.
// The contract change is already committed, so a failure is only logged.
func (s *contractService) recordLedger(ctx context.Context, c *domain.Contract, itemCount int, amount int64, notes string) {
	charge := utils.CalculateCharge(amount)
	tx := &domain.Transaction{
		ContractID: c.ID,
		Date:       s.today(),
		PartyName:  c.PartyName,
		Direction:  c.Direction,
		ItemCount:  itemCount,
		Amount:     charge.Amount,
		Tax:        charge.Tax,
		NetAmount:  charge.NetAmount,
		Manager:    c.Manager,
		Notes:      notes,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		logger.WithContract(c.ID).Error("Failed to record ledger transaction", "error", err)
	}
}

func (s *contractService) recordMovements(ctx context.Context, c *domain.Contract, units []domain.Equipment, dir domain.Direction) {
	if len(units) == 0 {
		return
	}
	date := s.today()
	moves := make([]domain.Movement, len(units))
	for i, u := range units {
		moves[i] = domain.Movement{
			EquipmentID: u.ID,
			Date:        date,
			ContractID:  c.ID,
			Direction:   dir,
			PartyName:   c.PartyName,
			Manager:     c.Manager,
		}
	}
	if err := s.movementRepo.Append(ctx, moves); err != nil {
		logger.WithContract(c.ID).Error("Failed to record movements", "error", err)
	}
}

func validateParty(p *domain.PartyInfo) error {
	p.PartyName = strings.TrimSpace(p.PartyName)
	switch {
	case p.PartyName == "":
		return fmt.Errorf("%w: party name is required", domain.ErrValidation)
	case !p.PartyType.Valid():
		return fmt.Errorf("%w: unknown party type %q", domain.ErrValidation, p.PartyType)
	case !p.Direction.Valid():
		return fmt.Errorf("%w: unknown direction %q", domain.ErrValidation, p.Direction)
	case p.PartyType == domain.PartyTypeCustomer && strings.TrimSpace(p.ProjectName) == "":
		return fmt.Errorf("%w: project name is required for a customer", domain.ErrValidation)
	case p.PartyType == domain.PartyTypeVendor && p.Direction == domain.DirectionIn &&
		(strings.TrimSpace(p.AssignedCustomer) == "" || strings.TrimSpace(p.AssignedProject) == ""):
		return fmt.Errorf("%w: inbound vendor gear needs an assigned customer and project", domain.ErrValidation)
	case p.Duration < 0:
		return fmt.Errorf("%w: duration cannot be negative", domain.ErrValidation)
	}
	if p.StartDate != "" {
		if _, err := time.Parse(domain.DateLayout, p.StartDate); err != nil {
			return fmt.Errorf("%w: start date %q is not yyyy-mm-dd", domain.ErrValidation, p.StartDate)
		}
	}
	return nil
}

func validateItems(items []domain.QuotationItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.EquipmentID == "" {
			return fmt.Errorf("%w: item without equipment id", domain.ErrValidation)
		}
		if seen[it.EquipmentID] {
			return fmt.Errorf("%w: unit %s is listed twice", domain.ErrValidation, it.EquipmentID)
		}
		seen[it.EquipmentID] = true
		if it.Price < 0 {
			return fmt.Errorf("%w: unit %s has a negative price", domain.ErrValidation, it.EquipmentID)
		}
		if it.Price > domain.MaxAmount {
			return fmt.Errorf("%w: unit %s price exceeds %d", domain.ErrValidation, it.EquipmentID, domain.MaxAmount)
		}
	}
	return nil
}

func checkReconciles(items []domain.QuotationItem, total int64) error {
	if total < 0 {
		return fmt.Errorf("%w: total cannot be negative", domain.ErrValidation)
	}
	if total > domain.MaxAmount {
		return fmt.Errorf("%w: total exceeds %d", domain.ErrValidation, domain.MaxAmount)
	}
	if !utils.Reconciles(items, total) {
		return fmt.Errorf("%w: items add up to %d, total is %d", domain.ErrReconciliation, utils.SumItemPrices(items), total)
	}
	return nil
}

func copyItems(items []domain.QuotationItem) []domain.QuotationItem {
	return append([]domain.QuotationItem(nil), items...)
}
