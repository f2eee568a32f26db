package memory

import (
	"context"
	"testing"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUnits() []domain.Equipment {
	return seed.GenerateUnits(seed.ModelSpec{
		BaseID: "CAM-LF", Name: "Alexa LF", Category: domain.CategoryCameras, Count: 3, Price: 50000, StartCode: 2922,
	}, seed.DefaultWarehouse, "2023-11-15")
}

func outward(id, contractID string) domain.CustodyChange {
	return domain.CustodyChange{
		ID:           id,
		NewStatus:    domain.EquipmentStatusOutwardToCustomer,
		ContractID:   contractID,
		HolderName:   "Lotus Films",
		MovementDate: "2024-11-10",
	}
}

func TestEquipmentRepository_ApplyCustodyTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := NewEquipmentRepository(testUnits())
		updated, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{outward("CAM-LF-1", "CON-004")})
		require.NoError(t, err)
		require.Len(t, updated, 1)

		u, err := repo.GetByID(ctx, "CAM-LF-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusOutwardToCustomer, u.Status)
		assert.Equal(t, "CON-004", u.ContractID)
		assert.Equal(t, "Lotus Films", u.CurrentHolder)
		assert.Equal(t, "2024-11-10", u.LastMovementDate)
	})

	t.Run("All or nothing", func(t *testing.T) {
		repo := NewEquipmentRepository(testUnits())
		_, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{
			outward("CAM-LF-1", "CON-004"),
			outward("CAM-LF-9", "CON-004"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		u, err := repo.GetByID(ctx, "CAM-LF-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusAvailable, u.Status)
	})

	t.Run("Double allocation", func(t *testing.T) {
		repo := NewEquipmentRepository(testUnits())
		_, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{outward("CAM-LF-2", "CON-001")})
		require.NoError(t, err)

		_, err = repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{outward("CAM-LF-2", "CON-004")})
		assert.ErrorIs(t, err, domain.ErrAvailability)

		u, _ := repo.GetByID(ctx, "CAM-LF-2")
		assert.Equal(t, "CON-001", u.ContractID)
	})

	t.Run("Duplicate id in batch", func(t *testing.T) {
		repo := NewEquipmentRepository(testUnits())
		_, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{
			outward("CAM-LF-1", "CON-004"),
			outward("CAM-LF-1", "CON-004"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Inconsistent pair", func(t *testing.T) {
		repo := NewEquipmentRepository(testUnits())
		_, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{outward("CAM-LF-1", domain.NoContract)})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{{
			ID: "CAM-LF-1", NewStatus: domain.EquipmentStatusAvailable, ContractID: "CON-004", MovementDate: "2024-11-10",
		}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Return to warehouse", func(t *testing.T) {
		repo := NewEquipmentRepository(testUnits())
		_, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{outward("CAM-LF-3", "CON-004")})
		require.NoError(t, err)

		_, err = repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{{
			ID: "CAM-LF-3", NewStatus: domain.EquipmentStatusAvailable, ContractID: domain.NoContract,
			HolderName: seed.DefaultWarehouse, MovementDate: "2024-12-01",
		}})
		require.NoError(t, err)

		units, err := repo.ListByContract(ctx, "CON-004")
		require.NoError(t, err)
		assert.Empty(t, units)
	})
}

func TestEquipmentRepository_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewEquipmentRepository(testUnits())

	u, err := repo.GetByID(ctx, "CAM-LF-1")
	require.NoError(t, err)
	u.Status = domain.EquipmentStatusLost

	again, _ := repo.GetByID(ctx, "CAM-LF-1")
	assert.Equal(t, domain.EquipmentStatusAvailable, again.Status)

	_, err = repo.GetByID(ctx, "CAM-LF-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEquipmentRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewEquipmentRepository(seed.Default().Equipment)

	all, err := repo.List(ctx, domain.EquipmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 135)

	lenses, err := repo.ListAvailable(ctx, domain.CategoryLenses)
	require.NoError(t, err)
	for _, u := range lenses {
		assert.Equal(t, domain.CategoryLenses, u.Category)
		assert.Equal(t, domain.EquipmentStatusAvailable, u.Status)
	}

	found, err := repo.List(ctx, domain.EquipmentFilter{Query: "alexa-lf-2922"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CAM-LF-1", found[0].ID)
}

func TestEquipmentRepository_UpdateModelPrice(t *testing.T) {
	ctx := context.Background()
	repo := NewEquipmentRepository(testUnits())
	_, err := repo.ApplyCustodyTransition(ctx, []domain.CustodyChange{outward("CAM-LF-1", "CON-004")})
	require.NoError(t, err)

	n, err := repo.UpdateModelPrice(ctx, "Alexa LF", 55000)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	u, _ := repo.GetByID(ctx, "CAM-LF-1")
	assert.Equal(t, int64(55000), u.Price)
	assert.Equal(t, "CON-004", u.ContractID)

	_, err = repo.UpdateModelPrice(ctx, "Alexa 65", 1000)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.UpdateModelPrice(ctx, "Alexa LF", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestContractRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContractRepository(seed.Default().Contracts)

	t.Run("Create assigns next id", func(t *testing.T) {
		c := &domain.Contract{PartyName: "Annapurna Studios", PartyType: domain.PartyTypeCustomer, Status: domain.ContractStatusQuotationPending}
		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, "CON-007", c.ID)

		list, err := repo.List(ctx, domain.ContractFilter{})
		require.NoError(t, err)
		assert.Equal(t, "CON-007", list[0].ID)
	})

	t.Run("Stored record does not alias caller", func(t *testing.T) {
		c, err := repo.GetByID(ctx, "CON-001")
		require.NoError(t, err)
		c.Quotations[0].Items[0].Price = 1

		again, _ := repo.GetByID(ctx, "CON-001")
		assert.NotEqual(t, int64(1), again.Quotations[0].Items[0].Price)
	})

	t.Run("Filter", func(t *testing.T) {
		closed, err := repo.List(ctx, domain.ContractFilter{Status: domain.ContractStatusClosed})
		require.NoError(t, err)
		assert.Len(t, closed, 2)

		vendors, err := repo.List(ctx, domain.ContractFilter{PartyType: domain.PartyTypeVendor, Query: "mumbai"})
		require.NoError(t, err)
		require.Len(t, vendors, 1)
		assert.Equal(t, "CON-002", vendors[0].ID)
	})

	t.Run("Update unknown", func(t *testing.T) {
		err := repo.Update(ctx, &domain.Contract{ID: "CON-404"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(seed.Default().Transactions)

	tx := &domain.Transaction{ContractID: "CON-004", PartyName: "Lotus Films", Amount: 880000}
	require.NoError(t, repo.Create(ctx, tx))
	assert.Equal(t, "TRX-1003", tx.ID)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "TRX-1003", all[0].ID)

	lotus, err := repo.List(ctx, "lotus")
	require.NoError(t, err)
	assert.Len(t, lotus, 1)

	empty := NewTransactionRepository(nil)
	first := &domain.Transaction{ContractID: "CON-001"}
	require.NoError(t, empty.Create(ctx, first))
	assert.Equal(t, "TRX-1001", first.ID)
}

func TestMovementRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMovementRepository(nil)

	require.NoError(t, repo.Append(ctx, []domain.Movement{
		{EquipmentID: "CAM-LF-1", Date: "2024-11-10", Direction: domain.DirectionOut},
		{EquipmentID: "CAM-LF-1", Date: "2024-12-01", Direction: domain.DirectionIn},
	}))

	hist, err := repo.ListByEquipment(ctx, "CAM-LF-1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, domain.DirectionIn, hist[0].Direction)
	assert.NotEmpty(t, hist[0].ID)

	none, err := repo.ListByEquipment(ctx, "CAM-LF-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTemplateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTemplateRepository(seed.DefaultTemplates)

	tpl, err := repo.GetByName(ctx, "R K Films")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alexa LF", "Cooke 7i Prime Set", "Teradek Bolt 3000"}, tpl.Models)

	_, err = repo.GetByName(ctx, "Unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
