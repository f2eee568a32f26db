package seed

import (
	"time"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/utils"

	"github.com/google/uuid"
)

// DefaultWarehouse is the holder of every unit no contract holds.
const DefaultWarehouse = "Main Warehouse"

// DefaultModels is the demo fleet.
var DefaultModels = []ModelSpec{
	{BaseID: "CAM-LF", Name: "Alexa LF", Category: domain.CategoryCameras, Count: 12, Price: 50000, StartCode: 2922},
	{BaseID: "CAM-MINI", Name: "Alexa Mini", Category: domain.CategoryCameras, Count: 18, Price: 45000, StartCode: 22999},
	{BaseID: "CAM-RED", Name: "RED V-Raptor", Category: domain.CategoryCameras, Count: 8, Price: 35000, StartCode: 1001},
	{BaseID: "LNS-CK7", Name: "Cooke 7i Prime Set", Category: domain.CategoryLenses, Count: 24, Price: 15000, StartCode: 7050},
	{BaseID: "LNS-AR", Name: "Arri Signature Prime", Category: domain.CategoryLenses, Count: 15, Price: 18000, StartCode: 4000},
	{BaseID: "ZM-AG", Name: "Angenieux Optimo", Category: domain.CategoryZooms, Count: 6, Price: 25000, StartCode: 240},
	{BaseID: "ACC-TR", Name: "Teradek Bolt 3000", Category: domain.CategoryAccessories, Count: 32, Price: 5000, StartCode: 3000},
	{BaseID: "ACC-WL", Name: "Wireless Follow Focus", Category: domain.CategoryAccessories, Count: 20, Price: 4500, StartCode: 500},
}

var DefaultTemplates = []domain.GearTemplate{
	{Name: "R K Films", Models: []string{"Alexa LF", "Cooke 7i Prime Set", "Teradek Bolt 3000"}},
	{Name: "Rain forest( Dop Balreddy)", Models: []string{"Alexa Mini", "Angenieux Optimo", "Wireless Follow Focus"}},
	{Name: "HAMPI PICTURES", Models: []string{"RED V-Raptor", "Arri Signature Prime", "Teradek Bolt 3000"}},
	{Name: "HOMBALLE FILMS- KANTARA 2", Models: []string{
		"Alexa LF", "Alexa Mini", "Cooke 7i Prime Set", "Arri Signature Prime",
		"Angenieux Optimo", "Teradek Bolt 3000", "Wireless Follow Focus",
	}},
}

// Default returns the demo dataset: the default fleet with two ongoing, one
// pending and two closed contracts and their ledger entries.
func Default() *Data {
	d, err := Build(File{
		Warehouse:     DefaultWarehouse,
		StockDate:     defaultStockDate,
		Models:        DefaultModels,
		Templates:     DefaultTemplates,
		DemoContracts: true,
	})
	if err != nil {
		// The built-in data is fixed; failing here is a programming error.
		panic(err)
	}
	return d
}

type demoContract struct {
	contract domain.Contract
	units    []*domain.Equipment
	outward  bool
}

// attachDemoContracts lays the demo contracts over freshly generated units.
// Within each model, every fifth unit is out with the ongoing customer
// contract and every eighth remaining one with the ongoing vendor contract.
func attachDemoContracts(d *Data) {
	rishi := &demoContract{outward: true, contract: domain.Contract{
		ID: "CON-001", PartyName: "Rishi Productions", PartyType: domain.PartyTypeCustomer, Direction: domain.DirectionOut,
		StartDate: "2023-10-15", Duration: 45, Status: domain.ContractStatusOngoing, TotalAmount: 425000,
		Manager: "Ravi", ProjectName: "Phase 1 Production",
	}}
	mumbai := &demoContract{outward: true, contract: domain.Contract{
		ID: "CON-002", PartyName: "Mumbai Light House", PartyType: domain.PartyTypeVendor, Direction: domain.DirectionIn,
		StartDate: "2024-11-01", Duration: 45, Status: domain.ContractStatusOngoing, TotalAmount: 185000,
		Manager: "Prasad", AssignedCustomer: "Rishi Productions", AssignedProject: "Wedding Season",
	}}
	lotus := &demoContract{contract: domain.Contract{
		ID: "CON-004", PartyName: "Lotus Films", PartyType: domain.PartyTypeCustomer, Direction: domain.DirectionOut,
		StartDate: "2024-11-10", Duration: 45, Status: domain.ContractStatusQuotationPending, TotalAmount: 880000,
		Manager: "Shekar", ProjectName: "Lotus Feature",
	}}
	suresh := &demoContract{contract: domain.Contract{
		ID: "CON-005", PartyName: "Suresh Arts", PartyType: domain.PartyTypeCustomer, Direction: domain.DirectionOut,
		StartDate: "2023-05-20", Duration: 30, Status: domain.ContractStatusClosed, TotalAmount: 320000,
		Manager: "Ravi", ProjectName: "Suresh Arts Ad Film",
	}}
	venkata := &demoContract{contract: domain.Contract{
		ID: "CON-006", PartyName: "Venkata Rentals", PartyType: domain.PartyTypeVendor, Direction: domain.DirectionIn,
		StartDate: "2023-08-12", Duration: 15, Status: domain.ContractStatusClosed, TotalAmount: 95000,
		Manager: "Prasad", AssignedCustomer: "Suresh Arts", AssignedProject: "Suresh Arts Ad Film",
	}}

	modelPos := map[string]int{}
	index := map[string]int{}
	for i := range d.Equipment {
		u := &d.Equipment[i]
		if _, ok := modelPos[u.Name]; !ok {
			modelPos[u.Name] = len(modelPos)
		}
		n := index[u.Name]
		index[u.Name]++

		switch {
		case n%5 == 0:
			rishi.units = append(rishi.units, u)
		case n%8 == 0:
			mumbai.units = append(mumbai.units, u)
		case n == 1:
			lotus.units = append(lotus.units, u)
		case n == 2 && modelPos[u.Name]%2 == 0:
			suresh.units = append(suresh.units, u)
		case n == 3 && modelPos[u.Name]%2 == 1:
			venkata.units = append(venkata.units, u)
		}
	}

	quoted := map[string]struct {
		edits  int
		status domain.QuotationStatus
		at     string
	}{
		"CON-001": {1, domain.QuotationStatusApproved, "2023-10-15"},
		"CON-002": {1, domain.QuotationStatusApproved, "2024-11-01"},
		"CON-004": {1, domain.QuotationStatusSubmitted, "2024-11-10"},
		"CON-005": {3, domain.QuotationStatusApproved, "2023-05-20"},
		"CON-006": {0, domain.QuotationStatusApproved, "2023-08-12"},
	}
	closedAt := map[string]string{"CON-005": "2023-06-20", "CON-006": "2023-08-27"}

	for _, dc := range []*demoContract{rishi, mumbai, lotus, suresh, venkata} {
		c := dc.contract
		base := make([]int64, len(dc.units))
		items := make([]domain.QuotationItem, len(dc.units))
		for i, u := range dc.units {
			base[i] = u.Price
			items[i] = domain.QuotationItem{EquipmentID: u.ID, Price: u.Price}
		}
		q := quoted[c.ID]
		c.Quotations = []domain.Quotation{{
			Version:     1,
			EditCount:   q.edits,
			TotalAmount: c.TotalAmount,
			Items:       utils.RedistributeItems(items, base, c.TotalAmount),
			Status:      q.status,
			SubmittedAt: mustDate(q.at),
		}}

		if day, ok := closedAt[c.ID]; ok {
			t := mustDate(day)
			c.ClosedAt = &t
			for _, u := range dc.units {
				d.Movements = append(d.Movements, movement(u.ID, &c, c.StartDate, domain.DirectionOut),
					movement(u.ID, &c, day, domain.DirectionIn))
			}
		}

		if dc.outward {
			for _, u := range dc.units {
				u.Status = domain.OutwardStatusFor(c.PartyType)
				u.ContractID = c.ID
				u.CurrentHolder = c.PartyName
				u.LastMovementDate = c.StartDate
				d.Movements = append(d.Movements, movement(u.ID, &c, c.StartDate, domain.DirectionOut))
			}
		}
		d.Contracts = append(d.Contracts, c)
	}

	d.Transactions = []domain.Transaction{
		{ID: "TRX-1001", ContractID: "CON-001", Date: "2023-10-15", PartyName: "Rishi Productions", Direction: domain.DirectionOut,
			ItemCount: 12, Amount: 85000, Tax: 15300, NetAmount: 100300, Manager: "Ravi", Notes: "Phase 1 Production Gear"},
		{ID: "TRX-1002", ContractID: "CON-002", Date: "2024-11-01", PartyName: "Mumbai Light House", Direction: domain.DirectionIn,
			ItemCount: 8, Amount: 60000, Tax: 10800, NetAmount: 70800, Manager: "Prasad", Notes: "Backfill for Wedding Season"},
	}
}

func movement(unitID string, c *domain.Contract, date string, dir domain.Direction) domain.Movement {
	return domain.Movement{
		ID:          uuid.NewString(),
		EquipmentID: unitID,
		Date:        date,
		ContractID:  c.ID,
		Direction:   dir,
		PartyName:   c.PartyName,
		Manager:     c.Manager,
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
