// Package seed builds the dataset the store starts from: the built-in demo
// inventory and contracts, or a fleet described in a YAML file.
package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vkolc-backend/internal/domain"

	"gopkg.in/yaml.v3"
)

// Data is everything the in-memory store is created from.
type Data struct {
	Equipment    []domain.Equipment
	Contracts    []domain.Contract
	Transactions []domain.Transaction
	Movements    []domain.Movement
	Templates    []domain.GearTemplate
}

// ModelSpec describes a run of identical units of one model.
type ModelSpec struct {
	BaseID    string                   `yaml:"base_id"`
	Name      string                   `yaml:"name"`
	Category  domain.EquipmentCategory `yaml:"category"`
	Count     int                      `yaml:"count"`
	Price     int64                    `yaml:"price"`
	StartCode int                      `yaml:"start_code"`
}

// File is the layout of a seed YAML file.
type File struct {
	Warehouse     string                `yaml:"warehouse"`
	StockDate     string                `yaml:"stock_date"`
	Models        []ModelSpec           `yaml:"models"`
	Templates     []domain.GearTemplate `yaml:"templates"`
	DemoContracts bool                  `yaml:"demo_contracts"`
}

const defaultStockDate = "2023-11-15"

// LoadFile reads a seed file and builds its dataset. The result is validated
// before it is returned.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return Build(f)
}

// Build expands a File into units, optional demo contracts and templates.
func Build(f File) (*Data, error) {
	if f.Warehouse == "" {
		f.Warehouse = DefaultWarehouse
	}
	if f.StockDate == "" {
		f.StockDate = defaultStockDate
	}
	if _, err := time.Parse(domain.DateLayout, f.StockDate); err != nil {
		return nil, fmt.Errorf("%w: stock_date %q", domain.ErrValidation, f.StockDate)
	}

	d := &Data{}
	for _, m := range f.Models {
		if err := checkModel(m); err != nil {
			return nil, err
		}
		d.Equipment = append(d.Equipment, GenerateUnits(m, f.Warehouse, f.StockDate)...)
	}
	for _, t := range f.Templates {
		d.Templates = append(d.Templates, domain.GearTemplate{Name: t.Name, Models: append([]string(nil), t.Models...)})
	}

	if f.DemoContracts {
		attachDemoContracts(d)
	}

	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

func checkModel(m ModelSpec) error {
	switch {
	case m.BaseID == "" || m.Name == "":
		return fmt.Errorf("%w: model needs base_id and name", domain.ErrValidation)
	case !m.Category.Valid():
		return fmt.Errorf("%w: model %s has unknown category %q", domain.ErrValidation, m.Name, m.Category)
	case m.Count <= 0:
		return fmt.Errorf("%w: model %s needs a positive count", domain.ErrValidation, m.Name)
	case m.Price <= 0 || m.Price > domain.MaxAmount:
		return fmt.Errorf("%w: model %s needs a positive price up to %d", domain.ErrValidation, m.Name, domain.MaxAmount)
	}
	return nil
}

// GenerateUnits creates Count available units. Ids are BaseID-1..n and codes
// are CAT-MODEL-NAME-<StartCode+i>.
func GenerateUnits(m ModelSpec, warehouse, stockDate string) []domain.Equipment {
	prefix := strings.ToUpper(string(m.Category))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	model := strings.ToUpper(strings.Join(strings.Fields(m.Name), "-"))

	units := make([]domain.Equipment, m.Count)
	for i := range units {
		units[i] = domain.Equipment{
			ID:               fmt.Sprintf("%s-%d", m.BaseID, i+1),
			Name:             m.Name,
			Code:             fmt.Sprintf("%s-%s-%d", prefix, model, m.StartCode+i),
			Category:         m.Category,
			Price:            m.Price,
			Status:           domain.EquipmentStatusAvailable,
			ContractID:       domain.NoContract,
			CurrentHolder:    warehouse,
			LastMovementDate: stockDate,
		}
	}
	return units
}

// Validate checks the custody invariant across the whole dataset: every
// outward unit is held by a non-closed contract whose latest quotation lists
// it, and every other unit is held by no contract.
func Validate(d *Data) error {
	contracts := make(map[string]*domain.Contract, len(d.Contracts))
	for i := range d.Contracts {
		c := &d.Contracts[i]
		if _, dup := contracts[c.ID]; dup {
			return fmt.Errorf("%w: duplicate contract %s", domain.ErrValidation, c.ID)
		}
		contracts[c.ID] = c
	}

	seen := make(map[string]bool, len(d.Equipment))
	for _, u := range d.Equipment {
		if seen[u.ID] {
			return fmt.Errorf("%w: duplicate equipment %s", domain.ErrValidation, u.ID)
		}
		seen[u.ID] = true

		if !u.Status.Valid() {
			return fmt.Errorf("%w: unit %s has unknown status %q", domain.ErrValidation, u.ID, u.Status)
		}
		if !u.CustodyConsistent() {
			return fmt.Errorf("%w: unit %s is %s but holds contract %s", domain.ErrValidation, u.ID, u.Status, u.ContractID)
		}
		if !u.Status.IsOutward() {
			continue
		}
		c, ok := contracts[u.ContractID]
		if !ok {
			return fmt.Errorf("%w: unit %s references unknown contract %s", domain.ErrValidation, u.ID, u.ContractID)
		}
		if c.Status == domain.ContractStatusClosed {
			return fmt.Errorf("%w: unit %s is held by closed contract %s", domain.ErrValidation, u.ID, c.ID)
		}
		if !listsUnit(c, u.ID) {
			return fmt.Errorf("%w: contract %s does not list unit %s", domain.ErrValidation, c.ID, u.ID)
		}
	}

	for _, c := range d.Contracts {
		q := c.LatestQuotation()
		if q == nil {
			continue
		}
		if q.EditCount > domain.MaxQuotationEdits {
			return fmt.Errorf("%w: contract %s has %d edits", domain.ErrValidation, c.ID, q.EditCount)
		}
		for _, it := range q.Items {
			if !seen[it.EquipmentID] {
				return fmt.Errorf("%w: contract %s lists unknown unit %s", domain.ErrValidation, c.ID, it.EquipmentID)
			}
		}
	}
	return nil
}

func listsUnit(c *domain.Contract, unitID string) bool {
	q := c.LatestQuotation()
	if q == nil {
		return false
	}
	for _, it := range q.Items {
		if it.EquipmentID == unitID {
			return true
		}
	}
	return false
}
