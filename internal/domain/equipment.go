package domain

import "strings"

type EquipmentCategory string

const (
	CategoryCameras     EquipmentCategory = "Cameras"
	CategoryLenses      EquipmentCategory = "Lenses"
	CategoryZooms       EquipmentCategory = "Zooms"
	CategoryAccessories EquipmentCategory = "Accessories"
	CategoryLights      EquipmentCategory = "Lights"
)

// Categories lists every category in display order.
var Categories = []EquipmentCategory{
	CategoryCameras,
	CategoryLenses,
	CategoryZooms,
	CategoryAccessories,
	CategoryLights,
}

func (c EquipmentCategory) Valid() bool {
	switch c {
	case CategoryCameras, CategoryLenses, CategoryZooms, CategoryAccessories, CategoryLights:
		return true
	}
	return false
}

type EquipmentStatus string

const (
	EquipmentStatusAvailable         EquipmentStatus = "Available"
	EquipmentStatusOutwardToCustomer EquipmentStatus = "Outward (Customer)"
	EquipmentStatusOutwardToVendor   EquipmentStatus = "Outward (Vendor)"
	EquipmentStatusMaintenance       EquipmentStatus = "Maintenance"
	EquipmentStatusLost              EquipmentStatus = "Lost"
)

// NoContract is the ContractID of a unit that no contract holds.
const NoContract = "N/A"

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusAvailable, EquipmentStatusOutwardToCustomer, EquipmentStatusOutwardToVendor,
		EquipmentStatusMaintenance, EquipmentStatusLost:
		return true
	}
	return false
}

// IsOutward reports whether the unit is out with a customer or a vendor.
func (s EquipmentStatus) IsOutward() bool {
	switch s {
	case EquipmentStatusOutwardToCustomer, EquipmentStatusOutwardToVendor:
		return true
	case EquipmentStatusAvailable, EquipmentStatusMaintenance, EquipmentStatusLost:
		return false
	}
	return false
}

// OutwardStatusFor returns the custody status a unit takes when it is handed
// to a party of the given type.
func OutwardStatusFor(pt PartyType) EquipmentStatus {
	switch pt {
	case PartyTypeCustomer:
		return EquipmentStatusOutwardToCustomer
	case PartyTypeVendor:
		return EquipmentStatusOutwardToVendor
	}
	return EquipmentStatusOutwardToVendor
}

// Equipment is one serialized rental unit.
type Equipment struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Code             string            `json:"code"`
	Category         EquipmentCategory `json:"category"`
	Price            int64             `json:"price"` // standard daily rate
	Status           EquipmentStatus   `json:"status"`
	ContractID       string            `json:"contract_id"`
	CurrentHolder    string            `json:"current_holder"`
	LastMovementDate string            `json:"last_movement_date"`
}

// CustodyConsistent checks the status/contract pairing of a single unit.
func (e Equipment) CustodyConsistent() bool {
	if e.Status == EquipmentStatusAvailable {
		return e.ContractID == NoContract
	}
	if e.Status.IsOutward() {
		return e.ContractID != "" && e.ContractID != NoContract
	}
	return true
}

// Matches reports whether the unit's model name or code contains query,
// case-insensitively. An empty query matches everything.
func (e Equipment) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Code), q)
}

// CustodyChange is one entry of a bulk custody transition.
type CustodyChange struct {
	ID           string          `json:"id"`
	NewStatus    EquipmentStatus `json:"new_status"`
	ContractID   string          `json:"contract_id"`
	HolderName   string          `json:"holder_name"`
	MovementDate string          `json:"movement_date"`
}

type EquipmentFilter struct {
	Category EquipmentCategory
	Status   EquipmentStatus
	Query    string
}

// ModelSummary groups the units of one model.
type ModelSummary struct {
	Name           string            `json:"name"`
	Category       EquipmentCategory `json:"category"`
	Price          int64             `json:"price"`
	TotalUnits     int               `json:"total_units"`
	AvailableUnits int               `json:"available_units"`
	OutwardUnits   int               `json:"outward_units"`
	Units          []Equipment       `json:"units,omitempty"`
}

// UtilizationRatio is the share of units currently out with a party.
func UtilizationRatio(inventory []Equipment) float64 {
	if len(inventory) == 0 {
		return 0
	}
	out := 0
	for _, e := range inventory {
		if e.Status.IsOutward() {
			out++
		}
	}
	return float64(out) / float64(len(inventory))
}
