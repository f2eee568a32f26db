package domain

import "strings"

// Transaction is a ledger entry written whenever a contract is finalized or
// extended. Tax is the fixed display surcharge; no payment is processed.
type Transaction struct {
	ID         string    `json:"id"`
	ContractID string    `json:"contract_id"`
	Date       string    `json:"date"`
	PartyName  string    `json:"party_name"`
	Direction  Direction `json:"direction"`
	ItemCount  int       `json:"item_count"`
	Amount     int64     `json:"amount"`
	Tax        int64     `json:"tax"`
	NetAmount  int64     `json:"net_amount"`
	Manager    string    `json:"manager"`
	Notes      string    `json:"notes,omitempty"`
}

func (t Transaction) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.ID), q) ||
		strings.Contains(strings.ToLower(t.ContractID), q) ||
		strings.Contains(strings.ToLower(t.PartyName), q)
}

// Movement records one custody handover of a unit.
type Movement struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	Date        string    `json:"date"`
	ContractID  string    `json:"contract_id"`
	Direction   Direction `json:"direction"`
	PartyName   string    `json:"party_name"`
	Manager     string    `json:"manager"`
}

// GearTemplate is a named preset of equipment models.
type GearTemplate struct {
	Name   string   `json:"name"   yaml:"name"`
	Models []string `json:"models" yaml:"models"`
}
