package domain

import (
	"strings"
	"time"
)

type PartyType string

const (
	PartyTypeCustomer PartyType = "Customer"
	PartyTypeVendor   PartyType = "Vendor"
)

func (p PartyType) Valid() bool {
	return p == PartyTypeCustomer || p == PartyTypeVendor
}

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

type ContractStatus string

const (
	ContractStatusQuotationPending ContractStatus = "Quotation Pending"
	ContractStatusOngoing          ContractStatus = "Ongoing"
	ContractStatusClosed           ContractStatus = "Closed"
)

type QuotationStatus string

const (
	QuotationStatusDraft      QuotationStatus = "Draft"
	QuotationStatusSubmitted  QuotationStatus = "Submitted"
	QuotationStatusApproved   QuotationStatus = "Approved"
	QuotationStatusRejected   QuotationStatus = "Rejected"
	QuotationStatusSuperseded QuotationStatus = "Superseded"
)

const (
	// MaxQuotationEdits bounds the revisions saved against one quotation version.
	MaxQuotationEdits = 3
	// DefaultDurationDays is the tenure used when a contract carries none.
	DefaultDurationDays = 45
	// DateLayout is the calendar date format used for contract and movement dates.
	DateLayout = "2006-01-02"
	// MaxAmount caps any single price or contract total, in rupees. Sums of
	// capped values stay far inside int64.
	MaxAmount int64 = 1_000_000_000_000
)

// Transition names one engine operation on a contract.
type Transition string

const (
	TransitionRevise   Transition = "revise"
	TransitionFinalize Transition = "finalize"
	TransitionExtend   Transition = "extend"
	TransitionEnd      Transition = "end"
)

type QuotationItem struct {
	EquipmentID string `json:"equipment_id"`
	Price       int64  `json:"price"`
}

type Quotation struct {
	Version     int             `json:"version"`
	EditCount   int             `json:"edit_count"`
	TotalAmount int64           `json:"total_amount"`
	Items       []QuotationItem `json:"items"`
	Status      QuotationStatus `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// RemainingEdits is how many more revisions may be saved before only
// finalization is allowed.
func (q Quotation) RemainingEdits() int {
	if q.EditCount >= MaxQuotationEdits {
		return 0
	}
	return MaxQuotationEdits - q.EditCount
}

// PartyInfo is the counterpart data collected by the new contract wizard.
type PartyInfo struct {
	PartyName        string    `json:"party_name"`
	PartyType        PartyType `json:"party_type"`
	Direction        Direction `json:"direction"`
	StartDate        string    `json:"start_date,omitempty"`
	Duration         int       `json:"duration,omitempty"`
	Manager          string    `json:"manager,omitempty"`
	ProjectName      string    `json:"project_name,omitempty"`
	AssignedCustomer string    `json:"assigned_customer,omitempty"`
	AssignedProject  string    `json:"assigned_project,omitempty"`
	BillTo           string    `json:"bill_to,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

type Contract struct {
	ID               string         `json:"id"`
	PartyName        string         `json:"party_name"`
	PartyType        PartyType      `json:"party_type"`
	Direction        Direction      `json:"direction"`
	StartDate        string         `json:"start_date"`
	Duration         int            `json:"duration"`
	Status           ContractStatus `json:"status"`
	TotalAmount      int64          `json:"total_amount"`
	Manager          string         `json:"manager"`
	ProjectName      string         `json:"project_name,omitempty"`
	AssignedCustomer string         `json:"assigned_customer,omitempty"`
	AssignedProject  string         `json:"assigned_project,omitempty"`
	BillTo           string         `json:"bill_to,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	Quotations       []Quotation    `json:"quotations"`
	ClosedAt         *time.Time     `json:"closed_at,omitempty"`
}

// LatestQuotation returns the authoritative quotation: highest version, and
// among equal versions the most recently submitted one.
func (c *Contract) LatestQuotation() *Quotation {
	var latest *Quotation
	for i := range c.Quotations {
		q := &c.Quotations[i]
		if latest == nil ||
			q.Version > latest.Version ||
			(q.Version == latest.Version && q.SubmittedAt.After(latest.SubmittedAt)) {
			latest = q
		}
	}
	return latest
}

// CanTransition is the single place where the legality of a contract state
// transition is decided.
func (c *Contract) CanTransition(t Transition) bool {
	switch t {
	case TransitionRevise, TransitionFinalize:
		return c.Status == ContractStatusQuotationPending
	case TransitionExtend:
		return c.Status == ContractStatusOngoing
	case TransitionEnd:
		return c.Status == ContractStatusQuotationPending || c.Status == ContractStatusOngoing
	}
	return false
}

// EffectiveDuration returns the tenure in days, falling back to the default.
func (c *Contract) EffectiveDuration() int {
	if c.Duration <= 0 {
		return DefaultDurationDays
	}
	return c.Duration
}

// Clone returns a deep copy so stored records never alias caller memory.
func (c *Contract) Clone() *Contract {
	cp := *c
	cp.Quotations = make([]Quotation, len(c.Quotations))
	for i, q := range c.Quotations {
		q.Items = append([]QuotationItem(nil), q.Items...)
		cp.Quotations[i] = q
	}
	if c.ClosedAt != nil {
		t := *c.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}

// Matches reports whether id or party name contains query, case-insensitively.
func (c *Contract) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.ID), q) || strings.Contains(strings.ToLower(c.PartyName), q)
}

type ContractFilter struct {
	Status    ContractStatus
	PartyType PartyType
	Query     string
}

// DaysElapsed is the number of started days between start and now, never
// negative.
func DaysElapsed(start, now time.Time) int {
	d := now.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// IsOverdue reports whether an ongoing contract has run past its tenure.
// Contracts with an unparsable start date are never overdue.
func IsOverdue(c *Contract, now time.Time) bool {
	if c.Status != ContractStatusOngoing {
		return false
	}
	start, err := time.ParseInLocation(DateLayout, c.StartDate, now.Location())
	if err != nil {
		return false
	}
	return DaysElapsed(start, now) > c.EffectiveDuration()
}

// ContractDetail is a contract together with the units it currently holds.
type ContractDetail struct {
	Contract *Contract   `json:"contract"`
	Units    []Equipment `json:"units"`
	Overdue  bool        `json:"overdue"`
}
