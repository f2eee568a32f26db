package domain

// DashboardSummary holds the back-office KPIs.
type DashboardSummary struct {
	ActiveContracts    int        `json:"active_contracts"`
	PendingContracts   int        `json:"pending_contracts"`
	OverdueContracts   int        `json:"overdue_contracts"`
	InFieldUnits       int        `json:"in_field_units"`
	TotalUnits         int        `json:"total_units"`
	UtilizationPercent float64    `json:"utilization_percent"`
	OngoingValue       int64      `json:"ongoing_value"`
	Overdue            []Contract `json:"overdue,omitempty"`
}
