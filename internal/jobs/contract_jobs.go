package jobs

import (
	"context"
	"time"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/utils"
)

// OverdueEntry is one line of the overdue contract report.
type OverdueEntry struct {
	ContractID  string
	PartyName   string
	Manager     string
	DaysElapsed int
	Duration    int
	TotalAmount int64
}

// ReportOverdueContracts logs every ongoing contract that has run past its
// tenure. Nothing is changed; ending a contract stays a manual decision.
func (jr *JobRunner) ReportOverdueContracts() {
	jr.runWithRecovery("ReportOverdueContracts", func() {
		ctx := context.Background()

		contracts, err := jr.services.Dashboard.ListOverdue(ctx)
		if err != nil {
			logger.Error("Failed to list overdue contracts", "error", err)
			return
		}

		now := time.Now()
		report := make([]OverdueEntry, 0, len(contracts))
		for _, c := range contracts {
			entry := OverdueEntry{
				ContractID:  c.ID,
				PartyName:   c.PartyName,
				Manager:     c.Manager,
				Duration:    c.EffectiveDuration(),
				TotalAmount: c.TotalAmount,
			}
			if start, err := time.ParseInLocation(domain.DateLayout, c.StartDate, now.Location()); err == nil {
				entry.DaysElapsed = domain.DaysElapsed(start, now)
			}
			report = append(report, entry)

			logger.WithContract(c.ID).Warn("Contract overdue",
				"party", c.PartyName,
				"manager", c.Manager,
				"days_elapsed", entry.DaysElapsed,
				"duration", entry.Duration,
				"value", utils.FormatCurrency(c.TotalAmount))
		}

		jr.mu.Lock()
		jr.overdue = report
		jr.mu.Unlock()

		logger.Info("Overdue contract report", "count", len(report))
	})
}

// LastOverdueReport returns the result of the most recent report run.
func (jr *JobRunner) LastOverdueReport() []OverdueEntry {
	jr.mu.Lock()
	defer jr.mu.Unlock()
	return append([]OverdueEntry(nil), jr.overdue...)
}
