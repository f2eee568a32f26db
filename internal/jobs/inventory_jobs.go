package jobs

import (
	"context"
	"time"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
)

// maxSnapshots is how many utilization snapshots are kept in memory.
const maxSnapshots = 168

// UtilizationSnapshot records fleet usage at one point in time.
type UtilizationSnapshot struct {
	TakenAt            time.Time
	TotalUnits         int
	InFieldUnits       int
	UtilizationPercent float64
	ByCategory         map[domain.EquipmentCategory]int
}

// SnapshotUtilization records how much of the fleet is out with parties,
// overall and per category.
func (jr *JobRunner) SnapshotUtilization() {
	jr.runWithRecovery("SnapshotUtilization", func() {
		ctx := context.Background()

		summary, err := jr.services.Dashboard.GetSummary(ctx)
		if err != nil {
			logger.Error("Failed to load dashboard summary", "error", err)
			return
		}
		models, err := jr.services.Inventory.ListModelSummaries(ctx)
		if err != nil {
			logger.Error("Failed to load model summaries", "error", err)
			return
		}

		snap := UtilizationSnapshot{
			TakenAt:            time.Now().UTC(),
			TotalUnits:         summary.TotalUnits,
			InFieldUnits:       summary.InFieldUnits,
			UtilizationPercent: summary.UtilizationPercent,
			ByCategory:         make(map[domain.EquipmentCategory]int),
		}
		for _, m := range models {
			snap.ByCategory[m.Category] += m.OutwardUnits
		}

		jr.mu.Lock()
		jr.snapshots = append(jr.snapshots, snap)
		if len(jr.snapshots) > maxSnapshots {
			jr.snapshots = jr.snapshots[len(jr.snapshots)-maxSnapshots:]
		}
		jr.mu.Unlock()

		logger.Info("Utilization snapshot",
			"in_field", snap.InFieldUnits,
			"total", snap.TotalUnits,
			"utilization_percent", snap.UtilizationPercent)
	})
}

// Snapshots returns the retained snapshots, oldest first.
func (jr *JobRunner) Snapshots() []UtilizationSnapshot {
	jr.mu.Lock()
	defer jr.mu.Unlock()
	return append([]UtilizationSnapshot(nil), jr.snapshots...)
}
