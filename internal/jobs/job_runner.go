package jobs

import (
	"sync"

	"vkolc-backend/internal/config"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config

	mu        sync.Mutex
	overdue   []OverdueEntry
	snapshots []UtilizationSnapshot
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Dashboard service.DashboardService
	Inventory service.InventoryService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReportOverdueContracts()
	jr.SnapshotUtilization()
}
