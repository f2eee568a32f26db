package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vkolc-backend/internal/config"
	"vkolc-backend/internal/jobs"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/report"
	"vkolc-backend/internal/repository/memory"
	"vkolc-backend/internal/scheduler"
	"vkolc-backend/internal/seed"
	"vkolc-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('report-overdue', 'snapshot-utilization', 'all')")
	exportPath := flag.String("export-ledger", "", "Write the ledger of the loaded dataset to this xlsx file and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting VKOLC Cronjob Runner...", "log_level", cfg.Log.Level)

	// Load the dataset the jobs run against
	data := seed.Default()
	if cfg.Seed.Path != "" {
		data, err = seed.LoadFile(cfg.Seed.Path)
		if err != nil {
			log.Fatalf("Failed to load seed data: %v", err)
		}
	}
	store := memory.NewStore(data)

	if *exportPath != "" {
		exportLedger(store, *exportPath)
		return
	}

	// Initialize Services
	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Dashboard: service.NewDashboardService(store.EquipmentRepository, store.ContractRepository, nil),
		Inventory: service.NewInventoryService(store.EquipmentRepository, store.MovementRepository, store.TemplateRepository),
	}, cfg)

	// Run once mode
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		switch *runOnce {
		case "report-overdue":
			jobRunner.ReportOverdueContracts()
		case "snapshot-utilization":
			jobRunner.SnapshotUtilization()
		case "all":
			jobRunner.RunAll()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Job completed", "job", *runOnce)
		return
	}

	// Scheduler mode
	sched, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	sched.Start()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	sched.Stop()
}

func exportLedger(store *memory.Store, path string) {
	txs, err := service.NewLedgerService(store.TransactionRepository).ListTransactions(context.Background(), "")
	if err != nil {
		log.Fatalf("Failed to list transactions: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := report.WriteLedger(f, txs); err != nil {
		log.Fatalf("Failed to write ledger: %v", err)
	}
	logger.Info("Ledger exported", "path", path, "transactions", len(txs))
}
