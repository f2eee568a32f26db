package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "vkolc-backend/internal/api/grpc"
	httpapi "vkolc-backend/internal/api/http"
	"vkolc-backend/internal/config"
	"vkolc-backend/internal/jobs"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/repository/memory"
	"vkolc-backend/internal/scheduler"
	"vkolc-backend/internal/security"
	"vkolc-backend/internal/seed"
	"vkolc-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting VKOLC Back Office...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())

	// Load seed data
	var data *seed.Data
	if cfg.Seed.Path == "" {
		logger.Info("Using built-in demo data")
		data = seed.Default()
	} else {
		logger.Info("Loading seed file", "path", cfg.Seed.Path)
		data, err = seed.LoadFile(cfg.Seed.Path)
		if err != nil {
			logger.Error("Failed to load seed data", "error", err, "path", cfg.Seed.Path)
			log.Fatalf("Failed to load seed data: %v", err)
		}
	}
	logger.Info("Seed data loaded",
		"units", len(data.Equipment),
		"contracts", len(data.Contracts),
		"transactions", len(data.Transactions))

	// Initialize Repositories
	store := memory.NewStore(data)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Services
	authSvc, err := service.NewAuthService(cfg.Auth.Users, tokenManager)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	contractSvc := service.NewContractService(
		store.EquipmentRepository,
		store.ContractRepository,
		store.TransactionRepository,
		store.MovementRepository,
		service.EngineSettings{
			DefaultDurationDays: cfg.Contracts.DefaultDurationDays,
			WarehouseLocation:   cfg.Inventory.WarehouseLocation,
		},
	)
	inventorySvc := service.NewInventoryService(store.EquipmentRepository, store.MovementRepository, store.TemplateRepository)
	ledgerSvc := service.NewLedgerService(store.TransactionRepository)
	dashboardSvc := service.NewDashboardService(store.EquipmentRepository, store.ContractRepository, nil)

	// Set up HTTP API
	router, err := httpapi.NewRouter(httpapi.Services{
		Auth:      authSvc,
		Contracts: contractSvc,
		Inventory: inventorySvc,
		Ledger:    ledgerSvc,
		Dashboard: dashboardSvc,
	}, cfg.RateLimit.Login)
	if err != nil {
		log.Fatalf("Failed to build HTTP router: %v", err)
	}
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC health server
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	healthServer := api.NewHealthServer()

	// Set up scheduler
	jobRunner := jobs.NewJobRunner(&jobs.Services{Dashboard: dashboardSvc, Inventory: inventorySvc}, cfg)
	sched, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	sched.Start()

	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
		if err := healthServer.Server.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP API listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received shutdown signal", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	healthServer.Shutdown()
	sched.Stop()
	logger.Info("Shutdown complete")
}
