package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "courtledger-backend/internal/api/http"
	"courtledger-backend/internal/config"
	"courtledger-backend/internal/directory"
	fsrepo "courtledger-backend/internal/repository/firestore"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/service"
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
	logger.Info("Starting Court Ledger Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Firestore configuration", "project_id", cfg.Firestore.ProjectID)

	ctx := context.Background()

	// Initialize Document Store
	store, err := fsrepo.NewStore(ctx, fsrepo.Config{
		ProjectID:       cfg.Firestore.ProjectID,
		CredentialsFile: cfg.Firestore.CredentialsFile,
		OpTimeout:       cfg.OpTimeout(),
	})
	if err != nil {
		logger.Error("Failed to connect to firestore", "error", err)
		log.Fatalf("Failed to connect to firestore: %v", err)
	}
	defer store.Close()
	logger.Info("Firestore connection established")

	// Initialize User Directory (live snapshot of the users collection)
	dir := directory.New(store.UserRepository)
	if err := dir.Subscribe(ctx); err != nil {
		logger.Error("Failed to subscribe to user updates", "error", err)
		log.Fatalf("Failed to subscribe to user updates: %v", err)
	}
	defer dir.Teardown()
	logger.Info("User directory subscription established")

	// Initialize Services
	userService := service.NewUserService(store.UserRepository)
	ledgerService := service.NewLedgerService(store.LedgerRepository, store.UserRepository, dir)
	logService := service.NewTransactionLogService(store.LedgerRepository)
	settlementService := service.NewSettlementService(
		store.LedgerRepository,
		store.SettlementRepository,
		cfg.Settlement.BasePriceCents,
		cfg.Settlement.MinimumPriceCents,
	)

	// Initialize HTTP API
	handler := httpapi.NewHandler(userService, ledgerService, logService, settlementService, dir)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	dir.Teardown()
	logger.Info("Server stopped. Goodbye!")
}
