package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"courtledger-backend/internal/config"
	"courtledger-backend/internal/jobs"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/notify"
	fsrepo "courtledger-backend/internal/repository/firestore"
	"courtledger-backend/internal/scheduler"
	"courtledger-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'weekly-settlement')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Court Ledger Cronjob Runner...", "log_level", cfg.Log.Level)

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

	// Initialize Services
	settlementService := service.NewSettlementService(
		store.LedgerRepository,
		store.SettlementRepository,
		cfg.Settlement.BasePriceCents,
		cfg.Settlement.MinimumPriceCents,
	)

	// Initialize Notification Dispatchers
	var notifiers []notify.Notifier
	if cfg.Notify.Telegram.Token != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			logger.Error("Failed to initialize telegram notifier", "error", err)
		} else {
			notifiers = append(notifiers, tg)
			logger.Info("Telegram notifier configured", "chat_id", cfg.Notify.Telegram.ChatID)
		}
	}
	if cfg.Notify.Email.SendGridAPIKey != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.Notify.Email.SendGridAPIKey,
			cfg.Notify.Email.From,
			cfg.Notify.Email.To,
		))
		logger.Info("Email notifier configured", "to", cfg.Notify.Email.To)
	}
	if len(notifiers) == 0 {
		logger.Warn("No notification channels configured; reports will only be stored")
	}
	dispatcher := notify.NewFanout(notifiers...)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(settlementService, dispatcher, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "weekly-settlement":
		jobRunner.RunWeeklySettlement()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - weekly-settlement\n")
		os.Exit(1)
	}
}
