package jobs

import (
	"courtledger-backend/internal/config"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/notify"
	"courtledger-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	settlement service.SettlementService
	dispatcher *notify.Fanout
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(settlement service.SettlementService, dispatcher *notify.Fanout, cfg *config.Config) *JobRunner {
	return &JobRunner{
		settlement: settlement,
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
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
