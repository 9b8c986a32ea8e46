package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// MaintenanceQueue is the part of the job queue the scheduled jobs operate on.
type MaintenanceQueue interface {
	DelayedJobPromoter
	DeadLetterTrimmer
}

// JobManager coordinates all scheduled jobs of the worker process.
type JobManager struct {
	promoterJob *DelayedJobPromoterJob
	cleanupJob  *DeadLetterCleanupJob
}

func NewJobManager(queue MaintenanceQueue, deadLetterRetention int64, logger *zap.Logger) *JobManager {
	return &JobManager{
		promoterJob: NewDelayedJobPromoterJob(queue, logger),
		cleanupJob:  NewDeadLetterCleanupJob(queue, deadLetterRetention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.promoterJob.Start(); err != nil {
		return fmt.Errorf("failed to start delayed job promoter: %w", err)
	}

	if err := jm.cleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.promoterJob.Stop()
		return fmt.Errorf("failed to start dead letter cleanup: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.promoterJob.Stop()
	jm.cleanupJob.Stop()
}
