package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DeadLetterTrimmer bounds the dead-letter list.
type DeadLetterTrimmer interface {
	TrimDeadLetters(ctx context.Context, keep int64) error
}

// DeadLetterCleanupJob keeps only the newest dead jobs, once an hour.
type DeadLetterCleanupJob struct {
	trimmer   DeadLetterTrimmer
	retention int64
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewDeadLetterCleanupJob(trimmer DeadLetterTrimmer, retention int64, logger *zap.Logger) *DeadLetterCleanupJob {
	return &DeadLetterCleanupJob{
		trimmer:   trimmer,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With(zap.String("component", "dead_letter_cleanup_job")),
	}
}

func (j *DeadLetterCleanupJob) Start() error {
	if _, err := j.cron.AddFunc("@hourly", j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Dead letter cleanup started (running hourly)", zap.Int64("retention", j.retention))
	return nil
}

// Run performs one cleanup pass.
func (j *DeadLetterCleanupJob) Run() {
	if err := j.trimmer.TrimDeadLetters(context.Background(), j.retention); err != nil {
		j.logger.Error("Dead letter cleanup failed", zap.Error(err))
		return
	}
	j.logger.Info("Dead letter cleanup completed", zap.Int64("retention", j.retention))
}

func (j *DeadLetterCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Dead letter cleanup stopped")
}
