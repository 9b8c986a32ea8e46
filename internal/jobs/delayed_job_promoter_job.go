package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DelayedJobPromoter moves due delayed jobs back onto their queues.
type DelayedJobPromoter interface {
	PromoteDue(ctx context.Context) (int, error)
}

// DelayedJobPromoterJob runs DelayedJobPromoter every second.
type DelayedJobPromoterJob struct {
	promoter DelayedJobPromoter
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewDelayedJobPromoterJob(promoter DelayedJobPromoter, logger *zap.Logger) *DelayedJobPromoterJob {
	return &DelayedJobPromoterJob{
		promoter: promoter,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(zap.String("component", "delayed_job_promoter_job")),
	}
}

func (j *DelayedJobPromoterJob) Start() error {
	if _, err := j.cron.AddFunc("* * * * * *", j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Delayed job promoter started (running every second)")
	return nil
}

// Run performs one promotion pass.
func (j *DelayedJobPromoterJob) Run() {
	promoted, err := j.promoter.PromoteDue(context.Background())
	if err != nil {
		j.logger.Error("Delayed job promotion failed", zap.Error(err), zap.Int("promoted", promoted))
		return
	}
	if promoted > 0 {
		j.logger.Debug("Delayed jobs promoted", zap.Int("promoted", promoted))
	}
}

func (j *DelayedJobPromoterJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Delayed job promoter stopped")
}
