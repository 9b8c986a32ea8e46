// Package worker consumes the Redis job queue and runs the registered task
// handlers with a timeout, retrying failures with exponential backoff and
// dead-lettering jobs that run out of retries.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tracking/internal/adapters/out/redis"
	"tracking/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// MaxBackoff caps the delay between two attempts of a job.
	MaxBackoff = 10 * time.Minute

	dequeueTimeout = time.Second
)

var errPermanent = errors.New("permanent failure")

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", errPermanent, err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	return errors.Is(err, errPermanent)
}

// Backoff returns base doubled for every attempt after the first, capped at MaxBackoff.
// There is no jitter, so a job's retry schedule is reproducible.
func Backoff(base time.Duration, attempt int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         MaxBackoff,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	delay := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	return min(delay, MaxBackoff)
}

// Handler runs one job payload.
type Handler interface {
	Handle(ctx context.Context, payload []byte) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, payload []byte) error

func (f HandlerFunc) Handle(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

// Registration binds a job name to its handler and base retry delay.
type Registration struct {
	Handler     Handler
	BaseBackoff time.Duration
}

// Queue is the part of the job queue the worker consumes.
type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration, queues ...string) (*redis.Job, error)
	Retry(ctx context.Context, job *redis.Job, delay time.Duration, cause error) error
	DeadLetter(ctx context.Context, job *redis.Job, cause error) error
}

type Config struct {
	Queues      []string
	Concurrency int
	JobTimeout  time.Duration
}

// Worker runs Config.Concurrency consumer loops over the configured queues.
type Worker struct {
	queue    Queue
	handlers map[string]Registration
	config   Config
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func New(
	queue Queue,
	handlers map[string]Registration,
	config Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Worker {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Worker{
		queue:    queue,
		handlers: handlers,
		config:   config,
		metrics:  m,
		logger:   logger.With(zap.String("component", "worker")),
	}
}

// Run blocks until ctx is canceled and every in-flight job has finished.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started",
		zap.Strings("queues", w.config.Queues),
		zap.Int("concurrency", w.config.Concurrency),
	)

	var wg sync.WaitGroup
	for i := range w.config.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx, i)
		}()
	}
	wg.Wait()

	w.logger.Info("worker stopped")
}

func (w *Worker) loop(ctx context.Context, slot int) {
	for ctx.Err() == nil {
		job, err := w.queue.Dequeue(ctx, dequeueTimeout, w.config.Queues...)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("dequeue failed", zap.Int("slot", slot), zap.Error(err))
			sleep(ctx, dequeueTimeout)
			continue
		}
		if job == nil {
			continue
		}

		// Jobs already taken off the queue are finished even during shutdown.
		w.Process(context.WithoutCancel(ctx), job)
	}
}

// Process runs one job and records its outcome.
func (w *Worker) Process(ctx context.Context, job *redis.Job) {
	log := w.logger.With(
		zap.String("job_id", job.ID),
		zap.String("job", job.Name),
		zap.Int("attempt", job.Attempt),
	)

	reg, ok := w.handlers[job.Name]
	if !ok {
		w.deadLetter(ctx, log, job, fmt.Errorf("no handler registered for %q", job.Name))
		return
	}

	err := w.run(ctx, reg.Handler, job)
	if err == nil {
		w.metrics.JobsProcessed.WithLabelValues(job.Name, metrics.ResultSuccess).Inc()
		log.Debug("job done")
		return
	}

	if IsPermanent(err) || !job.RetriesLeft() {
		w.deadLetter(ctx, log, job, err)
		return
	}

	delay := Backoff(reg.BaseBackoff, job.Attempt)
	if retryErr := w.queue.Retry(ctx, job, delay, err); retryErr != nil {
		log.Error("failed to schedule retry, job is lost", zap.Error(err), zap.NamedError("retry_error", retryErr))
		return
	}

	w.metrics.JobsProcessed.WithLabelValues(job.Name, metrics.ResultRetry).Inc()
	w.metrics.JobRetries.WithLabelValues(job.Name).Inc()
	log.Warn("job failed, retry scheduled", zap.Error(err), zap.Duration("delay", delay))
}

func (w *Worker) run(ctx context.Context, handler Handler, job *redis.Job) (err error) {
	jobCtx := ctx
	if w.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.config.JobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(jobCtx, job.Payload)
}

func (w *Worker) deadLetter(ctx context.Context, log *zap.Logger, job *redis.Job, cause error) {
	w.metrics.JobsProcessed.WithLabelValues(job.Name, metrics.ResultDead).Inc()
	if err := w.queue.DeadLetter(ctx, job, cause); err != nil {
		log.Error("failed to dead-letter job", zap.Error(cause), zap.NamedError("dead_letter_error", err))
		return
	}
	log.Error("job failed permanently", zap.Error(cause))
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
