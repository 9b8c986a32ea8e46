package http

import (
	"context"
	"net/http"
	"time"

	"tracking/internal/adapters/in/http/contract"
	"tracking/internal/adapters/out/redis"

	"github.com/labstack/echo/v4"
)

// DeadLetterSample is how many of the most recent dead letters the jobs
// status reports.
const DeadLetterSample = 20

// JobQueueInspector is satisfied by redis.JobQueue.
type JobQueueInspector interface {
	Pending(ctx context.Context, queue string) (int64, error)
	Delayed(ctx context.Context) (int64, error)
	DeadLetters(ctx context.Context, limit int64) ([]redis.Job, error)
}

// WorkerHeartbeat is satisfied by redis.Heartbeat.
type WorkerHeartbeat interface {
	LastBeat(ctx context.Context) (time.Time, bool, error)
}

// JobMonitor is what GET /api/v1/jobs/status reads from.
type JobMonitor struct {
	Queues    []string
	Queue     JobQueueInspector
	Heartbeat WorkerHeartbeat
}

// GetJobsStatus handles GET /api/v1/jobs/status.
func (s *Server) GetJobsStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	queues := make([]contract.QueueStatus, 0, len(s.jobs.Queues))
	for _, name := range s.jobs.Queues {
		pending, err := s.jobs.Queue.Pending(reqCtx, name)
		if err != nil {
			return respondError(ctx, s.logger, err)
		}
		queues = append(queues, contract.QueueStatus{Name: name, Pending: pending})
	}

	delayed, err := s.jobs.Queue.Delayed(reqCtx)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	dead, err := s.jobs.Queue.DeadLetters(reqCtx, DeadLetterSample)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}
	deadLetters := make([]contract.DeadLetter, len(dead))
	for i, job := range dead {
		deadLetters[i] = contract.DeadLetter{
			Id:         job.ID,
			Name:       job.Name,
			Queue:      job.Queue,
			Attempt:    job.Attempt,
			MaxRetries: job.MaxRetries,
			EnqueuedAt: job.EnqueuedAt.UTC(),
			LastError:  job.LastError,
		}
	}

	worker := contract.WorkerStatus{Status: contract.WorkerStatusStatusDown}
	at, alive, err := s.jobs.Heartbeat.LastBeat(reqCtx)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}
	if alive {
		at = at.UTC()
		worker = contract.WorkerStatus{Status: contract.WorkerStatusStatusAlive, LastHeartbeat: &at}
	}

	return ctx.JSON(http.StatusOK, contract.JobsStatusResponse{
		Worker:      worker,
		Queues:      queues,
		Delayed:     delayed,
		DeadLetters: deadLetters,
		Timestamp:   time.Now().UTC(),
	})
}
