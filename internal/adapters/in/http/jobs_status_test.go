package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tracking/internal/adapters/in/http/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsStatus(t *testing.T) {
	t.Run("should report pending, delayed and dead jobs with a live worker", func(t *testing.T) {
		h := newHarness(t)
		ctx := context.Background()

		_, err := h.queue.Enqueue(ctx, "process_checkpoint", map[string]string{"tracking_id": "TEST123"})
		require.NoError(t, err)
		_, err = h.queue.Enqueue(ctx, "process_checkpoint", map[string]string{"tracking_id": "TEST456"})
		require.NoError(t, err)
		_, err = h.queue.Enqueue(ctx, "send_notification", map[string]string{"tracking_id": "TEST123"})
		require.NoError(t, err)

		retried, err := h.queue.Dequeue(ctx, time.Second, "notifications")
		require.NoError(t, err)
		require.NoError(t, h.queue.Retry(ctx, retried, time.Hour, errors.New("smtp timeout")))

		failed, err := h.queue.Dequeue(ctx, time.Second, "checkpoints")
		require.NoError(t, err)
		require.NoError(t, h.queue.DeadLetter(ctx, failed, errors.New("unit vanished")))

		require.NoError(t, h.heartbeat.Beat(ctx))

		rec := h.do(http.MethodGet, "/api/v1/jobs/status", "", true)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[contract.JobsStatusResponse](t, rec)

		assert.Equal(t, []contract.QueueStatus{
			{Name: "checkpoints", Pending: 1},
			{Name: "notifications", Pending: 0},
		}, body.Queues)
		assert.Equal(t, int64(1), body.Delayed)

		require.Len(t, body.DeadLetters, 1)
		assert.Equal(t, failed.ID, body.DeadLetters[0].Id)
		assert.Equal(t, "process_checkpoint", body.DeadLetters[0].Name)
		assert.Equal(t, "checkpoints", body.DeadLetters[0].Queue)
		assert.Equal(t, 3, body.DeadLetters[0].MaxRetries)
		assert.Equal(t, "unit vanished", body.DeadLetters[0].LastError)

		assert.Equal(t, contract.WorkerStatusStatusAlive, body.Worker.Status)
		require.NotNil(t, body.Worker.LastHeartbeat)
		assert.WithinDuration(t, time.Now(), *body.Worker.LastHeartbeat, time.Minute)
		assert.False(t, body.Timestamp.IsZero())
	})

	t.Run("should report the worker down without a heartbeat", func(t *testing.T) {
		h := newHarness(t)

		rec := h.do(http.MethodGet, "/api/v1/jobs/status", "", true)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[contract.JobsStatusResponse](t, rec)
		assert.Equal(t, contract.WorkerStatusStatusDown, body.Worker.Status)
		assert.Nil(t, body.Worker.LastHeartbeat)
		assert.Empty(t, body.DeadLetters)
		assert.Zero(t, body.Delayed)
		assert.Len(t, body.Queues, 2)
	})

	t.Run("should report the worker down once the heartbeat expires", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.heartbeat.Beat(context.Background()))
		h.redis.FastForward(time.Minute)

		rec := h.do(http.MethodGet, "/api/v1/jobs/status", "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contract.WorkerStatusStatusDown, decode[contract.JobsStatusResponse](t, rec).Worker.Status)
	})

	t.Run("should require the api key", func(t *testing.T) {
		h := newHarness(t)

		rec := h.do(http.MethodGet, "/api/v1/jobs/status", "", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should return internal error when redis fails", func(t *testing.T) {
		h := newHarness(t)
		h.redis.SetError("LOADING dataset in memory")

		rec := h.do(http.MethodGet, "/api/v1/jobs/status", "", true)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[contract.Error](t, rec)
		assert.NotContains(t, body.Message, "LOADING")
	})
}
