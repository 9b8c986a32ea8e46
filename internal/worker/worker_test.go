package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tracking/internal/adapters/out/redis"
	"tracking/internal/pkg/metrics"
	"tracking/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackoff(t *testing.T) {
	testCases := []struct {
		base     time.Duration
		attempt  int
		expected time.Duration
	}{
		{time.Minute, 0, time.Minute},
		{time.Minute, 1, time.Minute},
		{time.Minute, 2, 2 * time.Minute},
		{time.Minute, 3, 4 * time.Minute},
		{time.Minute, 4, 8 * time.Minute},
		{time.Minute, 5, worker.MaxBackoff},
		{30 * time.Second, 2, time.Minute},
		{time.Hour, 1, worker.MaxBackoff},
		{time.Minute, 50, worker.MaxBackoff},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, worker.Backoff(tc.base, tc.attempt), "base %s attempt %d", tc.base, tc.attempt)
	}
}

func TestPermanent(t *testing.T) {
	cause := errors.New("bad payload")
	err := worker.Permanent(cause)

	assert.True(t, worker.IsPermanent(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, worker.IsPermanent(cause))
}

type fixture struct {
	queue   *redis.JobQueue
	metrics *metrics.Metrics
	worker  *worker.Worker
}

func newFixture(t *testing.T, handlers map[string]worker.Registration, timeout time.Duration) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	queue := redis.NewJobQueue(client, map[string]redis.Route{
		"process_checkpoint": {Queue: "checkpoints", MaxRetries: 3},
		"send_notification":  {Queue: "notifications", MaxRetries: 2},
		"orphan":             {Queue: "checkpoints", MaxRetries: 1},
	})
	m := metrics.NewNop()
	w := worker.New(queue, handlers, worker.Config{
		Queues:      []string{"checkpoints", "notifications"},
		Concurrency: 2,
		JobTimeout:  timeout,
	}, m, zap.NewNop())

	return fixture{queue: queue, metrics: m, worker: w}
}

func (f fixture) next(t *testing.T, name string) *redis.Job {
	t.Helper()
	_, err := f.queue.Enqueue(context.Background(), name, map[string]string{"tracking_id": "TEST123"})
	require.NoError(t, err)
	job, err := f.queue.Dequeue(context.Background(), time.Second, "checkpoints", "notifications")
	require.NoError(t, err)
	require.NotNil(t, job)
	return job
}

func (f fixture) counter(name, result string) float64 {
	return testutil.ToFloat64(f.metrics.JobsProcessed.WithLabelValues(name, result))
}

func TestWorker_Process(t *testing.T) {
	ctx := context.Background()
	failing := worker.HandlerFunc(func(context.Context, []byte) error { return errors.New("downstream unavailable") })

	t.Run("success", func(t *testing.T) {
		var got []byte
		f := newFixture(t, map[string]worker.Registration{
			"process_checkpoint": {Handler: worker.HandlerFunc(func(_ context.Context, payload []byte) error {
				got = payload
				return nil
			}), BaseBackoff: time.Minute},
		}, time.Second)

		f.worker.Process(ctx, f.next(t, "process_checkpoint"))

		assert.JSONEq(t, `{"tracking_id":"TEST123"}`, string(got))
		assert.InDelta(t, 1, f.counter("process_checkpoint", metrics.ResultSuccess), 0)
	})

	t.Run("failure with retries left is delayed", func(t *testing.T) {
		f := newFixture(t, map[string]worker.Registration{
			"process_checkpoint": {Handler: failing, BaseBackoff: time.Minute},
		}, time.Second)

		f.worker.Process(ctx, f.next(t, "process_checkpoint"))

		delayed, err := f.queue.Delayed(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), delayed)
		assert.InDelta(t, 1, f.counter("process_checkpoint", metrics.ResultRetry), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.JobRetries.WithLabelValues("process_checkpoint")), 0)
	})

	t.Run("failure on the last attempt is dead-lettered", func(t *testing.T) {
		f := newFixture(t, map[string]worker.Registration{
			"send_notification": {Handler: failing, BaseBackoff: 30 * time.Second},
		}, time.Second)
		job := f.next(t, "send_notification")
		job.Attempt = 3

		f.worker.Process(ctx, job)

		dead, err := f.queue.DeadLetters(ctx, 10)
		require.NoError(t, err)
		require.Len(t, dead, 1)
		assert.Equal(t, job.ID, dead[0].ID)
		assert.Equal(t, "downstream unavailable", dead[0].LastError)
		assert.InDelta(t, 1, f.counter("send_notification", metrics.ResultDead), 0)
	})

	t.Run("permanent failure skips retries", func(t *testing.T) {
		f := newFixture(t, map[string]worker.Registration{
			"process_checkpoint": {Handler: worker.HandlerFunc(func(context.Context, []byte) error {
				return worker.Permanent(errors.New("malformed"))
			}), BaseBackoff: time.Minute},
		}, time.Second)

		f.worker.Process(ctx, f.next(t, "process_checkpoint"))

		delayed, err := f.queue.Delayed(ctx)
		require.NoError(t, err)
		assert.Zero(t, delayed)
		dead, err := f.queue.DeadLetters(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, dead, 1)
	})

	t.Run("unknown job is dead-lettered", func(t *testing.T) {
		f := newFixture(t, map[string]worker.Registration{}, time.Second)

		f.worker.Process(ctx, f.next(t, "orphan"))

		dead, err := f.queue.DeadLetters(ctx, 10)
		require.NoError(t, err)
		require.Len(t, dead, 1)
		assert.Contains(t, dead[0].LastError, "no handler registered")
	})

	t.Run("panic is treated as a failure", func(t *testing.T) {
		f := newFixture(t, map[string]worker.Registration{
			"process_checkpoint": {Handler: worker.HandlerFunc(func(context.Context, []byte) error {
				panic("boom")
			}), BaseBackoff: time.Minute},
		}, time.Second)

		f.worker.Process(ctx, f.next(t, "process_checkpoint"))

		assert.InDelta(t, 1, f.counter("process_checkpoint", metrics.ResultRetry), 0)
	})

	t.Run("timeout cancels the handler context", func(t *testing.T) {
		f := newFixture(t, map[string]worker.Registration{
			"process_checkpoint": {Handler: worker.HandlerFunc(func(ctx context.Context, _ []byte) error {
				<-ctx.Done()
				return ctx.Err()
			}), BaseBackoff: time.Minute},
		}, 50*time.Millisecond)

		f.worker.Process(ctx, f.next(t, "process_checkpoint"))

		assert.InDelta(t, 1, f.counter("process_checkpoint", metrics.ResultRetry), 0)
	})
}

func TestWorker_Run(t *testing.T) {
	var handled atomic.Int32
	f := newFixture(t, map[string]worker.Registration{
		"process_checkpoint": {Handler: worker.HandlerFunc(func(context.Context, []byte) error {
			handled.Add(1)
			return nil
		}), BaseBackoff: time.Minute},
		"send_notification": {Handler: worker.HandlerFunc(func(context.Context, []byte) error {
			handled.Add(1)
			return nil
		}), BaseBackoff: 30 * time.Second},
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.worker.Run(ctx)
		close(done)
	}()

	for _, name := range []string{"process_checkpoint", "send_notification", "process_checkpoint"} {
		_, err := f.queue.Enqueue(context.Background(), name, map[string]string{})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return handled.Load() == 3 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
