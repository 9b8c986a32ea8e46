package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tracking/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

var ErrUnknownJob = errors.New("unknown job name")

// Route tells the queue where a named job goes and how often it may be retried.
type Route struct {
	Queue      string
	MaxRetries int
}

// Job is the JSON envelope stored in Redis.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"`
	MaxRetries int             `json:"max_retries"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	LastError  string          `json:"last_error,omitempty"`
}

// RetriesLeft reports whether another attempt is allowed after the current one.
func (j *Job) RetriesLeft() bool {
	return j.Attempt <= j.MaxRetries
}

// JobQueue is a list-per-queue job queue with a delayed set for retries and
// a dead-letter list for jobs that ran out of retries.
//
// Layout:
//
//	tracking:queue:<name>  LIST  ready jobs, LPUSH in, BRPOP out
//	tracking:delayed       ZSET  jobs waiting for a retry, scored by due unix ms
//	tracking:dead          LIST  exhausted jobs, newest first
type JobQueue struct {
	client goredis.UniversalClient
	routes map[string]Route
	now    func() time.Time
}

func NewJobQueue(client goredis.UniversalClient, routes map[string]Route) *JobQueue {
	return &JobQueue{
		client: client,
		routes: routes,
		now:    time.Now,
	}
}

// Enqueue pushes a new job for the named handler and returns its id.
func (q *JobQueue) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	route, ok := q.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s payload: %w", name, err)
	}

	job := &Job{
		ID:         kernel.NewUUID().String(),
		Name:       name,
		Queue:      route.Queue,
		Payload:    raw,
		Attempt:    1,
		MaxRetries: route.MaxRetries,
		EnqueuedAt: q.now().UTC(),
	}

	if err = q.push(ctx, job); err != nil {
		return "", err
	}
	return job.ID, nil
}

// Dequeue blocks up to timeout for a job on any of queues, checked in order.
// It returns nil, nil when the wait times out.
func (q *JobQueue) Dequeue(ctx context.Context, timeout time.Duration, queues ...string) (*Job, error) {
	keys := make([]string, 0, len(queues))
	for _, name := range queues {
		keys = append(keys, QueueKey(name))
	}

	res, err := q.client.BRPop(ctx, timeout, keys...).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil //nolint:nilnil // timeout without a job
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue: %w", err)
	}

	var job Job
	if err = json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to decode job from %s: %w", res[0], err)
	}
	return &job, nil
}

// Retry schedules the next attempt of job after delay.
func (q *JobQueue) Retry(ctx context.Context, job *Job, delay time.Duration, cause error) error {
	next := *job
	next.Attempt++
	next.LastError = errorText(cause)

	raw, err := json.Marshal(&next)
	if err != nil {
		return err
	}

	due := q.now().Add(delay).UnixMilli()
	if err = q.client.ZAdd(ctx, delayedKey(), goredis.Z{Score: float64(due), Member: raw}).Err(); err != nil {
		return fmt.Errorf("failed to schedule retry of job %s: %w", job.ID, err)
	}
	return nil
}

// DeadLetter records job as permanently failed.
func (q *JobQueue) DeadLetter(ctx context.Context, job *Job, cause error) error {
	dead := *job
	dead.LastError = errorText(cause)

	raw, err := json.Marshal(&dead)
	if err != nil {
		return err
	}

	if err = q.client.LPush(ctx, deadKey(), raw).Err(); err != nil {
		return fmt.Errorf("failed to dead-letter job %s: %w", job.ID, err)
	}
	return nil
}

// PromoteDue moves every delayed job whose due time has passed back onto
// its queue and returns how many were moved. Concurrent promoters never
// move the same job twice.
func (q *JobQueue) PromoteDue(ctx context.Context) (int, error) {
	until := strconv.FormatInt(q.now().UnixMilli(), 10)
	members, err := q.client.ZRangeByScore(ctx, delayedKey(), &goredis.ZRangeBy{Min: "-inf", Max: until}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read delayed jobs: %w", err)
	}

	promoted := 0
	for _, member := range members {
		removed, remErr := q.client.ZRem(ctx, delayedKey(), member).Result()
		if remErr != nil {
			return promoted, fmt.Errorf("failed to claim delayed job: %w", remErr)
		}
		if removed == 0 {
			continue
		}

		var job Job
		if err = json.Unmarshal([]byte(member), &job); err != nil {
			return promoted, fmt.Errorf("failed to decode delayed job: %w", err)
		}
		if err = q.client.LPush(ctx, QueueKey(job.Queue), member).Err(); err != nil {
			return promoted, fmt.Errorf("failed to promote job %s: %w", job.ID, err)
		}
		promoted++
	}

	return promoted, nil
}

// TrimDeadLetters keeps the newest keep entries of the dead-letter list.
func (q *JobQueue) TrimDeadLetters(ctx context.Context, keep int64) error {
	if keep <= 0 {
		return q.client.Del(ctx, deadKey()).Err()
	}
	return q.client.LTrim(ctx, deadKey(), 0, keep-1).Err()
}

// DeadLetters returns up to limit dead jobs, newest first.
func (q *JobQueue) DeadLetters(ctx context.Context, limit int64) ([]Job, error) {
	raws, err := q.client.LRange(ctx, deadKey(), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(raws))
	for _, raw := range raws {
		var job Job
		if err = json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Pending returns the number of ready jobs in queue.
func (q *JobQueue) Pending(ctx context.Context, queue string) (int64, error) {
	return q.client.LLen(ctx, QueueKey(queue)).Result()
}

// Delayed returns the number of jobs waiting for a retry.
func (q *JobQueue) Delayed(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, delayedKey()).Result()
}

func (q *JobQueue) push(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err = q.client.LPush(ctx, QueueKey(job.Queue), raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", job.Name, err)
	}
	return nil
}

// QueueKey returns the list key of a named queue.
func QueueKey(queue string) string {
	return KeyPrefix + "queue:" + queue
}

func delayedKey() string {
	return KeyPrefix + "delayed"
}

func deadKey() string {
	return KeyPrefix + "dead"
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
