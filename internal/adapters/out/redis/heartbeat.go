package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeartbeatInterval = 10 * time.Second
	HeartbeatTTL      = 30 * time.Second
)

// Heartbeat publishes that a worker is alive by refreshing a key with a TTL.
// The key disappears on its own when every worker is gone.
type Heartbeat struct {
	client goredis.UniversalClient
	key    string
	now    func() time.Time
}

func NewHeartbeat(client goredis.UniversalClient) *Heartbeat {
	return &Heartbeat{
		client: client,
		key:    KeyPrefix + "worker:heartbeat",
		now:    time.Now,
	}
}

// Beat refreshes the heartbeat key.
func (h *Heartbeat) Beat(ctx context.Context) error {
	stamp := h.now().UTC().Format(time.RFC3339Nano)
	if err := h.client.Set(ctx, h.key, stamp, HeartbeatTTL).Err(); err != nil {
		return fmt.Errorf("failed to write heartbeat: %w", err)
	}
	return nil
}

// Run beats every HeartbeatInterval until ctx is done.
func (h *Heartbeat) Run(ctx context.Context, logger *zap.Logger) {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		if err := h.Beat(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("heartbeat failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// LastBeat returns the time of the latest live heartbeat. ok is false when
// no worker has beaten within HeartbeatTTL.
func (h *Heartbeat) LastBeat(ctx context.Context) (time.Time, bool, error) {
	stamp, err := h.client.Get(ctx, h.key).Result()
	if errors.Is(err, goredis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read heartbeat: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed heartbeat %q: %w", stamp, err)
	}
	return at, true, nil
}

// ErrNoHeartbeat is returned by Check when no worker is alive.
var ErrNoHeartbeat = errors.New("no worker heartbeat")

// Check fails with ErrNoHeartbeat when no worker has beaten recently.
func (h *Heartbeat) Check(ctx context.Context) error {
	_, ok, err := h.LastBeat(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoHeartbeat
	}
	return nil
}
