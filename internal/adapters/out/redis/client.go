// Package redis holds the Redis-backed adapters: the background job queue,
// the sliding-window rate limiter and the worker heartbeat.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by this service.
const KeyPrefix = "tracking:"

// NewClient creates a client from a URL of the form
// redis://[:password@]host[:port][/database].
func NewClient(redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return goredis.NewClient(opts), nil
}

// Ping checks if Redis is reachable.
func Ping(ctx context.Context, client goredis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
