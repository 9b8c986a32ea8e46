package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"tracking/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitResult is the outcome of one rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// SlidingWindowLimiter counts requests per key in a sliding window kept as a
// sorted set of request timestamps. Rejected requests are not counted.
type SlidingWindowLimiter struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewSlidingWindowLimiter(client goredis.UniversalClient) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		now:    time.Now,
	}
}

// Allow records a request for key and reports whether it fits in limit
// requests per window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	now := l.now()
	redisKey := rateLimitKey(key)
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + kernel.NewUUID().String()
	windowStart := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)

	var card *goredis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+windowStart)
		pipe.ZAdd(ctx, redisKey, goredis.Z{Score: float64(now.UnixMicro()), Member: member})
		card = pipe.ZCard(ctx, redisKey)
		pipe.PExpire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit check for %s failed: %w", key, err)
	}

	count := int(card.Val())
	if count <= limit {
		return RateLimitResult{Allowed: true, Limit: limit, Remaining: limit - count}, nil
	}

	if err = l.client.ZRem(ctx, redisKey, member).Err(); err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit rollback for %s failed: %w", key, err)
	}

	oldest, err := l.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit check for %s failed: %w", key, err)
	}

	retryAfter := window
	if len(oldest) == 1 {
		expires := time.UnixMicro(int64(oldest[0].Score)).Add(window)
		retryAfter = max(expires.Sub(now), time.Second)
	}

	return RateLimitResult{Allowed: false, Limit: limit, Remaining: 0, RetryAfter: retryAfter}, nil
}

func rateLimitKey(key string) string {
	return KeyPrefix + "ratelimit:" + key
}
