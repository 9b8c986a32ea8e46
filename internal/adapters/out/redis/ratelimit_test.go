package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	limiter := NewSlidingWindowLimiter(client)
	now := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := range 3 {
		res, allowErr := limiter.Allow(ctx, "register:10.0.0.1", 3, time.Hour)
		require.NoError(t, allowErr)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		now = now.Add(time.Minute)
	}

	res, err := limiter.Allow(ctx, "register:10.0.0.1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	// oldest request was made at 03:00 and now is 03:03
	assert.Equal(t, 57*time.Minute, res.RetryAfter)

	other, err := limiter.Allow(ctx, "register:10.0.0.2", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	now = now.Add(58 * time.Minute)
	res, err = limiter.Allow(ctx, "register:10.0.0.1", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "oldest request left the window")
}

func TestSlidingWindowLimiter_RejectedRequestsAreNotCounted(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	limiter := NewSlidingWindowLimiter(client)

	for range 5 {
		_, err = limiter.Allow(ctx, "list:10.0.0.1", 1, time.Hour)
		require.NoError(t, err)
	}

	members, err := mr.ZMembers(rateLimitKey("list:10.0.0.1"))
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestSlidingWindowLimiter_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()
	mr.Close()

	_, err = NewSlidingWindowLimiter(client).Allow(context.Background(), "k", 1, time.Hour)

	require.Error(t, err)
}
