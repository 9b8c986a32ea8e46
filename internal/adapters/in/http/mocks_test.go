package http_test

import (
	"context"
	"sync"
	"time"

	"tracking/internal/adapters/out/redis"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockRegisterCheckpointHandler struct{ mock.Mock }

func (m *MockRegisterCheckpointHandler) Handle(
	ctx context.Context,
	cmd commands.RegisterCheckpointCommand,
) (commands.RegisterCheckpointResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RegisterCheckpointResult), args.Error(1)
}

type MockCreateUnitHandler struct{ mock.Mock }

func (m *MockCreateUnitHandler) Handle(
	ctx context.Context,
	cmd commands.CreateUnitCommand,
) (commands.CreateUnitResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CreateUnitResult), args.Error(1)
}

type MockGetTrackingHistoryHandler struct{ mock.Mock }

func (m *MockGetTrackingHistoryHandler) Handle(
	ctx context.Context,
	query queries.GetTrackingHistoryQuery,
) (queries.GetTrackingHistoryQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetTrackingHistoryQueryResponse), args.Error(1)
}

type MockListUnitsByStatusHandler struct{ mock.Mock }

func (m *MockListUnitsByStatusHandler) Handle(
	ctx context.Context,
	query queries.ListUnitsByStatusQuery,
) (queries.ListUnitsByStatusQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ListUnitsByStatusQueryResponse), args.Error(1)
}

// stubLimiter allows every request unless result or err is set.
type stubLimiter struct {
	mu     sync.Mutex
	keys   []string
	result *redis.RateLimitResult
	err    error
}

func (s *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (redis.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = append(s.keys, key)
	if s.err != nil {
		return redis.RateLimitResult{}, s.err
	}
	if s.result != nil {
		return *s.result, nil
	}
	return redis.RateLimitResult{Allowed: true, Limit: limit, Remaining: limit - 1}, nil
}

func (s *stubLimiter) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}
