package commands_test

import (
	"context"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockUnitRepository struct{ mock.Mock }

func (m *MockUnitRepository) Add(ctx context.Context, u *unit.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) Update(ctx context.Context, u *unit.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) Get(ctx context.Context, id kernel.TrackingID) (*unit.Unit, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*unit.Unit)
	return u, args.Error(1)
}

func (m *MockUnitRepository) GetForUpdate(ctx context.Context, id kernel.TrackingID) (*unit.Unit, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*unit.Unit)
	return u, args.Error(1)
}

func (m *MockUnitRepository) Exists(ctx context.Context, id kernel.TrackingID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) ListByStatus(_ context.Context, _ unit.Status, _, _ int) ([]*unit.Unit, error) {
	return nil, nil
}

func (m *MockUnitRepository) CountByStatus(_ context.Context, _ unit.Status) (int64, error) {
	return 0, nil
}

type MockCheckpointRepository struct{ mock.Mock }

func (m *MockCheckpointRepository) Add(ctx context.Context, entry *checkpoint.Checkpoint) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCheckpointRepository) ListByTrackingID(
	ctx context.Context,
	id kernel.TrackingID,
) ([]*checkpoint.Checkpoint, error) {
	args := m.Called(ctx, id)
	entries, _ := args.Get(0).([]*checkpoint.Checkpoint)
	return entries, args.Error(1)
}

// recordingLedger keeps appended entries so reads inside the same unit of
// work observe them.
type recordingLedger struct {
	entries []*checkpoint.Checkpoint
}

func (l *recordingLedger) Add(_ context.Context, entry *checkpoint.Checkpoint) error {
	l.entries = append(l.entries, entry)
	return nil
}

func (l *recordingLedger) ListByTrackingID(_ context.Context, _ kernel.TrackingID) ([]*checkpoint.Checkpoint, error) {
	return l.entries, nil
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) UnitRepository() ports.UnitRepository {
	args := m.Called()
	return args.Get(0).(ports.UnitRepository)
}

func (m *MockUoW) CheckpointRepository() ports.CheckpointRepository {
	args := m.Called()
	return args.Get(0).(ports.CheckpointRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockJobQueue struct{ mock.Mock }

func (m *MockJobQueue) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	args := m.Called(ctx, name, payload)
	return args.String(0), args.Error(1)
}
