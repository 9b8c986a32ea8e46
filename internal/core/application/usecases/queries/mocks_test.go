package queries_test

import (
	"context"

	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockUnitRepository struct{ mock.Mock }

func (m *MockUnitRepository) Add(_ context.Context, _ *unit.Unit) error    { return nil }
func (m *MockUnitRepository) Update(_ context.Context, _ *unit.Unit) error { return nil }

func (m *MockUnitRepository) Get(ctx context.Context, id kernel.TrackingID) (*unit.Unit, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*unit.Unit)
	return u, args.Error(1)
}

func (m *MockUnitRepository) GetForUpdate(ctx context.Context, id kernel.TrackingID) (*unit.Unit, error) {
	return m.Get(ctx, id)
}

func (m *MockUnitRepository) Exists(ctx context.Context, id kernel.TrackingID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) ListByStatus(
	ctx context.Context,
	status unit.Status,
	limit, offset int,
) ([]*unit.Unit, error) {
	args := m.Called(ctx, status, limit, offset)
	units, _ := args.Get(0).([]*unit.Unit)
	return units, args.Error(1)
}

func (m *MockUnitRepository) CountByStatus(ctx context.Context, status unit.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockCheckpointRepository struct{ mock.Mock }

func (m *MockCheckpointRepository) Add(_ context.Context, _ *checkpoint.Checkpoint) error { return nil }

func (m *MockCheckpointRepository) ListByTrackingID(
	ctx context.Context,
	id kernel.TrackingID,
) ([]*checkpoint.Checkpoint, error) {
	args := m.Called(ctx, id)
	entries, _ := args.Get(0).([]*checkpoint.Checkpoint)
	return entries, args.Error(1)
}

type MockReadUoW struct{ mock.Mock }

func (m *MockReadUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReadUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReadUoW) UnitRepository() ports.UnitRepository {
	args := m.Called()
	return args.Get(0).(ports.UnitRepository)
}

func (m *MockReadUoW) CheckpointRepository() ports.CheckpointRepository {
	args := m.Called()
	return args.Get(0).(ports.CheckpointRepository)
}

type MockReadUoWFactory struct{ mock.Mock }

func (m *MockReadUoWFactory) Create() queries.ReadUoW {
	args := m.Called()
	return args.Get(0).(queries.ReadUoW)
}

func newReadUoW(units ports.UnitRepository, ledger ports.CheckpointRepository) (*MockReadUoWFactory, *MockReadUoW) {
	uow := new(MockReadUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("UnitRepository").Return(units)
	uow.On("CheckpointRepository").Return(ledger)

	factory := new(MockReadUoWFactory)
	factory.On("Create").Return(uow)
	return factory, uow
}
