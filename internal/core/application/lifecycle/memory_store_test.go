package lifecycle_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"
)

type storedUnit struct {
	id        kernel.UUID
	createdAt time.Time
	updatedAt time.Time
	version   int64
	status    unit.Status
	seq       int
}

// memoryStore backs both repository ports with maps, mirroring the
// postgres adapters: the ledger is the source of each unit's records.
type memoryStore struct {
	mu     sync.Mutex
	units  map[string]storedUnit
	ledger map[string][]*checkpoint.Checkpoint
	seq    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		units:  make(map[string]storedUnit),
		ledger: make(map[string][]*checkpoint.Checkpoint),
	}
}

func (m *memoryStore) Units() *memoryUnits   { return &memoryUnits{m} }
func (m *memoryStore) Ledger() *memoryLedger { return &memoryLedger{m} }

type memoryUnits struct{ *memoryStore }

func (r *memoryUnits) Add(_ context.Context, u *unit.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := u.TrackingID().String()
	if _, ok := r.units[key]; ok {
		return errs.NewObjectAlreadyExistsError("tracking_id", key)
	}
	r.seq++
	r.units[key] = storedUnit{
		id: u.ID(), createdAt: u.CreatedAt(), updatedAt: u.UpdatedAt(),
		version: 1, status: u.CurrentStatus(), seq: r.seq,
	}
	return nil
}

func (r *memoryUnits) Update(_ context.Context, u *unit.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := u.TrackingID().String()
	stored, ok := r.units[key]
	if !ok {
		return errs.NewObjectNotFoundError("tracking_id", key)
	}
	if stored.version != u.Version() {
		return errs.NewConcurrencyConflictError("unit", key)
	}
	stored.version++
	stored.status = u.CurrentStatus()
	stored.updatedAt = u.UpdatedAt()
	r.units[key] = stored
	return nil
}

func (r *memoryUnits) Get(_ context.Context, trackingID kernel.TrackingID) (*unit.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(trackingID)
}

func (r *memoryUnits) GetForUpdate(ctx context.Context, trackingID kernel.TrackingID) (*unit.Unit, error) {
	return r.Get(ctx, trackingID)
}

func (r *memoryUnits) Exists(_ context.Context, trackingID kernel.TrackingID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.units[trackingID.String()]
	return ok, nil
}

func (r *memoryUnits) ListByStatus(_ context.Context, status unit.Status, limit, offset int) ([]*unit.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := r.keysIn(status)
	if offset >= len(keys) {
		return []*unit.Unit{}, nil
	}
	keys = keys[offset:min(offset+limit, len(keys))]
	result := make([]*unit.Unit, 0, len(keys))
	for _, key := range keys {
		u, err := r.load(kernel.MustTrackingID(key))
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

func (r *memoryUnits) CountByStatus(_ context.Context, status unit.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.keysIn(status))), nil
}

func (r *memoryUnits) keysIn(status unit.Status) []string {
	keys := make([]string, 0)
	for key, stored := range r.units {
		if stored.status == status {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b string) int { return r.units[a].seq - r.units[b].seq })
	return keys
}

func (r *memoryUnits) load(trackingID kernel.TrackingID) (*unit.Unit, error) {
	stored, ok := r.units[trackingID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("tracking_id", trackingID.String())
	}
	entries := slices.Clone(r.ledger[trackingID.String()])
	checkpoint.SortByTimestamp(entries)
	return unit.RestoreUnit(stored.id, trackingID, stored.createdAt, stored.updatedAt, stored.version,
		checkpoint.Records(entries))
}

type memoryLedger struct{ *memoryStore }

func (l *memoryLedger) Add(_ context.Context, entry *checkpoint.Checkpoint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := entry.TrackingID().String()
	l.ledger[key] = append(l.ledger[key], entry)
	return nil
}

func (l *memoryLedger) ListByTrackingID(_ context.Context, trackingID kernel.TrackingID) ([]*checkpoint.Checkpoint, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := slices.Clone(l.ledger[trackingID.String()])
	slices.Reverse(entries)
	return entries, nil
}
