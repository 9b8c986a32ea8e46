// Package lifecycle orchestrates unit creation and checkpoint application
// against the persistence ports. A Service is bound to the repositories of a
// single unit of work; it never opens or commits transactions itself.
package lifecycle

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// Policy selects how the service treats checkpoints for unknown units.
type Policy struct {
	// AutoCreateUnits bootstraps an unknown unit on its first checkpoint
	// instead of failing with NotFound.
	AutoCreateUnits bool
}

// DefaultPolicy accepts checkpoints for units never registered explicitly.
func DefaultPolicy() Policy {
	return Policy{AutoCreateUnits: true}
}

// Service implements the unit lifecycle operations.
//
// Example:
//
//	svc := lifecycle.NewService(uow.UnitRepository(), uow.CheckpointRepository(), lifecycle.DefaultPolicy())
//	u, err := svc.AddCheckpoint(ctx, trackingID, record)
//	if err != nil {
//	    return err
//	}
//	entries, err := svc.Persist(ctx, u)
type Service struct {
	units  ports.UnitRepository
	ledger ports.CheckpointRepository
	policy Policy
}

func NewService(units ports.UnitRepository, ledger ports.CheckpointRepository, policy Policy) *Service {
	return &Service{
		units:  units,
		ledger: ledger,
		policy: policy,
	}
}

// CreateUnit builds a new unit whose initial record has initialStatus.
// It fails with *errs.ObjectAlreadyExistsError when trackingID is taken and
// does not persist anything.
func (s *Service) CreateUnit(ctx context.Context, trackingID kernel.TrackingID, initialStatus unit.Status) (*unit.Unit, error) {
	exists, err := s.units.Exists(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewObjectAlreadyExistsError("tracking_id", trackingID.String())
	}

	return unit.NewUnit(trackingID, initialStatus)
}

// EnsureUnit returns the stored unit for trackingID, locked for update, or
// bootstraps and persists one when the policy allows it.
//
// The returned flag is true when the unit was created by this call. A unit
// created from a CREATED incoming record already contains that record; for
// any other status the unit holds only a synthesized CREATED record and the
// caller must still apply incoming through AddCheckpoint.
func (s *Service) EnsureUnit(
	ctx context.Context,
	trackingID kernel.TrackingID,
	incoming unit.CheckpointRecord,
) (*unit.Unit, bool, error) {
	u, err := s.units.GetForUpdate(ctx, trackingID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}
	if !s.policy.AutoCreateUnits {
		return nil, false, err
	}

	u, err = unit.NewBootstrapUnit(trackingID, incoming)
	if err != nil {
		return nil, false, err
	}
	if _, err = s.Persist(ctx, u); err != nil {
		return nil, false, err
	}

	return u, true, nil
}

// AddCheckpoint loads the unit and applies record to it. The mutated
// aggregate is returned unpersisted.
func (s *Service) AddCheckpoint(
	ctx context.Context,
	trackingID kernel.TrackingID,
	record unit.CheckpointRecord,
) (*unit.Unit, error) {
	u, err := s.units.GetForUpdate(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if err = u.AddCheckpoint(record); err != nil {
		return nil, err
	}

	return u, nil
}

// Persist writes the unit projection and appends its pending records to the
// ledger. It returns the ledger entries it created, oldest first.
func (s *Service) Persist(ctx context.Context, u *unit.Unit) ([]*checkpoint.Checkpoint, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var err error
	if u.IsNew() {
		err = s.units.Add(ctx, u)
	} else {
		err = s.units.Update(ctx, u)
	}
	if err != nil {
		return nil, err
	}

	pending := u.PendingCheckpoints()
	entries := make([]*checkpoint.Checkpoint, 0, len(pending))
	for _, record := range pending {
		entry, entryErr := checkpoint.NewCheckpoint(u.TrackingID(), record)
		if entryErr != nil {
			return nil, entryErr
		}
		if entryErr = s.ledger.Add(ctx, entry); entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetUnit returns the unit for trackingID, or nil when none is stored.
func (s *Service) GetUnit(ctx context.Context, trackingID kernel.TrackingID) (*unit.Unit, error) {
	u, err := s.units.Get(ctx, trackingID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil //nolint:nilnil // absence is a valid result
	}
	return u, err
}

// GetUnitsByStatus returns one page of units in status and the total count.
func (s *Service) GetUnitsByStatus(
	ctx context.Context,
	status unit.Status,
	limit, offset int,
) ([]*unit.Unit, int64, error) {
	if err := status.Validate(); err != nil {
		return nil, 0, err
	}

	total, err := s.units.CountByStatus(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	units, err := s.units.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return units, total, nil
}

// GetHistory returns the ledger of trackingID sorted by business timestamp.
// Fails with *errs.ObjectNotFoundError when the unit does not exist.
func (s *Service) GetHistory(ctx context.Context, trackingID kernel.TrackingID) ([]*checkpoint.Checkpoint, error) {
	exists, err := s.units.Exists(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("tracking_id", trackingID.String())
	}

	entries, err := s.ledger.ListByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	checkpoint.SortByTimestamp(entries)
	return entries, nil
}
