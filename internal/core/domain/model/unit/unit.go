package unit

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
)

// bootstrapOffset separates a synthesized CREATED record from the first
// observed checkpoint of a unit that was never registered explicitly.
const bootstrapOffset = time.Microsecond

// Unit is the aggregate root of the tracking domain. It owns the current
// status and the append-only, chronologically ordered sequence of checkpoint
// records, and it is the only place where the transition table is enforced.
//
// Unit maintains these invariants:
//   - the sequence is never empty
//   - CurrentStatus equals the status of the last record
//   - timestamps strictly increase along the sequence
//   - each consecutive pair of statuses is an edge of the transition table
//
// A Unit is mutable within one unit of work and is not safe for concurrent use.
type Unit struct {
	id            kernel.UUID
	trackingID    kernel.TrackingID
	currentStatus Status
	createdAt     time.Time
	updatedAt     time.Time
	records       []CheckpointRecord

	// persisted is the number of leading records already stored in the ledger.
	persisted int

	// version is the optimistic concurrency token of the stored row.
	version int64

	isConstructed bool
}

// NewUnit creates a unit whose sole record has initialStatus and the current time.
//
// Example:
//
//	u, err := unit.NewUnit(kernel.MustTrackingID("TEST123"), unit.Created)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(u.CurrentStatus()) // CREATED
func NewUnit(trackingID kernel.TrackingID, initialStatus Status) (*Unit, error) {
	record, recordErr := NewCheckpointRecord(initialStatus, time.Now(), RecordDetails{})
	if err := errors.Join(trackingID.Validate(), recordErr); err != nil {
		return nil, err
	}
	return NewUnitFromRecord(trackingID, record)
}

// NewUnitFromRecord creates a unit whose sole record is initial.
func NewUnitFromRecord(trackingID kernel.TrackingID, initial CheckpointRecord) (*Unit, error) {
	if err := errors.Join(trackingID.Validate(), initial.Validate()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Unit{
		id:            kernel.NewUUID(),
		trackingID:    trackingID,
		currentStatus: initial.Status(),
		createdAt:     now,
		updatedAt:     now,
		records:       []CheckpointRecord{initial},
		isConstructed: true,
	}, nil
}

// NewBootstrapUnit creates a unit for the first checkpoint ever observed for
// trackingID.
//
// When incoming is a CREATED record the unit is created from it directly.
// Otherwise the unit starts from a synthesized CREATED record placed one
// microsecond before incoming, so the caller can then apply incoming through
// AddCheckpoint under the regular transition and ordering rules.
func NewBootstrapUnit(trackingID kernel.TrackingID, incoming CheckpointRecord) (*Unit, error) {
	if err := incoming.Validate(); err != nil {
		return nil, err
	}

	if incoming.Status() == Created {
		return NewUnitFromRecord(trackingID, incoming)
	}

	bootstrap := CheckpointRecord{
		status:        Created,
		isConstructed: true,
	}.withTimestamp(incoming.Timestamp().Add(-bootstrapOffset))

	return NewUnitFromRecord(trackingID, bootstrap)
}

// RestoreUnit rebuilds a unit from persisted state. records must be the full
// ledger in chronological order; the current status is derived from the last
// one and every invariant is re-checked.
func RestoreUnit(
	id kernel.UUID,
	trackingID kernel.TrackingID,
	createdAt, updatedAt time.Time,
	version int64,
	records []CheckpointRecord,
) (*Unit, error) {
	if err := errors.Join(id.Validate(), trackingID.Validate()); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.NewValueIsRequiredErrorWithCause(
			"checkpoints",
			fmt.Errorf("unit %s has an empty ledger", trackingID),
		)
	}

	for i, record := range records {
		if err := record.Validate(); err != nil {
			return nil, err
		}
		if i == 0 {
			continue
		}
		if err := checkAppend(records[i-1], record); err != nil {
			return nil, err
		}
	}

	return &Unit{
		id:            id,
		trackingID:    trackingID,
		currentStatus: records[len(records)-1].Status(),
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		records:       slices.Clone(records),
		persisted:     len(records),
		version:       version,
		isConstructed: true,
	}, nil
}

// Validate returns ErrUnitIsNotConstructed for nil or zero-value units.
func (u *Unit) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUnitIsNotConstructed
	}
	return nil
}

// AddCheckpoint appends record after checking the transition from the current
// status and the strict timestamp ordering, in that order. On failure the
// unit is left untouched.
//
// Returns:
//   - *InvalidTransitionError when record.Status() is not reachable
//   - *OutOfOrderTimestampError when record is not after the last record
func (u *Unit) AddCheckpoint(record CheckpointRecord) error {
	if err := errors.Join(u.Validate(), record.Validate()); err != nil {
		return err
	}

	if err := checkAppend(u.records[len(u.records)-1], record); err != nil {
		return err
	}

	u.records = append(u.records, record)
	u.currentStatus = record.Status()
	u.updatedAt = time.Now().UTC()
	return nil
}

func checkAppend(last, next CheckpointRecord) error {
	if !last.Status().CanTransition(next.Status()) {
		return NewInvalidTransitionError(last.Status(), next.Status())
	}
	if !next.Timestamp().After(last.Timestamp()) {
		return NewOutOfOrderTimestampError(last.Timestamp(), next.Timestamp())
	}
	return nil
}

func (u *Unit) ID() kernel.UUID {
	return u.id
}

func (u *Unit) TrackingID() kernel.TrackingID {
	return u.trackingID
}

func (u *Unit) CurrentStatus() Status {
	return u.currentStatus
}

func (u *Unit) CreatedAt() time.Time {
	return u.createdAt
}

func (u *Unit) UpdatedAt() time.Time {
	return u.updatedAt
}

// Version is the concurrency token the unit was loaded with (0 for new units).
func (u *Unit) Version() int64 {
	return u.version
}

// IsNew reports whether the unit has never been stored.
func (u *Unit) IsNew() bool {
	return u.persisted == 0
}

// Checkpoints returns a copy of the record sequence in chronological order.
func (u *Unit) Checkpoints() []CheckpointRecord {
	return slices.Clone(u.records)
}

// LastCheckpoint returns the most recent record.
func (u *Unit) LastCheckpoint() CheckpointRecord {
	return u.records[len(u.records)-1]
}

// PendingCheckpoints returns the records appended since the unit was created
// or restored, which the caller still has to write to the ledger.
func (u *Unit) PendingCheckpoints() []CheckpointRecord {
	return slices.Clone(u.records[u.persisted:])
}

func (u *Unit) IsDelivered() bool {
	return u.currentStatus == Delivered
}

func (u *Unit) HasException() bool {
	return u.currentStatus == Exception
}

// DeliveryTime returns the timestamp of the last DELIVERED record, if any.
func (u *Unit) DeliveryTime() (time.Time, bool) {
	for i := len(u.records) - 1; i >= 0; i-- {
		if u.records[i].Status() == Delivered {
			return u.records[i].Timestamp(), true
		}
	}
	return time.Time{}, false
}

// IsEqual compares units by identity.
func (u *Unit) IsEqual(other *Unit) bool {
	return other != nil && u.id.IsEqual(other.id)
}
