// Package checkpoint defines the ledger entry persisted for every record a
// unit accepts. Entries are append-only: they are created once, stored, and
// afterwards only read back and sorted by business timestamp.
package checkpoint

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
)

// ErrCheckpointIsNotConstructed is returned for a Checkpoint not built by NewCheckpoint or RestoreCheckpoint.
var ErrCheckpointIsNotConstructed = errors.New("Checkpoint must be created via NewCheckpoint constructor")

// Checkpoint is one immutable ledger entry. CreatedAt is the ingestion time
// and is independent of the record's business timestamp.
type Checkpoint struct {
	id         kernel.UUID
	trackingID kernel.TrackingID
	record     unit.CheckpointRecord
	createdAt  time.Time

	isConstructed bool
}

// NewCheckpoint creates a ledger entry for record with a fresh id and the
// current ingestion time.
//
// Example:
//
//	for _, record := range u.PendingCheckpoints() {
//	    cp, err := checkpoint.NewCheckpoint(u.TrackingID(), record)
//	    if err != nil {
//	        return err
//	    }
//	    if err = repo.Add(ctx, cp); err != nil {
//	        return err
//	    }
//	}
func NewCheckpoint(trackingID kernel.TrackingID, record unit.CheckpointRecord) (*Checkpoint, error) {
	return RestoreCheckpoint(kernel.NewUUID(), trackingID, record, time.Now())
}

// RestoreCheckpoint rebuilds a stored ledger entry.
func RestoreCheckpoint(
	id kernel.UUID,
	trackingID kernel.TrackingID,
	record unit.CheckpointRecord,
	createdAt time.Time,
) (*Checkpoint, error) {
	if err := errors.Join(id.Validate(), trackingID.Validate(), record.Validate()); err != nil {
		return nil, err
	}

	return &Checkpoint{
		id:            id,
		trackingID:    trackingID,
		record:        record,
		createdAt:     createdAt.UTC().Truncate(time.Microsecond),
		isConstructed: true,
	}, nil
}

// Validate returns ErrCheckpointIsNotConstructed for nil or zero-value entries.
func (c *Checkpoint) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCheckpointIsNotConstructed
	}
	return nil
}

func (c *Checkpoint) ID() kernel.UUID {
	return c.id
}

func (c *Checkpoint) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c *Checkpoint) Record() unit.CheckpointRecord {
	return c.record
}

func (c *Checkpoint) Status() unit.Status {
	return c.record.Status()
}

func (c *Checkpoint) Timestamp() time.Time {
	return c.record.Timestamp()
}

func (c *Checkpoint) CreatedAt() time.Time {
	return c.createdAt
}

// SortByTimestamp orders entries by business timestamp, ascending, in place.
// Entries with equal timestamps keep their relative order.
func SortByTimestamp(entries []*Checkpoint) {
	slices.SortStableFunc(entries, func(a, b *Checkpoint) int {
		return cmp.Compare(a.Timestamp().UnixMicro(), b.Timestamp().UnixMicro())
	})
}

// Records extracts the records of entries in their current order.
func Records(entries []*Checkpoint) []unit.CheckpointRecord {
	records := make([]unit.CheckpointRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.record)
	}
	return records
}
