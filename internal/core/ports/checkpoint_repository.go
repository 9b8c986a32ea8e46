package ports

import (
	"context"

	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
)

// CheckpointRepository is the append-only ledger store.
type CheckpointRepository interface {
	// Add appends one entry. Entries are never updated or deleted.
	Add(ctx context.Context, entry *checkpoint.Checkpoint) error

	// ListByTrackingID returns every entry of a unit. Callers must not rely
	// on the storage order.
	ListByTrackingID(ctx context.Context, trackingID kernel.TrackingID) ([]*checkpoint.Checkpoint, error)
}
