// Package ports declares the contracts the application core needs from its
// infrastructure: unit and ledger persistence, the transaction boundary, and
// the background job queue.
package ports

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
)

// UnitRepository persists Unit aggregates. A loaded unit always carries its
// full ledger, read from the checkpoint store in timestamp order.
type UnitRepository interface {
	// Add stores a new unit row. Returns *errs.ObjectAlreadyExistsError when
	// the tracking id is already taken.
	Add(ctx context.Context, aggregate *unit.Unit) error

	// Update stores the current projection of an existing unit. The write is
	// conditional on the version the unit was loaded with; a concurrent change
	// yields *errs.ConcurrencyConflictError.
	Update(ctx context.Context, aggregate *unit.Unit) error

	// Get loads a unit by tracking id. Returns *errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, trackingID kernel.TrackingID) (*unit.Unit, error)

	// GetForUpdate is Get with a row lock held until the transaction ends, so
	// concurrent read-validate-write cycles on the same unit serialize.
	GetForUpdate(ctx context.Context, trackingID kernel.TrackingID) (*unit.Unit, error)

	// Exists reports whether a unit with trackingID is stored.
	Exists(ctx context.Context, trackingID kernel.TrackingID) (bool, error)

	// ListByStatus returns one page of units currently in status, oldest first.
	ListByStatus(ctx context.Context, status unit.Status, limit, offset int) ([]*unit.Unit, error)

	// CountByStatus returns the size of the full matching set.
	CountByStatus(ctx context.Context, status unit.Status) (int64, error)
}
