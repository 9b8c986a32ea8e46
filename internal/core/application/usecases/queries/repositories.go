// Package queries contains read-only operations over units and their ledger.
// Handlers read inside a transaction for a consistent snapshot and never commit.
package queries

import (
	"context"

	"tracking/internal/core/ports"
)

type (
	// ReadUoW exposes the repositories of one read transaction.
	ReadUoW interface {
		Begin(ctx context.Context) error
		Rollback(ctx context.Context) error
		UnitRepository() ports.UnitRepository
		CheckpointRepository() ports.CheckpointRepository
	}

	// ReadUoWFactory creates read transactions.
	ReadUoWFactory interface {
		Create() ReadUoW
	}
)
