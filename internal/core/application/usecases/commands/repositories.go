// Package commands contains business operations that modify system state.
// Every handler follows the same pattern: validate the command, open a unit
// of work, run the lifecycle service against its repositories, commit.
package commands

import (
	"context"

	"tracking/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// UnitRepoFactory provides access to the unit repository within a transaction.
	UnitRepoFactory interface {
		UnitRepository() ports.UnitRepository
	}

	// CheckpointRepoFactory provides access to the ledger within a transaction.
	CheckpointRepoFactory interface {
		CheckpointRepository() ports.CheckpointRepository
	}

	// UoW spans the unit store and the ledger, so a unit projection and its
	// new ledger entries commit together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   svc := lifecycle.NewService(uow.UnitRepository(), uow.CheckpointRepository(), policy)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		UnitRepoFactory
		CheckpointRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
