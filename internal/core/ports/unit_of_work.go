package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary spanning the unit store and
// the ledger. Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Calling it after Commit is
	// harmless and returns an error the caller may ignore.
	Rollback(ctx context.Context) error

	// UnitRepository returns a repository bound to the current transaction.
	UnitRepository() UnitRepository

	// CheckpointRepository returns a ledger store bound to the current transaction.
	CheckpointRepository() CheckpointRepository
}
