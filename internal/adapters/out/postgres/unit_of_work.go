// Package postgres provides the GORM-based Unit of Work over the units table
// and the checkpoint ledger.
//
// A registration must lock the unit, validate, update the projection and
// append ledger rows atomically, so every write goes through one transaction:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx) // no-op error after a successful Commit
//	}()
//
//	u, err := uow.UnitRepository().GetForUpdate(ctx, trackingID)
//	if err != nil {
//	    return err
//	}
//	...
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance holds its own transaction; goroutines must not
// share one.
package postgres

import (
	"context"

	"tracking/internal/adapters/out/postgres/checkpointrepo"
	"tracking/internal/adapters/out/postgres/unitrepo"
	"tracking/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling it again while a transaction is open
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback returns gorm.ErrInvalidTransaction when no transaction is open,
// which makes a deferred Rollback after Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// UnitRepository runs on the open transaction, or on the pool when none is open.
func (uow *GormUnitOfWork) UnitRepository() ports.UnitRepository {
	return unitrepo.NewGormUnitRepository(uow.conn())
}

// CheckpointRepository runs on the open transaction, or on the pool when none is open.
func (uow *GormUnitOfWork) CheckpointRepository() ports.CheckpointRepository {
	return checkpointrepo.NewGormCheckpointRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
