package commands

import (
	"context"

	"tracking/internal/core/application/lifecycle"
	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/unit"
)

// CreateUnitResult carries the stored unit and its initial ledger entry.
type CreateUnitResult struct {
	Unit              *unit.Unit
	InitialCheckpoint *checkpoint.Checkpoint
}

// CreateUnitCommandHandler stores a new unit together with its initial
// ledger entry in one transaction.
//
// Example:
//
//	handler := NewCreateUnitCommandHandler(uowFactory)
//	cmd, _ := NewCreateUnitCommand("TEST123", "")
//
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectAlreadyExists) {
//	    // tracking id already registered
//	}
type CreateUnitCommandHandler struct {
	uowFactory UoWFactory
}

func NewCreateUnitCommandHandler(uowFactory UoWFactory) CreateUnitCommandHandler {
	return CreateUnitCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *CreateUnitCommandHandler) Handle(ctx context.Context, cmd CreateUnitCommand) (CreateUnitResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateUnitResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateUnitResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	svc := lifecycle.NewService(uow.UnitRepository(), uow.CheckpointRepository(), lifecycle.DefaultPolicy())

	u, err := svc.CreateUnit(ctx, cmd.TrackingID(), cmd.InitialStatus())
	if err != nil {
		return CreateUnitResult{}, err
	}

	entries, err := svc.Persist(ctx, u)
	if err != nil {
		return CreateUnitResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateUnitResult{}, err
	}

	return CreateUnitResult{
		Unit:              u,
		InitialCheckpoint: entries[0],
	}, nil
}
