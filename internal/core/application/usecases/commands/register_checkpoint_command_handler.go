package commands

import (
	"context"

	"tracking/internal/core/application/lifecycle"
	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/core/ports"

	"go.uber.org/zap"
)

// RegisterCheckpointResult is the outcome of a successful registration.
type RegisterCheckpointResult struct {
	Unit        *unit.Unit
	Checkpoint  *checkpoint.Checkpoint
	UnitCreated bool
}

// RegisterCheckpointCommandHandler applies a checkpoint inside one unit of
// work and, once committed, enqueues the follow-up jobs.
//
// Steps:
//  1. ensure the unit exists (bootstrap it when unknown and allowed)
//  2. apply the incoming record through the transition and ordering checks
//  3. persist the unit projection and the new ledger entries, commit
//  4. enqueue process_checkpoint, plus send_notification for DELIVERED and
//     EXCEPTION; enqueue failures are logged and never fail the command
type RegisterCheckpointCommandHandler struct {
	uowFactory UoWFactory
	queue      ports.JobQueue
	policy     lifecycle.Policy
	logger     *zap.Logger
}

func NewRegisterCheckpointCommandHandler(
	uowFactory UoWFactory,
	queue ports.JobQueue,
	policy lifecycle.Policy,
	logger *zap.Logger,
) RegisterCheckpointCommandHandler {
	return RegisterCheckpointCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		policy:     policy,
		logger:     logger.With(zap.String("component", "register_checkpoint")),
	}
}

func (h *RegisterCheckpointCommandHandler) Handle(
	ctx context.Context,
	cmd RegisterCheckpointCommand,
) (RegisterCheckpointResult, error) {
	if err := cmd.Validate(); err != nil {
		return RegisterCheckpointResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RegisterCheckpointResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	svc := lifecycle.NewService(uow.UnitRepository(), uow.CheckpointRepository(), h.policy)
	record := cmd.Record()

	u, created, err := svc.EnsureUnit(ctx, cmd.TrackingID(), record)
	if err != nil {
		return RegisterCheckpointResult{}, err
	}

	var entry *checkpoint.Checkpoint
	if created && record.Status() == unit.Created {
		entry, err = h.lastEntry(ctx, svc, u)
	} else {
		u, entry, err = h.apply(ctx, svc, cmd)
	}
	if err != nil {
		return RegisterCheckpointResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RegisterCheckpointResult{}, err
	}

	h.enqueueFollowUps(ctx, entry)

	return RegisterCheckpointResult{
		Unit:        u,
		Checkpoint:  entry,
		UnitCreated: created,
	}, nil
}

func (h *RegisterCheckpointCommandHandler) apply(
	ctx context.Context,
	svc *lifecycle.Service,
	cmd RegisterCheckpointCommand,
) (*unit.Unit, *checkpoint.Checkpoint, error) {
	u, err := svc.AddCheckpoint(ctx, cmd.TrackingID(), cmd.Record())
	if err != nil {
		return nil, nil, err
	}

	entries, err := svc.Persist(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	return u, entries[len(entries)-1], nil
}

func (h *RegisterCheckpointCommandHandler) lastEntry(
	ctx context.Context,
	svc *lifecycle.Service,
	u *unit.Unit,
) (*checkpoint.Checkpoint, error) {
	history, err := svc.GetHistory(ctx, u.TrackingID())
	if err != nil {
		return nil, err
	}

	return history[len(history)-1], nil
}

func (h *RegisterCheckpointCommandHandler) enqueueFollowUps(ctx context.Context, entry *checkpoint.Checkpoint) {
	record := entry.Record()

	h.enqueue(ctx, ports.JobProcessCheckpoint, ports.ProcessCheckpointPayload{
		CheckpointID: entry.ID().String(),
		TrackingID:   entry.TrackingID().String(),
		Status:       record.Status().String(),
		Timestamp:    record.Timestamp(),
	})

	if record.Status().RequiresNotification() {
		h.enqueue(ctx, ports.JobSendNotification, ports.SendNotificationPayload{
			TrackingID: entry.TrackingID().String(),
			Status:     record.Status().String(),
			Location:   record.Location(),
			Timestamp:  record.Timestamp(),
		})
	}
}

func (h *RegisterCheckpointCommandHandler) enqueue(ctx context.Context, name string, payload any) {
	jobID, err := h.queue.Enqueue(ctx, name, payload)
	if err != nil {
		h.logger.Error("failed to enqueue job", zap.String("job", name), zap.Error(err))
		return
	}
	h.logger.Debug("job enqueued", zap.String("job", name), zap.String("job_id", jobID))
}
