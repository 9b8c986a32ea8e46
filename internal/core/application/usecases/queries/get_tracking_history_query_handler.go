package queries

import (
	"context"

	"tracking/internal/core/application/lifecycle"
	"tracking/internal/pkg/errs"
)

// GetTrackingHistoryQueryHandler reads the unit and its ledger in one
// transaction. The ledger is re-sorted by business timestamp regardless of
// storage order.
type GetTrackingHistoryQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewGetTrackingHistoryQueryHandler(uowFactory ReadUoWFactory) GetTrackingHistoryQueryHandler {
	return GetTrackingHistoryQueryHandler{uowFactory: uowFactory}
}

// Handle fails with *errs.ObjectNotFoundError when the unit does not exist.
func (h GetTrackingHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingHistoryQuery,
) (GetTrackingHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingHistoryQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return GetTrackingHistoryQueryResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	svc := lifecycle.NewService(uow.UnitRepository(), uow.CheckpointRepository(), lifecycle.DefaultPolicy())

	u, err := svc.GetUnit(ctx, query.TrackingID())
	if err != nil {
		return GetTrackingHistoryQueryResponse{}, err
	}
	if u == nil {
		return GetTrackingHistoryQueryResponse{}, errs.NewObjectNotFoundError("tracking_id", query.TrackingID().String())
	}

	entries, err := svc.GetHistory(ctx, query.TrackingID())
	if err != nil {
		return GetTrackingHistoryQueryResponse{}, err
	}

	return GetTrackingHistoryQueryResponse{
		Unit:             u,
		Checkpoints:      entries,
		TotalCheckpoints: len(entries),
	}, nil
}
