package queries

import (
	"context"

	"tracking/internal/core/application/lifecycle"
)

// ListUnitsByStatusQueryHandler pages through units currently in one status.
type ListUnitsByStatusQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewListUnitsByStatusQueryHandler(uowFactory ReadUoWFactory) ListUnitsByStatusQueryHandler {
	return ListUnitsByStatusQueryHandler{uowFactory: uowFactory}
}

// Handle returns the requested page. Total counts the full matching set and
// HasMore is offset+limit < total, compared without summing so a huge offset
// cannot wrap.
func (h ListUnitsByStatusQueryHandler) Handle(
	ctx context.Context,
	query ListUnitsByStatusQuery,
) (ListUnitsByStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListUnitsByStatusQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ListUnitsByStatusQueryResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	svc := lifecycle.NewService(uow.UnitRepository(), uow.CheckpointRepository(), lifecycle.DefaultPolicy())

	units, total, err := svc.GetUnitsByStatus(ctx, query.Status(), query.Limit(), query.Offset())
	if err != nil {
		return ListUnitsByStatusQueryResponse{}, err
	}

	return ListUnitsByStatusQueryResponse{
		Units: units,
		Pagination: Pagination{
			Total:   total,
			Limit:   query.Limit(),
			Offset:  query.Offset(),
			HasMore: int64(query.Offset()) < total-int64(query.Limit()),
		},
		Status: query.Status(),
	}, nil
}
