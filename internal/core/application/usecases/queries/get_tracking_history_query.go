package queries

import (
	"errors"

	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/guard"
)

var ErrGetTrackingHistoryQueryIsNotConstructed = errors.New(
	"GetTrackingHistoryQuery must be created via NewGetTrackingHistoryQuery constructor",
)

// GetTrackingHistoryQuery fetches a unit and its full ledger.
//
// Example:
//
//	query, err := NewGetTrackingHistoryQuery("TEST123")
//	if err != nil {
//	    return err // malformed tracking id
//	}
//	history, err := handler.Handle(ctx, query)
//	fmt.Printf("%s has %d checkpoints\n", history.Unit.TrackingID(), history.TotalCheckpoints)
type GetTrackingHistoryQuery struct {
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

func NewGetTrackingHistoryQuery(trackingID string) (GetTrackingHistoryQuery, error) {
	id, err := kernel.NewTrackingID(trackingID)
	if err != nil {
		return GetTrackingHistoryQuery{}, err
	}

	return GetTrackingHistoryQuery{
		trackingID: id,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingHistoryQueryIsNotConstructed)
}

func (q GetTrackingHistoryQuery) TrackingID() kernel.TrackingID {
	return q.trackingID
}

// GetTrackingHistoryQueryResponse holds the unit projection and its ledger
// sorted ascending by business timestamp.
type GetTrackingHistoryQueryResponse struct {
	Unit             *unit.Unit
	Checkpoints      []*checkpoint.Checkpoint
	TotalCheckpoints int
}
