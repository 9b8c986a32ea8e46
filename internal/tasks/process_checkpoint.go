package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/ports"
	"tracking/internal/worker"

	"go.uber.org/zap"
)

// HistoryReader loads a unit together with its ledger.
type HistoryReader interface {
	Handle(ctx context.Context, query queries.GetTrackingHistoryQuery) (queries.GetTrackingHistoryQueryResponse, error)
}

// ProcessCheckpointHandler confirms that a registered checkpoint is visible
// in its unit's ledger and logs the resulting unit state.
type ProcessCheckpointHandler struct {
	history HistoryReader
	logger  *zap.Logger
}

func NewProcessCheckpointHandler(history HistoryReader, logger *zap.Logger) *ProcessCheckpointHandler {
	return &ProcessCheckpointHandler{
		history: history,
		logger:  logger.With(zap.String("component", ports.JobProcessCheckpoint)),
	}
}

func (h *ProcessCheckpointHandler) Handle(ctx context.Context, raw []byte) error {
	var payload ports.ProcessCheckpointPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return worker.Permanent(fmt.Errorf("decode payload: %w", err))
	}

	query, err := queries.NewGetTrackingHistoryQuery(payload.TrackingID)
	if err != nil {
		return worker.Permanent(err)
	}

	history, err := h.history.Handle(ctx, query)
	if err != nil {
		return err
	}

	found := false
	for _, entry := range history.Checkpoints {
		if entry.ID().String() == payload.CheckpointID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("checkpoint %s is not in the ledger of %s yet", payload.CheckpointID, payload.TrackingID)
	}

	h.logger.Info("checkpoint processed",
		zap.String("tracking_id", payload.TrackingID),
		zap.String("checkpoint_id", payload.CheckpointID),
		zap.String("status", payload.Status),
		zap.String("current_status", history.Unit.CurrentStatus().String()),
		zap.Int("total_checkpoints", history.TotalCheckpoints),
	)
	return nil
}
