package http

import (
	"time"

	"tracking/internal/adapters/in/http/contract"
	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/unit"
)

func toUnit(u *unit.Unit) contract.Unit {
	records := u.Checkpoints()
	data := make([]contract.CheckpointData, len(records))
	for i, record := range records {
		data[i] = toCheckpointData(record)
	}

	var deliveryTime *time.Time
	if ts, ok := u.DeliveryTime(); ok {
		deliveryTime = &ts
	}

	return contract.Unit{
		Id:            u.ID().Value(),
		TrackingId:    u.TrackingID().String(),
		CurrentStatus: contract.UnitStatus(u.CurrentStatus().String()),
		CreatedAt:     u.CreatedAt(),
		UpdatedAt:     u.UpdatedAt(),
		Checkpoints:   data,
		IsDelivered:   u.IsDelivered(),
		HasException:  u.HasException(),
		DeliveryTime:  deliveryTime,
	}
}

func toCheckpointData(record unit.CheckpointRecord) contract.CheckpointData {
	return contract.CheckpointData{
		Status:     contract.UnitStatus(record.Status().String()),
		Timestamp:  record.Timestamp(),
		Location:   optional(record.Location()),
		Notes:      optional(record.Notes()),
		OperatorId: optional(record.OperatorID()),
	}
}

func toCheckpoint(cp *checkpoint.Checkpoint) contract.Checkpoint {
	record := cp.Record()

	return contract.Checkpoint{
		Id:         cp.ID().Value(),
		TrackingId: cp.TrackingID().String(),
		Status:     contract.UnitStatus(record.Status().String()),
		Timestamp:  record.Timestamp(),
		Location:   optional(record.Location()),
		Notes:      optional(record.Notes()),
		OperatorId: optional(record.OperatorID()),
		CreatedAt:  cp.CreatedAt(),
	}
}

func toCheckpoints(entries []*checkpoint.Checkpoint) []contract.Checkpoint {
	out := make([]contract.Checkpoint, len(entries))
	for i, cp := range entries {
		out[i] = toCheckpoint(cp)
	}
	return out
}

// optional renders "not provided" as JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
