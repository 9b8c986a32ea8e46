// Package checkpointrepo persists the append-only checkpoint ledger.
package checkpointrepo

import (
	"time"

	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"

	"github.com/google/uuid"
)

// CheckpointDTO is one row of the checkpoints table. A tracking id never has
// two entries with the same business timestamp.
type CheckpointDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingID string    `gorm:"type:varchar(50);not null;index;uniqueIndex:idx_checkpoints_tracking_timestamp,priority:1"`
	Status     string    `gorm:"type:varchar(20);not null"`
	Timestamp  time.Time `gorm:"column:timestamp;not null;index;uniqueIndex:idx_checkpoints_tracking_timestamp,priority:2"`
	Location   *string   `gorm:"type:varchar(200)"`
	Notes      *string   `gorm:"type:text"`
	OperatorID *string   `gorm:"type:varchar(50)"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false"`
}

func (CheckpointDTO) TableName() string {
	return "checkpoints"
}

// Record rebuilds the domain record stored in the row.
func (d CheckpointDTO) Record() (unit.CheckpointRecord, error) {
	status, err := unit.ParseStatus(d.Status)
	if err != nil {
		return unit.CheckpointRecord{}, err
	}

	return unit.RestoreCheckpointRecord(status, d.Timestamp, unit.RecordDetails{
		Location:   fromNullable(d.Location),
		Notes:      fromNullable(d.Notes),
		OperatorID: fromNullable(d.OperatorID),
	})
}

func fromDomain(entry *checkpoint.Checkpoint) CheckpointDTO {
	record := entry.Record()
	return CheckpointDTO{
		ID:         entry.ID().Value(),
		TrackingID: entry.TrackingID().String(),
		Status:     record.Status().String(),
		Timestamp:  record.Timestamp(),
		Location:   toNullable(record.Location()),
		Notes:      toNullable(record.Notes()),
		OperatorID: toNullable(record.OperatorID()),
		CreatedAt:  entry.CreatedAt(),
	}
}

func toDomain(dto CheckpointDTO) (*checkpoint.Checkpoint, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trackingID, err := kernel.NewTrackingID(dto.TrackingID)
	if err != nil {
		return nil, err
	}

	record, err := dto.Record()
	if err != nil {
		return nil, err
	}

	return checkpoint.RestoreCheckpoint(id, trackingID, record, dto.CreatedAt)
}

func toNullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
