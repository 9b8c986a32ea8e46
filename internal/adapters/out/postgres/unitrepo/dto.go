// Package unitrepo persists the Unit aggregate. The units table holds the
// current projection; the record sequence is always read back from the
// checkpoints ledger.
package unitrepo

import (
	"time"

	"tracking/internal/adapters/out/postgres/checkpointrepo"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"

	"github.com/google/uuid"
)

// UnitDTO is one row of the units table. Version is bumped by every update.
type UnitDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingID    string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CurrentStatus string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime:false"`
	Version       int64     `gorm:"not null;default:0"`
}

func (UnitDTO) TableName() string {
	return "units"
}

func fromDomain(aggregate *unit.Unit) UnitDTO {
	return UnitDTO{
		ID:            aggregate.ID().Value(),
		TrackingID:    aggregate.TrackingID().String(),
		CurrentStatus: aggregate.CurrentStatus().String(),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
		Version:       aggregate.Version(),
	}
}

// toDomain rebuilds the aggregate from its row and its ledger rows in
// timestamp order. The stored current_status is not trusted; it is derived
// from the ledger.
func toDomain(dto UnitDTO, ledger []checkpointrepo.CheckpointDTO) (*unit.Unit, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trackingID, err := kernel.NewTrackingID(dto.TrackingID)
	if err != nil {
		return nil, err
	}

	records := make([]unit.CheckpointRecord, 0, len(ledger))
	for _, row := range ledger {
		record, recordErr := row.Record()
		if recordErr != nil {
			return nil, recordErr
		}
		records = append(records, record)
	}

	return unit.RestoreUnit(id, trackingID, dto.CreatedAt, dto.UpdatedAt, dto.Version, records)
}
