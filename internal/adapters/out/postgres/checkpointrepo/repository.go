package checkpointrepo

import (
	"context"
	"fmt"
	"time"

	"tracking/internal/adapters/out/postgres/pgerr"
	"tracking/internal/core/domain/model/checkpoint"
	"tracking/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormCheckpointRepository implements ports.CheckpointRepository using GORM.
// It only ever inserts and selects.
type GormCheckpointRepository struct {
	db *gorm.DB
}

func NewGormCheckpointRepository(db *gorm.DB) *GormCheckpointRepository {
	return &GormCheckpointRepository{db: db}
}

// Add appends entry. A second entry for the same tracking id and timestamp
// fails with *errs.ObjectAlreadyExistsError.
func (r *GormCheckpointRepository) Add(ctx context.Context, entry *checkpoint.Checkpoint) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "checkpoint",
			fmt.Sprintf("%s@%s", dto.TrackingID, dto.Timestamp.Format(time.RFC3339Nano)))
	}

	return nil
}

// ListByTrackingID returns the ledger of trackingID ordered by timestamp.
func (r *GormCheckpointRepository) ListByTrackingID(
	ctx context.Context,
	trackingID kernel.TrackingID,
) ([]*checkpoint.Checkpoint, error) {
	if err := trackingID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CheckpointDTO
	if err := r.db.WithContext(ctx).
		Where("tracking_id = ?", trackingID.String()).
		Order(`"timestamp" ASC`).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*checkpoint.Checkpoint, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
