package unitrepo

import (
	"context"
	"errors"

	"tracking/internal/adapters/out/postgres/checkpointrepo"
	"tracking/internal/adapters/out/postgres/pgerr"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUnitRepository implements ports.UnitRepository using GORM.
type GormUnitRepository struct {
	db *gorm.DB
}

func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// Add inserts the unit row. Its ledger entries are written separately.
func (r *GormUnitRepository) Add(ctx context.Context, aggregate *unit.Unit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "tracking_id", dto.TrackingID)
	}

	return nil
}

// Update writes the current projection if the row still has the version the
// aggregate was loaded with.
func (r *GormUnitRepository) Update(ctx context.Context, aggregate *unit.Unit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&UnitDTO{}).
		Where("tracking_id = ? AND version = ?", dto.TrackingID, dto.Version).
		Updates(map[string]any{
			"current_status": dto.CurrentStatus,
			"updated_at":     dto.UpdatedAt,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return pgerr.Translate(result.Error, "tracking_id", dto.TrackingID)
	}

	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, aggregate.TrackingID())
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewObjectNotFoundError("tracking_id", dto.TrackingID)
		}
		return errs.NewConcurrencyConflictError("tracking_id", dto.TrackingID)
	}

	return nil
}

func (r *GormUnitRepository) Get(ctx context.Context, trackingID kernel.TrackingID) (*unit.Unit, error) {
	return r.get(ctx, r.db.WithContext(ctx), trackingID)
}

// GetForUpdate locks the unit row until the surrounding transaction ends.
func (r *GormUnitRepository) GetForUpdate(ctx context.Context, trackingID kernel.TrackingID) (*unit.Unit, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), trackingID)
}

func (r *GormUnitRepository) Exists(ctx context.Context, trackingID kernel.TrackingID) (bool, error) {
	if err := trackingID.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&UnitDTO{}).
		Where("tracking_id = ?", trackingID.String()).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// ListByStatus returns units in status ordered by creation time. Ledgers of
// the whole page are loaded with one query.
func (r *GormUnitRepository) ListByStatus(
	ctx context.Context,
	status unit.Status,
	limit, offset int,
) ([]*unit.Unit, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []UnitDTO
	if err := r.db.WithContext(ctx).
		Where("current_status = ?", status.String()).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*unit.Unit{}, nil
	}

	trackingIDs := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		trackingIDs = append(trackingIDs, dto.TrackingID)
	}

	var rows []checkpointrepo.CheckpointDTO
	if err := r.db.WithContext(ctx).
		Where("tracking_id IN ?", trackingIDs).
		Order(`tracking_id ASC, "timestamp" ASC`).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	ledgers := make(map[string][]checkpointrepo.CheckpointDTO, len(dtos))
	for _, row := range rows {
		ledgers[row.TrackingID] = append(ledgers[row.TrackingID], row)
	}

	units := make([]*unit.Unit, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto, ledgers[dto.TrackingID])
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	return units, nil
}

func (r *GormUnitRepository) CountByStatus(ctx context.Context, status unit.Status) (int64, error) {
	if err := status.Validate(); err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&UnitDTO{}).
		Where("current_status = ?", status.String()).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *GormUnitRepository) get(ctx context.Context, query *gorm.DB, trackingID kernel.TrackingID) (*unit.Unit, error) {
	if err := trackingID.Validate(); err != nil {
		return nil, err
	}

	var dto UnitDTO
	if err := query.First(&dto, "tracking_id = ?", trackingID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tracking_id", trackingID.String())
		}
		return nil, err
	}

	var ledger []checkpointrepo.CheckpointDTO
	if err := r.db.WithContext(ctx).
		Where("tracking_id = ?", dto.TrackingID).
		Order(`"timestamp" ASC`).
		Find(&ledger).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, ledger)
}
