package importrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
)

// GormImportRepository implements ImportRepository using GORM.
type GormImportRepository struct {
	db *gorm.DB
}

// NewGormImportRepository creates a new GORM import repository.
func NewGormImportRepository(db *gorm.DB) *GormImportRepository {
	return &GormImportRepository{db: db}
}

// Add saves a new import batch to the database.
func (r *GormImportRepository) Add(ctx context.Context, batch *csvimport.Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(batch)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves the batch's settled status and row bookkeeping.
func (r *GormImportRepository) Update(ctx context.Context, batch *csvimport.Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(batch)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&BatchDTO{}).
		Where("id = ?", dto.ID).
		Select("Status", "TotalRows", "ValidRows", "RowErrors").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves an import batch by ID.
func (r *GormImportRepository) Get(ctx context.Context, id kernel.UUID) (*csvimport.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("importBatch", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
