package auditrepo

import (
	"context"

	"gorm.io/gorm"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
)

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Add appends an audit entry.
func (r *GormAuditRepository) Add(ctx context.Context, entry *auditlog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByEntity retrieves the audit trail of one entity, oldest first.
func (r *GormAuditRepository) GetByEntity(ctx context.Context, entityType string, entityID kernel.UUID) ([]*auditlog.Entry, error) {
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Order("recorded_at").
		Find(&dtos, "entity_type = ? AND entity_id = ?", entityType, entityID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*auditlog.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := toDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
