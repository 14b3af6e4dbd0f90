package ports

import (
	"context"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
)

// AuditRepository defines the persistence contract for the append-only audit
// trail. Entries are written in the same transaction as the change they
// describe and are never updated or deleted.
type AuditRepository interface {
	// Add appends an audit record.
	Add(ctx context.Context, entry *auditlog.Entry) error

	// GetByEntity retrieves the records for one object, oldest first.
	GetByEntity(ctx context.Context, entityType string, entityID kernel.UUID) ([]*auditlog.Entry, error)
}
