// Package auditrepo persists the append-only audit trail. Entries are
// written once and never updated or deleted.
package auditrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
)

// EntryDTO represents the database structure for audit entries. The
// structured details travel as a JSONB document.
type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Action     string
	EntityType string `gorm:"index:idx_audit_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;index:idx_audit_entity"`
	Details    []byte `gorm:"type:jsonb"`
	RecordedAt time.Time
}

// TableName specifies the database table name for audit entries.
func (EntryDTO) TableName() string {
	return "audit_entries"
}

func fromDomain(entry *auditlog.Entry) (EntryDTO, error) {
	var actorID *uuid.UUID
	if id := entry.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	details, err := json.Marshal(entry.Details())
	if err != nil {
		return EntryDTO{}, err
	}

	return EntryDTO{
		ID:         entry.ID().Bytes(),
		ActorID:    actorID,
		Action:     string(entry.Action()),
		EntityType: entry.EntityType(),
		EntityID:   entry.EntityID().Bytes(),
		Details:    details,
		RecordedAt: entry.RecordedAt(),
	}, nil
}

func toDomain(dto EntryDTO) (*auditlog.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		aID, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return nil, actorErr
		}

		actorID = &aID
	}

	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	var details map[string]any
	if len(dto.Details) > 0 {
		if err = json.Unmarshal(dto.Details, &details); err != nil {
			return nil, err
		}
	}

	return auditlog.RestoreEntry(id, actorID, auditlog.Action(dto.Action),
		dto.EntityType, entityID, details, dto.RecordedAt)
}
