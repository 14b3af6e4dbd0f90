// Package notificationrepo persists notifications and their read/dispatch
// flags.
package notificationrepo

import (
	"time"

	"github.com/google/uuid"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
)

// NotificationDTO represents the database structure for notifications.
// Indexed by recipient for the unread listing and by the dispatch flag for
// the forwarding job.
type NotificationDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID  uuid.UUID `gorm:"type:uuid;index"`
	Kind         int
	Message      string
	IsRead       bool
	IsDispatched bool `gorm:"index"`
	CreatedAt    time.Time
}

// TableName specifies the database table name for notification entities.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(aggregate *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:           aggregate.ID().Bytes(),
		RecipientID:  aggregate.RecipientID().Bytes(),
		Kind:         int(aggregate.Kind()),
		Message:      aggregate.Message(),
		IsRead:       aggregate.IsRead(),
		IsDispatched: aggregate.IsDispatched(),
		CreatedAt:    aggregate.CreatedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(id, recipientID, notification.Kind(dto.Kind),
		dto.Message, dto.IsRead, dto.IsDispatched, dto.CreatedAt)
}
