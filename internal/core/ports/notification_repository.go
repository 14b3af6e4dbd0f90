package ports

import (
	"context"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for durable user
// notifications.
type NotificationRepository interface {
	// Add persists a new notification.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// Get retrieves a notification by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// GetUnreadByRecipient retrieves the recipient's unread notifications,
	// newest first.
	GetUnreadByRecipient(ctx context.Context, recipientID kernel.UUID) ([]*notification.Notification, error)

	// GetUndispatched retrieves notifications not yet forwarded to their
	// outer channel, oldest first, up to limit.
	GetUndispatched(ctx context.Context, limit int) ([]*notification.Notification, error)

	// Update persists the notification's read and dispatch flags.
	Update(ctx context.Context, aggregate *notification.Notification) error
}
