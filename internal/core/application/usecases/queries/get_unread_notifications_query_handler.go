package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
)

// GetUnreadNotificationsQueryHandler lists a recipient's unread
// notifications from the database.
type GetUnreadNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetUnreadNotificationsQueryHandler creates a handler for unread
// notification queries.
func NewGetUnreadNotificationsQueryHandler(db *gorm.DB) GetUnreadNotificationsQueryHandler {
	return GetUnreadNotificationsQueryHandler{db: db}
}

// Handle executes the query, oldest notification first.
func (h GetUnreadNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetUnreadNotificationsQuery,
) ([]GetUnreadNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			message,
			created_at
		FROM notifications
		WHERE recipient_id = ? AND is_read = false
		ORDER BY created_at
	`, query.RecipientID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]GetUnreadNotificationsQueryResponse, 0)

	for rows.Next() {
		var notificationResp GetUnreadNotificationsQueryResponse
		var id uuid.UUID
		var kind int
		var createdAt time.Time

		err = rows.Scan(&id, &kind, &notificationResp.Message, &createdAt)
		if err != nil {
			return nil, err
		}

		notificationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		notificationResp.ID = notificationID
		notificationResp.Kind = notification.Kind(kind).String()
		notificationResp.CreatedAt = createdAt.UTC()
		notifications = append(notifications, notificationResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
