package queries

import (
	"errors"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/guard"
)

var ErrGetUnreadNotificationsQueryIsNotConstructed = errors.New(
	"GetUnreadNotificationsQuery must be created via NewGetUnreadNotificationsQuery constructor",
)

// GetUnreadNotificationsQuery retrieves a recipient's unread notifications,
// oldest first.
type GetUnreadNotificationsQuery struct {
	recipientID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetUnreadNotificationsQuery creates a query for unread notifications.
func NewGetUnreadNotificationsQuery(recipientID kernel.UUID) (GetUnreadNotificationsQuery, error) {
	if err := recipientID.Validate(); err != nil {
		return GetUnreadNotificationsQuery{}, err
	}

	return GetUnreadNotificationsQuery{
		recipientID: recipientID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUnreadNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnreadNotificationsQueryIsNotConstructed)
}

// RecipientID returns the recipient whose notifications are listed.
func (q GetUnreadNotificationsQuery) RecipientID() kernel.UUID {
	return q.recipientID
}

// GetUnreadNotificationsQueryResponse represents one unread notification.
type GetUnreadNotificationsQueryResponse struct {
	ID        kernel.UUID
	Kind      string
	Message   string
	CreatedAt time.Time
}
