package ports

import (
	"context"

	"printflow/internal/core/domain/model/notification"
)

// Notifier delivers a stored notification over an outer channel such as
// email. Delivery is best effort: implementations report failures through
// the returned error, and callers log and move on rather than fail the
// operation that produced the notification.
type Notifier interface {
	Deliver(ctx context.Context, aggregate *notification.Notification) error
}
