package commands

import (
	"context"
	"time"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/ports"
)

// appendAudit records one audit entry through the transaction-bound
// repository.
func appendAudit(
	ctx context.Context,
	repo ports.AuditRepository,
	actorID *kernel.UUID,
	action auditlog.Action,
	entityType string,
	entityID kernel.UUID,
	details map[string]any,
	at time.Time,
) error {
	entry, err := auditlog.NewEntry(kernel.NewUUID(), actorID, action, entityType, entityID, details, at)
	if err != nil {
		return err
	}
	return repo.Add(ctx, entry)
}

// notify stores one notification through the transaction-bound repository.
func notify(
	ctx context.Context,
	repo ports.NotificationRepository,
	recipientID kernel.UUID,
	kind notification.Kind,
	message string,
	at time.Time,
) error {
	entry, err := notification.NewNotification(kernel.NewUUID(), recipientID, kind, message, at)
	if err != nil {
		return err
	}
	return repo.Add(ctx, entry)
}
