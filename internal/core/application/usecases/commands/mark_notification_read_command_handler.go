package commands

import (
	"context"

	"printflow/internal/pkg/errs"
)

// MarkNotificationReadCommandHandler acknowledges a notification on behalf
// of its recipient. A notification belonging to someone else is reported as
// not found rather than refused, so the endpoint does not leak which
// identifiers exist.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

// NewMarkNotificationReadCommandHandler creates a handler for notification
// acknowledgements.
func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) (MarkNotificationReadCommandHandler, error) {
	if uowFactory == nil {
		return MarkNotificationReadCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}

	return MarkNotificationReadCommandHandler{uowFactory: uowFactory}, nil
}

// Handle processes the acknowledgement command.
func (h *MarkNotificationReadCommandHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	notificationRepo := uow.NotificationRepository()
	aggregate, err := notificationRepo.Get(ctx, cmd.NotificationID())
	if err != nil {
		return err
	}

	if !aggregate.RecipientID().IsEqual(cmd.RecipientID()) {
		return errs.NewObjectNotFoundError("notificationID", cmd.NotificationID())
	}

	if err = aggregate.MarkRead(); err != nil {
		return err
	}

	if err = notificationRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
