package commands

import (
	"context"
	"errors"
	"fmt"

	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// dispatchBatchSize caps how many notifications one dispatch run forwards.
const dispatchBatchSize = 100

// DispatchNotificationsCommandHandler forwards queued notifications to the
// outer delivery channel. A notification is marked dispatched only after a
// successful hand-off; failed deliveries are left queued, so a later run
// retries them.
type DispatchNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	notifier   ports.Notifier
}

// NewDispatchNotificationsCommandHandler creates a handler for notification
// dispatch.
func NewDispatchNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	notifier ports.Notifier,
) (DispatchNotificationsCommandHandler, error) {
	if uowFactory == nil {
		return DispatchNotificationsCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if notifier == nil {
		return DispatchNotificationsCommandHandler{}, errs.NewValueIsRequiredError("notifier")
	}

	return DispatchNotificationsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}, nil
}

// Handle processes the dispatch command. Successful hand-offs are committed
// even when others in the batch fail; the combined delivery errors are
// returned after the commit so the caller can log them.
func (h *DispatchNotificationsCommandHandler) Handle(ctx context.Context, cmd DispatchNotificationsCommand) error {
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
	queued, err := notificationRepo.GetUndispatched(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}

	var deliveryErrs error
	for _, aggregate := range queued {
		if deliverErr := h.notifier.Deliver(ctx, aggregate); deliverErr != nil {
			deliveryErrs = errors.Join(deliveryErrs,
				fmt.Errorf("deliver notification %s: %w", aggregate.ID(), deliverErr))
			continue
		}

		if err = aggregate.MarkDispatched(); err != nil {
			return err
		}
		if err = notificationRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return deliveryErrs
}
