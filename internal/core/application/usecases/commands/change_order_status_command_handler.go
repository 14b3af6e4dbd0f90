package commands

import (
	"context"
	"fmt"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler moves orders along their lifecycle.
// The transition rules live on the order aggregate; the handler persists the
// result, appends the audit entry and notifies the client and, when one is
// assigned, the agent. Status changes never touch the quota ledger: the
// admission already paid for the order and a completed order stays paid.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) (ChangeOrderStatusCommandHandler, error) {
	if uowFactory == nil {
		return ChangeOrderStatusCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return ChangeOrderStatusCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}

	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}, nil
}

// Handle processes the status change command.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous, err := aggregate.ChangeStatus(cmd.Target())
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	now := h.clock.Now()
	actorID := cmd.ActorID()
	if err = appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionOrderStatusChange,
		"order", aggregate.ID(), map[string]any{
			"from": previous.String(),
			"to":   cmd.Target().String(),
		}, now); err != nil {
		return err
	}

	notificationRepo := uow.NotificationRepository()
	message := fmt.Sprintf("Order %s moved from %s to %s", aggregate.ID(), previous, cmd.Target())
	if err = notify(ctx, notificationRepo, aggregate.ClientID(),
		notification.KindStatusChange, message, now); err != nil {
		return err
	}
	if agentID := aggregate.Agent(); agentID != nil {
		if err = notify(ctx, notificationRepo, *agentID,
			notification.KindStatusChange, message, now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
