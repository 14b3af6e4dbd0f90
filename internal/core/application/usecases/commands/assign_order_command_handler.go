package commands

import (
	"context"
	"fmt"
	"time"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// AssignOrderCommandHandler changes who processes an order.
//
// An assignment onto a previously unassigned order counts against the
// agent's workload limit. Moving an order between agents does not re-check
// the new agent's workload; the check only guards first assignments.
type AssignOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	admission  services.AdmissionPolicy
	clock      ports.Clock
}

// NewAssignOrderCommandHandler creates a handler for assignment changes.
func NewAssignOrderCommandHandler(uowFactory OrderUoWFactory, admission services.AdmissionPolicy, clock ports.Clock) (AssignOrderCommandHandler, error) {
	if uowFactory == nil {
		return AssignOrderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return AssignOrderCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}

	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		admission:  admission,
		clock:      clock,
	}, nil
}

// Handle processes the assignment command.
func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
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

	if cmd.AgentID() == nil {
		err = h.unassign(ctx, uow, cmd, aggregate)
	} else {
		err = h.assign(ctx, uow, cmd, aggregate)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *AssignOrderCommandHandler) assign(ctx context.Context, uow OrderUoW, cmd AssignOrderCommand, aggregate *order.Order) error {
	agentID := *cmd.AgentID()

	agent, err := uow.UserRepository().Get(ctx, agentID)
	if err != nil {
		return err
	}
	if err = h.admission.EnsureAgent(agent); err != nil {
		return err
	}

	if !aggregate.IsAssigned() {
		activeOrders, countErr := uow.OrderRepository().CountActiveByAgent(ctx, agentID)
		if countErr != nil {
			return countErr
		}
		if err = h.admission.CheckWorkload(activeOrders); err != nil {
			return err
		}
	}

	previous, err := aggregate.Assign(agentID)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	actorID := cmd.ActorID()
	action := auditlog.ActionOrderAssigned
	auditDetails := map[string]any{"agent_id": agentID.String()}
	if previous != nil {
		action = auditlog.ActionOrderReassigned
		auditDetails["previous_agent_id"] = previous.String()
	}

	if err = appendAudit(ctx, uow.AuditRepository(), &actorID, action,
		"order", aggregate.ID(), auditDetails, now); err != nil {
		return err
	}

	notificationRepo := uow.NotificationRepository()
	message := fmt.Sprintf("Order %s has been assigned to you", aggregate.ID())
	if err = notify(ctx, notificationRepo, agentID, notification.KindAssignment, message, now); err != nil {
		return err
	}
	if previous != nil {
		return h.notifyRemoved(ctx, notificationRepo, *previous, aggregate.ID(), now)
	}
	return nil
}

func (h *AssignOrderCommandHandler) unassign(ctx context.Context, uow OrderUoW, cmd AssignOrderCommand, aggregate *order.Order) error {
	previous := aggregate.Unassign()
	if previous == nil {
		// nothing to take away
		return nil
	}

	now := h.clock.Now()
	actorID := cmd.ActorID()
	if err := appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionOrderUnassigned,
		"order", aggregate.ID(), map[string]any{"previous_agent_id": previous.String()}, now); err != nil {
		return err
	}

	return h.notifyRemoved(ctx, uow.NotificationRepository(), *previous, aggregate.ID(), now)
}

func (h *AssignOrderCommandHandler) notifyRemoved(ctx context.Context, repo ports.NotificationRepository, agentID kernel.UUID, orderID kernel.UUID, at time.Time) error {
	message := fmt.Sprintf("Order %s is no longer assigned to you", orderID)
	return notify(ctx, repo, agentID, notification.KindAssignment, message, at)
}
