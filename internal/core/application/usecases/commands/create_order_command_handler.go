package commands

import (
	"context"
	"errors"
	"fmt"

	"printflow/internal/core/application/ledger"
	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// CreateOrderResult reports the outcome of an admission.
// Skipped is true when idempotent admission found the external identifier
// already used and the configured mode accepts resubmissions silently: the
// reported order is the existing one and nothing was created or deducted.
type CreateOrderResult struct {
	OrderID kernel.UUID
	Skipped bool
}

// CreateOrderCommandHandler is the admission controller for print orders.
//
// Admission runs in three steps. First the participants and the external
// identifier are validated, quota availability is pre-checked, and the order
// is persisted in pending status. Then the quota ledger deducts the order's
// quantities under a row lock; the locked re-check can still refuse an
// admission that passed the pre-check, in which case the just-created order
// is deleted again so a refused admission leaves no trace. Finally the audit
// entry and the creation/assignment notifications are recorded.
type CreateOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	quotaLedger     *ledger.Ledger
	admission       services.AdmissionPolicy
	idempotencyMode IdempotencyMode
	clock           ports.Clock
}

// NewCreateOrderCommandHandler creates a handler for order admission.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	quotaLedger *ledger.Ledger,
	admission services.AdmissionPolicy,
	idempotencyMode IdempotencyMode,
	clock ports.Clock,
) (CreateOrderCommandHandler, error) {
	if uowFactory == nil {
		return CreateOrderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if quotaLedger == nil {
		return CreateOrderCommandHandler{}, errs.NewValueIsRequiredError("quotaLedger")
	}
	if clock == nil {
		return CreateOrderCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}

	return CreateOrderCommandHandler{
		uowFactory:      uowFactory,
		quotaLedger:     quotaLedger,
		admission:       admission,
		idempotencyMode: idempotencyMode,
		clock:           clock,
	}, nil
}

// Handle admits the order or refuses it without side effects.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	result, admitted, err := h.persistOrder(ctx, cmd)
	if err != nil || !admitted {
		return result, err
	}

	period := h.quotaLedger.CurrentPeriod()
	if err = h.quotaLedger.Deduct(ctx, cmd.ClientID(), period, cmd.BWQuantity(), cmd.ColorQuantity()); err != nil {
		if compensateErr := h.deleteOrder(ctx, cmd.OrderID()); compensateErr != nil {
			return CreateOrderResult{}, fmt.Errorf("deduct failed: %w (compensation failed: %v)", err, compensateErr)
		}
		return CreateOrderResult{}, err
	}

	if err = h.recordAdmission(ctx, cmd); err != nil {
		// The deduction is already committed: return it and remove the
		// order so a half-admitted order never survives.
		refundErr := h.quotaLedger.Refund(ctx, cmd.ClientID(), period, cmd.BWQuantity(), cmd.ColorQuantity())
		deleteErr := h.deleteOrder(ctx, cmd.OrderID())
		if compensateErr := errors.Join(refundErr, deleteErr); compensateErr != nil {
			return CreateOrderResult{}, fmt.Errorf("admission record failed: %w (compensation failed: %v)", err, compensateErr)
		}
		return CreateOrderResult{}, err
	}

	return result, nil
}

// persistOrder validates the participants and stores the order in pending
// status. The admitted flag is false when idempotent admission settled the
// command without creating anything.
func (h *CreateOrderCommandHandler) persistOrder(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	client, err := userRepo.Get(ctx, cmd.ClientID())
	if err != nil {
		return CreateOrderResult{}, false, err
	}
	if err = h.admission.EnsureClient(client); err != nil {
		return CreateOrderResult{}, false, err
	}

	orderRepo := uow.OrderRepository()
	if cmd.ExternalOrderID() != "" {
		existing, lookupErr := orderRepo.GetByExternalOrderID(ctx, cmd.ExternalOrderID())
		if lookupErr != nil && !errors.Is(lookupErr, errs.ErrObjectNotFound) {
			return CreateOrderResult{}, false, lookupErr
		}
		if existing != nil {
			if h.idempotencyMode == IdempotencySkip {
				return CreateOrderResult{OrderID: existing.ID(), Skipped: true}, false, nil
			}
			return CreateOrderResult{}, false, ports.ErrDuplicateExternalOrderID
		}
	}

	if cmd.AgentID() != nil {
		if err = h.checkAgent(ctx, uow, *cmd.AgentID()); err != nil {
			return CreateOrderResult{}, false, err
		}
	}

	// Availability pre-check before anything is persisted. The deduction
	// re-checks under the row lock; only a concurrent admission between the
	// two checks reaches the compensation path.
	period := h.quotaLedger.CurrentPeriod()
	if err = h.quotaLedger.CheckAvailable(ctx, cmd.ClientID(), period, cmd.BWQuantity(), cmd.ColorQuantity()); err != nil {
		return CreateOrderResult{}, false, err
	}

	details := cmd.Details()
	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.ClientID(), cmd.BWQuantity(), cmd.ColorQuantity(),
		order.Attributes{
			PaperDimensions: details.PaperDimensions,
			PaperType:       details.PaperType,
			Finishing:       details.Finishing,
			Notes:           details.Notes,
			ExternalOrderID: cmd.ExternalOrderID(),
			ImportID:        cmd.ImportID(),
		})
	if err != nil {
		return CreateOrderResult{}, false, err
	}

	if cmd.AgentID() != nil {
		if _, err = aggregate.Assign(*cmd.AgentID()); err != nil {
			return CreateOrderResult{}, false, err
		}
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return CreateOrderResult{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, false, err
	}

	return CreateOrderResult{OrderID: aggregate.ID()}, true, nil
}

// checkAgent validates the agent's role and workload headroom.
func (h *CreateOrderCommandHandler) checkAgent(ctx context.Context, uow OrderUoW, agentID kernel.UUID) error {
	agent, err := uow.UserRepository().Get(ctx, agentID)
	if err != nil {
		return err
	}
	if err = h.admission.EnsureAgent(agent); err != nil {
		return err
	}

	activeOrders, err := uow.OrderRepository().CountActiveByAgent(ctx, agentID)
	if err != nil {
		return err
	}
	return h.admission.CheckWorkload(activeOrders)
}

// deleteOrder is the compensation path: the order was persisted but the
// quota deduction refused it.
func (h *CreateOrderCommandHandler) deleteOrder(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Delete(ctx, orderID); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// recordAdmission writes the audit entry, the client's creation
// notification and, for pre-assigned orders, the agent's notification.
func (h *CreateOrderCommandHandler) recordAdmission(ctx context.Context, cmd CreateOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	actorID := cmd.ActorID()
	auditDetails := map[string]any{
		"client_id":      cmd.ClientID().String(),
		"bw_quantity":    cmd.BWQuantity(),
		"color_quantity": cmd.ColorQuantity(),
	}
	if cmd.AgentID() != nil {
		auditDetails["agent_id"] = cmd.AgentID().String()
	}
	if cmd.ExternalOrderID() != "" {
		auditDetails["external_order_id"] = cmd.ExternalOrderID()
	}

	if err := appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionOrderCreated,
		"order", cmd.OrderID(), auditDetails, now); err != nil {
		return err
	}

	notificationRepo := uow.NotificationRepository()
	created := fmt.Sprintf("Order %s has been created", cmd.OrderID())
	if err := notify(ctx, notificationRepo, cmd.ClientID(),
		notification.KindStatusChange, created, now); err != nil {
		return err
	}

	if cmd.AgentID() != nil {
		message := fmt.Sprintf("Order %s has been assigned to you", cmd.OrderID())
		if err := notify(ctx, notificationRepo, *cmd.AgentID(),
			notification.KindAssignment, message, now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
