package commands

import (
	"context"
	"fmt"

	"printflow/internal/core/application/ledger"
	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// CreateTopupCommandHandler grants additional prints to a client for the
// current period. The grant, the lazily created quota record, the audit
// entry and the client's notification are committed together.
type CreateTopupCommandHandler struct {
	uowFactory     TopupUoWFactory
	admission      services.AdmissionPolicy
	clock          ports.Clock
	defaults       ledger.Defaults
	minTopupAmount int
}

// NewCreateTopupCommandHandler creates a handler for quota grants.
func NewCreateTopupCommandHandler(
	uowFactory TopupUoWFactory,
	admission services.AdmissionPolicy,
	clock ports.Clock,
	defaults ledger.Defaults,
	minTopupAmount int,
) (CreateTopupCommandHandler, error) {
	if uowFactory == nil {
		return CreateTopupCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return CreateTopupCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if minTopupAmount < 0 {
		return CreateTopupCommandHandler{}, errs.NewValueIsInvalidError("minTopupAmount")
	}

	return CreateTopupCommandHandler{
		uowFactory:     uowFactory,
		admission:      admission,
		clock:          clock,
		defaults:       defaults,
		minTopupAmount: minTopupAmount,
	}, nil
}

// Handle processes the grant command.
func (h *CreateTopupCommandHandler) Handle(ctx context.Context, cmd CreateTopupCommand) error {
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

	userRepo := uow.UserRepository()
	admin, err := userRepo.Get(ctx, cmd.AdminID())
	if err != nil {
		return err
	}
	if err = h.admission.EnsureAdministrator(admin); err != nil {
		return err
	}

	client, err := userRepo.Get(ctx, cmd.ClientID())
	if err != nil {
		return err
	}
	if err = h.admission.EnsureClient(client); err != nil {
		return err
	}

	now := h.clock.Now()
	period := kernel.NewPeriod(now)

	quotaRepo := uow.QuotaRepository()
	if _, err = quotaRepo.GetOrCreate(ctx, cmd.ClientID(), period,
		h.defaults.BWLimit, h.defaults.ColorLimit); err != nil {
		return err
	}

	grant, err := quota.NewTopup(cmd.TopupID(), cmd.ClientID(), cmd.AdminID(), period,
		cmd.BWAmount(), cmd.ColorAmount(), cmd.Notes(), now, h.minTopupAmount)
	if err != nil {
		return err
	}

	if err = quotaRepo.AddTopup(ctx, grant); err != nil {
		return err
	}

	actorID := cmd.AdminID()
	if err = appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionQuotaTopup,
		"topup", grant.ID(), map[string]any{
			"client_id":    cmd.ClientID().String(),
			"period":       period.String(),
			"bw_amount":    cmd.BWAmount(),
			"color_amount": cmd.ColorAmount(),
		}, now); err != nil {
		return err
	}

	message := fmt.Sprintf("Your print quota for %s was increased by %d B&W and %d color prints",
		period, cmd.BWAmount(), cmd.ColorAmount())
	if err = notify(ctx, uow.NotificationRepository(), cmd.ClientID(),
		notification.KindQuotaAlert, message, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
