package commands

import (
	"context"
	"fmt"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// RejectImportCommandHandler discards an uploaded batch before admission.
// The uploader is notified so a rejection by another administrator does not
// go unseen.
type RejectImportCommandHandler struct {
	uowFactory ImportUoWFactory
	admission  services.AdmissionPolicy
	clock      ports.Clock
}

// NewRejectImportCommandHandler creates a handler for batch rejections.
func NewRejectImportCommandHandler(uowFactory ImportUoWFactory, admission services.AdmissionPolicy, clock ports.Clock) (RejectImportCommandHandler, error) {
	if uowFactory == nil {
		return RejectImportCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return RejectImportCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}

	return RejectImportCommandHandler{
		uowFactory: uowFactory,
		admission:  admission,
		clock:      clock,
	}, nil
}

// Handle processes the rejection command.
func (h *RejectImportCommandHandler) Handle(ctx context.Context, cmd RejectImportCommand) error {
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

	admin, err := uow.UserRepository().Get(ctx, cmd.AdminID())
	if err != nil {
		return err
	}
	if err = h.admission.EnsureAdministrator(admin); err != nil {
		return err
	}

	importRepo := uow.ImportRepository()
	batch, err := importRepo.Get(ctx, cmd.BatchID())
	if err != nil {
		return err
	}

	if err = batch.MarkRejected(); err != nil {
		return err
	}

	if err = importRepo.Update(ctx, batch); err != nil {
		return err
	}

	now := h.clock.Now()
	actorID := cmd.AdminID()
	if err = appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionCSVRejected,
		"import", batch.ID(), map[string]any{
			"filename": batch.Filename(),
			"reason":   cmd.Reason(),
		}, now); err != nil {
		return err
	}

	message := fmt.Sprintf("Import %s was rejected: %s", batch.Filename(), cmd.Reason())
	if err = notify(ctx, uow.NotificationRepository(), batch.AdminID(),
		notification.KindStatusChange, message, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
