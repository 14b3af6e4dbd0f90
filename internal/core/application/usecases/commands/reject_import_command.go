package commands

import (
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/guard"
)

var ErrRejectImportCommandIsNotConstructed = errors.New(
	"RejectImportCommand must be created via NewRejectImportCommand constructor",
)

// RejectImportCommand represents an administrator's decision to discard an
// uploaded import batch that has not been settled yet.
type RejectImportCommand struct { //nolint:recvcheck //using for validation
	batchID kernel.UUID
	adminID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewRejectImportCommand creates a command to discard an uploaded batch.
func NewRejectImportCommand(batchID kernel.UUID, adminID kernel.UUID, reason string) (RejectImportCommand, error) {
	rejectCommand := RejectImportCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		rejectCommand.setBatchID(batchID),
		rejectCommand.setAdminID(adminID),
	); err != nil {
		return RejectImportCommand{}, err
	}

	return rejectCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectImportCommand) Validate() error {
	return c.guard.Validate(ErrRejectImportCommandIsNotConstructed)
}

// BatchID returns the batch to discard.
func (c RejectImportCommand) BatchID() kernel.UUID {
	return c.batchID
}

// AdminID returns the deciding administrator's identifier.
func (c RejectImportCommand) AdminID() kernel.UUID {
	return c.adminID
}

// Reason returns the administrator's free-form justification.
func (c RejectImportCommand) Reason() string {
	return c.reason
}

func (c *RejectImportCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	c.batchID = batchID
	return nil
}

func (c *RejectImportCommand) setAdminID(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	c.adminID = adminID
	return nil
}
