package commands

import (
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/guard"
)

var ErrCreateTopupCommandIsNotConstructed = errors.New(
	"CreateTopupCommand must be created via NewCreateTopupCommand constructor",
)

// CreateTopupCommand represents an administrator's request to grant a client
// additional prints for the current period. Amount rules (minimum grant
// size, at least one channel above zero) are owned by the quota domain and
// applied during handling.
type CreateTopupCommand struct { //nolint:recvcheck //using for validation
	topupID  kernel.UUID
	clientID kernel.UUID
	adminID  kernel.UUID

	bwAmount    int
	colorAmount int
	notes       string

	guard guard.ConstructorGuard
}

// NewCreateTopupCommand creates a command to grant additional prints.
func NewCreateTopupCommand(
	topupID kernel.UUID,
	clientID kernel.UUID,
	adminID kernel.UUID,
	bwAmount int,
	colorAmount int,
	notes string,
) (CreateTopupCommand, error) {
	topupCommand := CreateTopupCommand{
		bwAmount:    bwAmount,
		colorAmount: colorAmount,
		notes:       notes,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		topupCommand.setTopupID(topupID),
		topupCommand.setClientID(clientID),
		topupCommand.setAdminID(adminID),
	); err != nil {
		return CreateTopupCommand{}, err
	}

	return topupCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateTopupCommand) Validate() error {
	return c.guard.Validate(ErrCreateTopupCommandIsNotConstructed)
}

// TopupID returns the unique identifier for the new grant.
func (c CreateTopupCommand) TopupID() kernel.UUID {
	return c.topupID
}

// ClientID returns the receiving client's identifier.
func (c CreateTopupCommand) ClientID() kernel.UUID {
	return c.clientID
}

// AdminID returns the granting administrator's identifier.
func (c CreateTopupCommand) AdminID() kernel.UUID {
	return c.adminID
}

// BWAmount returns the black & white prints to grant.
func (c CreateTopupCommand) BWAmount() int {
	return c.bwAmount
}

// ColorAmount returns the color prints to grant.
func (c CreateTopupCommand) ColorAmount() int {
	return c.colorAmount
}

// Notes returns the administrator's free-form note.
func (c CreateTopupCommand) Notes() string {
	return c.notes
}

func (c *CreateTopupCommand) setTopupID(topupID kernel.UUID) error {
	if err := topupID.Validate(); err != nil {
		return err
	}

	c.topupID = topupID
	return nil
}

func (c *CreateTopupCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}

	c.clientID = clientID
	return nil
}

func (c *CreateTopupCommand) setAdminID(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	c.adminID = adminID
	return nil
}
