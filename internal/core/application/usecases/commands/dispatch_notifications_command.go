package commands

import (
	"errors"

	"printflow/internal/pkg/guard"
)

var ErrDispatchNotificationsCommandIsNotConstructed = errors.New(
	"DispatchNotificationsCommand must be created via NewDispatchNotificationsCommand constructor",
)

// DispatchNotificationsCommand triggers forwarding of stored notifications
// to their outer delivery channel. The scheduled dispatch job issues this
// command periodically; notifications whose delivery fails stay queued for
// the next run.
//
// Example:
//
//	cmd := NewDispatchNotificationsCommand()
//	err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    log.Printf("Some notifications were not delivered: %v", err)
//	}
type DispatchNotificationsCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchNotificationsCommand creates a new command to trigger
// notification dispatch. This is a parameterless command.
func NewDispatchNotificationsCommand() DispatchNotificationsCommand {
	return DispatchNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *DispatchNotificationsCommand) Validate() error {
	return c.guard.Validate(
		ErrDispatchNotificationsCommandIsNotConstructed,
	)
}
