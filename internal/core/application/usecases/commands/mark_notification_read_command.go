package commands

import (
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/guard"
)

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

// MarkNotificationReadCommand represents a recipient acknowledging one of
// their notifications.
type MarkNotificationReadCommand struct { //nolint:recvcheck //using for validation
	notificationID kernel.UUID
	recipientID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkNotificationReadCommand creates a command to mark a notification read.
func NewMarkNotificationReadCommand(notificationID kernel.UUID, recipientID kernel.UUID) (MarkNotificationReadCommand, error) {
	readCommand := MarkNotificationReadCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		readCommand.setNotificationID(notificationID),
		readCommand.setRecipientID(recipientID),
	); err != nil {
		return MarkNotificationReadCommand{}, err
	}

	return readCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

// NotificationID returns the notification being acknowledged.
func (c MarkNotificationReadCommand) NotificationID() kernel.UUID {
	return c.notificationID
}

// RecipientID returns the acknowledging recipient's identifier.
func (c MarkNotificationReadCommand) RecipientID() kernel.UUID {
	return c.recipientID
}

func (c *MarkNotificationReadCommand) setNotificationID(notificationID kernel.UUID) error {
	if err := notificationID.Validate(); err != nil {
		return err
	}

	c.notificationID = notificationID
	return nil
}

func (c *MarkNotificationReadCommand) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}

	c.recipientID = recipientID
	return nil
}
