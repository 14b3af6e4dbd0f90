package commands

import (
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand represents a request to hand an order to an agent, move
// it between agents, or take it away. A nil agent means unassign.
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	agentID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a command to change an order's assignment.
func NewAssignOrderCommand(orderID kernel.UUID, actorID kernel.UUID, agentID *kernel.UUID) (AssignOrderCommand, error) {
	assignCommand := AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setActorID(actorID),
		assignCommand.setAgentID(agentID),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderID returns the order whose assignment changes.
func (c AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the identifier of the user requesting the change.
func (c AssignOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// AgentID returns the agent to assign, or nil to unassign.
func (c AssignOrderCommand) AgentID() *kernel.UUID {
	return c.agentID
}

func (c *AssignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *AssignOrderCommand) setAgentID(agentID *kernel.UUID) error {
	if agentID == nil {
		return nil
	}
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}
