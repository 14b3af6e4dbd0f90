package commands

import (
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderQuantitiesAreEmpty = errors.New("order must request at least one print")
	ErrOrderQuantityIsNegative = errors.New("print quantities must not be negative")
)

// IdempotencyMode decides what admission does when a client resubmits an
// external order identifier it already used.
type IdempotencyMode int

const (
	// IdempotencyReject refuses the duplicate submission.
	IdempotencyReject IdempotencyMode = iota
	// IdempotencySkip accepts the submission without creating anything and
	// reports the existing order.
	IdempotencySkip
)

// IdempotencyModeFromString parses the configuration value. The historical
// "upsert" mode silently replaced live orders and is treated as reject.
func IdempotencyModeFromString(value string) (IdempotencyMode, error) {
	switch value {
	case "reject", "upsert":
		return IdempotencyReject, nil
	case "skip":
		return IdempotencySkip, nil
	default:
		return IdempotencyReject, errs.NewValueIsInvalidError("idempotencyMode")
	}
}

// OrderDetails are the descriptive order fields admission passes through
// without interpretation.
type OrderDetails struct {
	PaperDimensions string
	PaperType       string
	Finishing       string
	Notes           string
}

// CreateOrderCommand represents a request to admit a new print order for a
// client, optionally assigned to an agent from the start.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), clientID, actorID,
//	    nil, 500, 100, "EXT-42", OrderDetails{PaperType: "glossy"}, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	clientID kernel.UUID
	actorID  kernel.UUID
	agentID  *kernel.UUID

	bwQuantity    int
	colorQuantity int

	externalOrderID string
	details         OrderDetails
	importID        *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to admit a new print order.
// Validates identities and that the quantities request at least one print.
// A non-nil importID marks the order as part of a bulk import batch.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	clientID kernel.UUID,
	actorID kernel.UUID,
	agentID *kernel.UUID,
	bwQuantity int,
	colorQuantity int,
	externalOrderID string,
	details OrderDetails,
	importID *kernel.UUID,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		externalOrderID: externalOrderID,
		details:         details,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setClientID(clientID),
		orderCommand.setActorID(actorID),
		orderCommand.setAgentID(agentID),
		orderCommand.setQuantities(bwQuantity, colorQuantity),
		orderCommand.setImportID(importID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ClientID returns the submitting client's identifier.
func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

// ActorID returns the identifier of the user initiating the admission.
func (c CreateOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// AgentID returns the agent to assign from the start, or nil.
func (c CreateOrderCommand) AgentID() *kernel.UUID {
	return c.agentID
}

// BWQuantity returns the requested black & white prints.
func (c CreateOrderCommand) BWQuantity() int {
	return c.bwQuantity
}

// ColorQuantity returns the requested color prints.
func (c CreateOrderCommand) ColorQuantity() int {
	return c.colorQuantity
}

// ExternalOrderID returns the client's own order identifier, if any.
func (c CreateOrderCommand) ExternalOrderID() string {
	return c.externalOrderID
}

// Details returns the descriptive order fields.
func (c CreateOrderCommand) Details() OrderDetails {
	return c.details
}

// ImportID returns the bulk import batch this order belongs to, or nil.
func (c CreateOrderCommand) ImportID() *kernel.UUID {
	return c.importID
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}

	c.clientID = clientID
	return nil
}

func (c *CreateOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *CreateOrderCommand) setAgentID(agentID *kernel.UUID) error {
	if agentID == nil {
		return nil
	}
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *CreateOrderCommand) setQuantities(bwQuantity int, colorQuantity int) error {
	if bwQuantity < 0 || colorQuantity < 0 {
		return ErrOrderQuantityIsNegative
	}
	if bwQuantity == 0 && colorQuantity == 0 {
		return ErrOrderQuantitiesAreEmpty
	}

	c.bwQuantity = bwQuantity
	c.colorQuantity = colorQuantity
	return nil
}

func (c *CreateOrderCommand) setImportID(importID *kernel.UUID) error {
	if importID == nil {
		return nil
	}
	if err := importID.Validate(); err != nil {
		return err
	}

	c.importID = importID
	return nil
}
