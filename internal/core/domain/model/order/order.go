package order

import (
	"errors"
	"fmt"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOrderIsEmpty is returned when both requested quantities are zero.
	// An order must request at least one print.
	ErrOrderIsEmpty = errs.NewValueIsRequiredError("order must request at least one B&W or color print")
)

// Attributes carries the descriptive, non-quota fields of an order.
// Paper and finishing descriptors are opaque strings validated only for
// presence constraints at the API boundary. ExternalOrderID, when set,
// must be unique across all orders and is used for CSV idempotency.
type Attributes struct {
	PaperDimensions string
	PaperType       string
	Finishing       string
	Notes           string
	ExternalOrderID string
	ImportID        *kernel.UUID
}

// Order represents a print order in the system. It is the aggregate root that
// manages the order lifecycle from admission through agent assignment to
// completion.
//
// Order follows these invariants:
//   - Must have valid identifiers for itself and its owning client
//   - Quantities are non-negative and at least one is positive
//   - Quantities are immutable after construction: the monthly quota was
//     reserved against them at admission and never re-reserved
//   - Status transitions follow the allowed-transition table in Status
//   - Can only be created through NewOrder or RestoreOrder
//
// The struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// clientID is the owning client's ID (required)
	clientID kernel.UUID

	// agentID is the assigned agent's ID (nil if unassigned)
	agentID *kernel.UUID

	// status is the current state in the order lifecycle
	status Status

	// bwQuantity and colorQuantity are the requested print counts.
	// Immutable after construction.
	bwQuantity    int
	colorQuantity int

	// attrs holds paper/finishing descriptors and idempotency references
	attrs Attributes

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with validation. This is the
// only way to create a fresh order, ensuring all business invariants hold.
//
// Parameters:
//   - id: unique identifier for the order (must be a valid UUID)
//   - clientID: owning client (must be a valid UUID)
//   - bwQuantity, colorQuantity: requested print counts (each ≥ 0, sum > 0)
//   - attrs: descriptive attributes (opaque, not validated here)
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: validation error if any parameter is invalid
func NewOrder(id, clientID kernel.UUID, bwQuantity, colorQuantity int, attrs Attributes) (*Order, error) {
	o := &Order{
		status: Pending,
		attrs:  attrs,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setQuantities(bwQuantity, colorQuantity),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, which always starts in Pending, this constructor accepts
// the persisted status and agent assignment. The same quantity invariants
// are enforced so corrupt rows cannot re-enter the domain.
func RestoreOrder(
	id, clientID kernel.UUID,
	agentID *kernel.UUID,
	status Status,
	bwQuantity, colorQuantity int,
	attrs Attributes,
) (*Order, error) {
	o := &Order{
		attrs: attrs,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setQuantities(bwQuantity, colorQuantity),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	if agentID != nil {
		if err := agentID.Validate(); err != nil {
			return nil, err
		}
		agent := *agentID
		o.agentID = &agent
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for zero-value instances.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ClientID returns the owning client's identifier.
func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// Agent returns the assigned agent's ID, or nil if unassigned.
func (o *Order) Agent() *kernel.UUID {
	return o.agentID
}

// IsAssigned reports whether the order has an agent assigned.
func (o *Order) IsAssigned() bool {
	return o.agentID != nil
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// BWQuantity returns the requested black & white print count.
func (o *Order) BWQuantity() int {
	return o.bwQuantity
}

// ColorQuantity returns the requested color print count.
func (o *Order) ColorQuantity() int {
	return o.colorQuantity
}

// Attributes returns the descriptive attributes of the order.
func (o *Order) Attributes() Attributes {
	return o.attrs
}

// ExternalOrderID returns the external idempotency key, empty if unset.
func (o *Order) ExternalOrderID() string {
	return o.attrs.ExternalOrderID
}

// ImportID returns the originating CSV import batch, nil if the order
// was created directly.
func (o *Order) ImportID() *kernel.UUID {
	return o.attrs.ImportID
}

// IsActive reports whether the order counts toward its agent's workload
// (status is pending, validated or processing).
func (o *Order) IsActive() bool {
	return o.status.IsActive()
}

// Assign assigns or reassigns the order to an agent. Assignment does not
// change the order status: the lifecycle and the assignment are independent
// axes. Returns the previously assigned agent's ID, or nil if the order was
// unassigned before.
//
// Role, active-state and workload validation of the agent are admission
// concerns handled before this method is called.
func (o *Order) Assign(agentID kernel.UUID) (*kernel.UUID, error) {
	if err := agentID.Validate(); err != nil {
		return nil, err
	}

	previous := o.agentID
	agent := agentID
	o.agentID = &agent
	return previous, nil
}

// Unassign removes the agent assignment. Returns the previously assigned
// agent's ID, or nil if the order had none. Unassigning always succeeds.
func (o *Order) Unassign() *kernel.UUID {
	previous := o.agentID
	o.agentID = nil
	return previous
}

// ChangeStatus transitions the order to the requested status.
//
// Returns the previous status on success. Fails with *InvalidTransitionError
// if the (current, requested) pair is not in the allowed-transition table;
// the error enumerates the allowed next set. Quota is never touched here;
// it was consumed once, at admission.
func (o *Order) ChangeStatus(target Status) (Status, error) {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return 0, err
	}

	previous := o.status
	o.status = next
	return previous, nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setClientID validates and sets the owning client.
func (o *Order) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("clientID", err)
	}
	o.clientID = clientID
	return nil
}

// setQuantities validates and sets the requested print counts.
// Each quantity must be non-negative and their sum must be positive.
func (o *Order) setQuantities(bwQuantity, colorQuantity int) error {
	if bwQuantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("bwQuantity",
			fmt.Errorf("%d is negative", bwQuantity))
	}
	if colorQuantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("colorQuantity",
			fmt.Errorf("%d is negative", colorQuantity))
	}
	if bwQuantity == 0 && colorQuantity == 0 {
		return ErrOrderIsEmpty
	}

	o.bwQuantity = bwQuantity
	o.colorQuantity = colorQuantity
	return nil
}

// setStatus validates and sets the persisted status during restoration.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
