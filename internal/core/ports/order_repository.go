// Package ports defines repository interfaces for the print workflow domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/order"
)

// ErrDuplicateExternalOrderID is returned by Add when the order's external
// identifier is already taken by another order.
var ErrDuplicateExternalOrderID = errors.New("external order id already exists")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// Returns ErrDuplicateExternalOrderID when an order with the same
	// external identifier already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes an order from storage. Used by the admission
	// compensation path when the quota deduction fails after the order
	// was persisted.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByExternalOrderID retrieves the order carrying the given external
	// identifier, regardless of which client submitted it. Used for
	// idempotent admission.
	// Returns errs.ObjectNotFoundError when no such order exists.
	GetByExternalOrderID(ctx context.Context, externalOrderID string) (*order.Order, error)

	// CountActiveByAgent returns how many orders in an active status
	// (pending, validated or processing) are assigned to the agent.
	CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error)
}
