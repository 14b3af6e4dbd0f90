package queries

import (
	"errors"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists orders filtered by client, agent and status. All
// filters are optional and combine with AND; an empty query lists every
// order.
//
// Example:
//
//	status := order.Pending
//	query, err := NewGetOrdersQuery(&clientID, nil, &status)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	clientID *kernel.UUID
	agentID  *kernel.UUID
	status   *order.Status

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates an order listing query. Nil filters are
// ignored.
func NewGetOrdersQuery(clientID *kernel.UUID, agentID *kernel.UUID, status *order.Status) (GetOrdersQuery, error) {
	if clientID != nil {
		if err := clientID.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}
	if agentID != nil {
		if err := agentID.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}

	return GetOrdersQuery{
		clientID: clientID,
		agentID:  agentID,
		status:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// ClientID returns the owning-client filter, nil when unset.
func (q GetOrdersQuery) ClientID() *kernel.UUID {
	return q.clientID
}

// AgentID returns the assigned-agent filter, nil when unset.
func (q GetOrdersQuery) AgentID() *kernel.UUID {
	return q.agentID
}

// Status returns the status filter, nil when unset.
func (q GetOrdersQuery) Status() *order.Status {
	return q.status
}

// GetOrdersQueryResponse represents one order in a listing.
type GetOrdersQueryResponse struct {
	ID              kernel.UUID
	ClientID        kernel.UUID
	AgentID         *kernel.UUID
	Status          string
	BWQuantity      int
	ColorQuantity   int
	PaperDimensions string
	PaperType       string
	Finishing       string
	ExternalOrderID string
	CreatedAt       time.Time
}
