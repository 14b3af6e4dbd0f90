// Package queries contains read-only operations over the database.
// Implements the query side of the CQRS architecture: handlers read with
// direct SQL and return flat read models, bypassing the domain aggregates.
package queries

import (
	"errors"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/guard"
)

var ErrGetQuotaSummaryQueryIsNotConstructed = errors.New(
	"GetQuotaSummaryQuery must be created via NewGetQuotaSummaryQuery constructor",
)

// GetQuotaSummaryQuery retrieves a client's allowance state for one period:
// base limits, granted top-ups, usage and remaining headroom per channel,
// plus the period's top-up history.
//
// Example:
//
//	query, err := NewGetQuotaSummaryQuery(clientID, kernel.Period{})
//	if err != nil {
//	    return err
//	}
//
//	summary, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get quota summary: %w", err)
//	}
//
//	fmt.Printf("B&W: %d of %d used\n", summary.BW.Used, summary.BW.EffectiveLimit)
type GetQuotaSummaryQuery struct {
	clientID kernel.UUID
	period   kernel.Period

	guard guard.ConstructorGuard
}

// NewGetQuotaSummaryQuery creates a query for a client's quota summary.
// A zero period means the handler's current period.
func NewGetQuotaSummaryQuery(clientID kernel.UUID, period kernel.Period) (GetQuotaSummaryQuery, error) {
	if err := clientID.Validate(); err != nil {
		return GetQuotaSummaryQuery{}, err
	}

	return GetQuotaSummaryQuery{
		clientID: clientID,
		period:   period,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetQuotaSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetQuotaSummaryQueryIsNotConstructed)
}

// ClientID returns the client whose allowance is summarized.
func (q GetQuotaSummaryQuery) ClientID() kernel.UUID {
	return q.clientID
}

// Period returns the requested period; zero means the current one.
func (q GetQuotaSummaryQuery) Period() kernel.Period {
	return q.period
}

// ChannelSummaryResponse is the allowance state of one print channel.
type ChannelSummaryResponse struct {
	BaseLimit      int
	TopupAdded     int
	EffectiveLimit int
	Used           int
	Available      int
	UsagePercent   float64
	AlertSent      bool
}

// TopupSummaryResponse is one granted top-up in the period's history.
type TopupSummaryResponse struct {
	ID         kernel.UUID
	AdminID    kernel.UUID
	BWAdded    int
	ColorAdded int
	Notes      string
	GrantedAt  time.Time
}

// GetQuotaSummaryQueryResponse represents a client's allowance for a period.
// A client without a usage row yet gets a summary over the default limits
// with zero usage.
type GetQuotaSummaryQueryResponse struct {
	ClientID kernel.UUID
	Period   string
	BW       ChannelSummaryResponse
	Color    ChannelSummaryResponse
	Topups   []TopupSummaryResponse
}
