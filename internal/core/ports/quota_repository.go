package ports

import (
	"context"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/quota"
)

// QuotaRepository defines the persistence contract for client quota records
// and top-up grants.
type QuotaRepository interface {
	// GetOrCreate retrieves the client's quota record for the period,
	// creating it with the given default limits when it does not exist yet.
	// Concurrent creation for the same client and period must converge on a
	// single row.
	GetOrCreate(ctx context.Context, clientID kernel.UUID, period kernel.Period, bwLimit int, colorLimit int) (*quota.ClientQuota, error)

	// GetForUpdate retrieves the client's quota record for the period with
	// a row lock, so the caller's deduction decision holds until commit.
	// Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, clientID kernel.UUID, period kernel.Period) (*quota.ClientQuota, error)

	// Get retrieves the client's quota record for the period without
	// locking. Returns errs.ObjectNotFoundError when no record exists.
	Get(ctx context.Context, clientID kernel.UUID, period kernel.Period) (*quota.ClientQuota, error)

	// Update persists the record's usage counters and alert latches.
	Update(ctx context.Context, aggregate *quota.ClientQuota) error

	// AddTopup persists a new top-up grant.
	AddTopup(ctx context.Context, topup *quota.Topup) error

	// GetTopups retrieves all of the client's grants for the period.
	GetTopups(ctx context.Context, clientID kernel.UUID, period kernel.Period) ([]*quota.Topup, error)
}
