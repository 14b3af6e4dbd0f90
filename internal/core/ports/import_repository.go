package ports

import (
	"context"

	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
)

// ImportRepository defines the persistence contract for bulk import batches.
type ImportRepository interface {
	// Add persists a new import batch.
	Add(ctx context.Context, aggregate *csvimport.Batch) error

	// Update persists the batch's outcome and settlement.
	Update(ctx context.Context, aggregate *csvimport.Batch) error

	// Get retrieves a batch by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*csvimport.Batch, error)
}
