package ports

import (
	"context"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user accounts.
type UserRepository interface {
	// Add persists a new user account.
	Add(ctx context.Context, aggregate *user.User) error

	// Get retrieves an account by its unique identifier.
	// Returns errs.ObjectNotFoundError when no account exists.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByEmail retrieves an account by its contact address. Used by the
	// bulk import to resolve rows that reference participants by email.
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
