// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"printflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
// The full ports.UnitOfWork satisfies every composition structurally.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// QuotaRepoFactory provides access to the quota repository within a transaction.
	QuotaRepoFactory interface {
		QuotaRepository() ports.QuotaRepository
	}

	// UserRepoFactory provides access to the user repository within a transaction.
	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// NotificationRepoFactory provides access to the notification repository within a transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// AuditRepoFactory provides access to the audit repository within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// ImportRepoFactory provides access to the import repository within a transaction.
	ImportRepoFactory interface {
		ImportRepository() ports.ImportRepository
	}

	// OrderUoW manages transactions for order mutations: the order itself,
	// the participants judging it, and the audit/notification records the
	// change produces.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		NotificationRepoFactory
		AuditRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// TopupUoW manages transactions for quota grants.
	TopupUoW interface {
		TxManager
		QuotaRepoFactory
		UserRepoFactory
		NotificationRepoFactory
		AuditRepoFactory
	}

	// TopupUoWFactory creates new top-up unit of work instances.
	TopupUoWFactory interface {
		Create() TopupUoW
	}

	// ImportUoW manages transactions for bulk import batches.
	ImportUoW interface {
		TxManager
		ImportRepoFactory
		UserRepoFactory
		NotificationRepoFactory
		AuditRepoFactory
	}

	// ImportUoWFactory creates new import unit of work instances.
	ImportUoWFactory interface {
		Create() ImportUoW
	}

	// NotificationUoW manages transactions over a recipient's notifications.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	// NotificationUoWFactory creates new notification unit of work instances.
	NotificationUoWFactory interface {
		Create() NotificationUoW
	}
)
