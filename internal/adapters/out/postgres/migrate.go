package postgres

import (
	"gorm.io/gorm"

	"printflow/internal/adapters/out/postgres/auditrepo"
	"printflow/internal/adapters/out/postgres/importrepo"
	"printflow/internal/adapters/out/postgres/notificationrepo"
	"printflow/internal/adapters/out/postgres/orderrepo"
	"printflow/internal/adapters/out/postgres/quotarepo"
	"printflow/internal/adapters/out/postgres/userrepo"
)

// Migrate brings the database schema up to date for every aggregate table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userrepo.UserDTO{},
		&orderrepo.OrderDTO{},
		&quotarepo.ClientQuotaDTO{},
		&quotarepo.TopupDTO{},
		&notificationrepo.NotificationDTO{},
		&auditrepo.EntryDTO{},
		&importrepo.BatchDTO{},
	)
}
