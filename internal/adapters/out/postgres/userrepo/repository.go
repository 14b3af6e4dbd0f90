package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/user"
	"printflow/internal/pkg/errs"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add saves a new user account to the database.
func (r *GormUserRepository) Add(ctx context.Context, account *user.User) error {
	if err := account.Validate(); err != nil {
		return err
	}

	dto := fromDomain(account)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a user by ID.
func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByEmail retrieves a user by email address. Emails are unique, so CSV
// rows may reference participants by either form.
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", email)
		}
		return nil, err
	}

	return toDomain(dto)
}
