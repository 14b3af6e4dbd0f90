// Package userrepo persists the user directory consulted during admission.
package userrepo

import (
	"github.com/google/uuid"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/user"
)

// UserDTO represents the database structure for user accounts.
type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string
	Email string `gorm:"uniqueIndex"`
	Role  string
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(account *user.User) UserDTO {
	return UserDTO{
		ID:    account.ID().Bytes(),
		Name:  account.Name(),
		Email: account.Email(),
		Role:  account.Role().String(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := user.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(id, dto.Name, dto.Email, role)
}
