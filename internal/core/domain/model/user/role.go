package user

import (
	"errors"
	"fmt"

	"printflow/internal/pkg/errs"
)

// ErrRoleMismatch is the sentinel wrapped by RoleMismatchError.
var ErrRoleMismatch = errors.New("user role mismatch")

// Role distinguishes what a user account is allowed to do.
type Role int

const (
	// RoleUnknown is the zero value, not a valid role.
	RoleUnknown Role = iota
	// RoleClient submits print orders and consumes quota.
	RoleClient
	// RoleAgent processes assigned orders.
	RoleAgent
	// RoleAdministrator manages quotas, assignments and imports.
	RoleAdministrator
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:       "unknown",
		RoleClient:        "client",
		RoleAgent:         "agent",
		RoleAdministrator: "administrator",
	}
}

func getValidRoleStrings() map[string]Role {
	return map[string]Role{
		"client":        RoleClient,
		"agent":         RoleAgent,
		"administrator": RoleAdministrator,
	}
}

// RoleFromString parses the storage representation of a role.
func RoleFromString(value string) (Role, error) {
	role, ok := getValidRoleStrings()[value]
	if !ok {
		return RoleUnknown, errs.NewValueIsInvalidError("role")
	}
	return role, nil
}

// Validate checks that the role holds one of the defined values.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok || r == RoleUnknown {
		return errs.NewValueIsInvalidError("role")
	}
	return nil
}

// String returns the storage representation of the role.
func (r Role) String() string {
	value, ok := getRoleStrings()[r]
	if !ok {
		return getRoleStrings()[RoleUnknown]
	}
	return value
}

// RoleMismatchError is returned when an operation requires a user to hold a
// specific role and the referenced account holds another.
type RoleMismatchError struct {
	Required Role
	Actual   Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("user must be a %s, got %s", e.Required, e.Actual)
}

func (e *RoleMismatchError) Unwrap() error {
	return ErrRoleMismatch
}
