package user

import (
	"errors"
	"strings"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

// ErrUserIsNotConstructed indicates that the User aggregate was created
// without a constructor.
var ErrUserIsNotConstructed = errors.New(
	"User is not constructed. Use NewUser or RestoreUser",
)

// User is an account in the print workflow. The role decides which
// operations the account can take part in: clients submit orders, agents
// process them, administrators manage quotas and imports.
type User struct {
	id    kernel.UUID
	name  string
	email string
	role  Role

	guard guard.ConstructorGuard
}

// NewUser creates a user account.
func NewUser(id kernel.UUID, name string, email string, role Role) (*User, error) {
	u := &User{
		guard: guard.NewConstructorGuard(),
	}

	if err := u.setID(id); err != nil {
		return nil, err
	}
	if err := u.setName(name); err != nil {
		return nil, err
	}
	if err := u.setEmail(email); err != nil {
		return nil, err
	}
	if err := u.setRole(role); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser reconstitutes a user account from storage.
func RestoreUser(id kernel.UUID, name string, email string, role Role) (*User, error) {
	return NewUser(id, name, email, role)
}

// ID returns the account's identifier.
func (u *User) ID() kernel.UUID {
	return u.id
}

// Name returns the account's display name.
func (u *User) Name() string {
	return u.name
}

// Email returns the account's contact address.
func (u *User) Email() string {
	return u.email
}

// Role returns the account's role.
func (u *User) Role() Role {
	return u.role
}

// EnsureRole checks that the account holds the required role and returns a
// RoleMismatchError otherwise.
func (u *User) EnsureRole(required Role) error {
	if err := u.guard.Validate(ErrUserIsNotConstructed); err != nil {
		return err
	}
	if u.role != required {
		return &RoleMismatchError{Required: required, Actual: u.role}
	}
	return nil
}

// Validate checks that the aggregate was created through a constructor.
func (u *User) Validate() error {
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	u.name = name
	return nil
}

func (u *User) setEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if !strings.Contains(email, "@") {
		return errs.NewValueIsInvalidError("email")
	}
	u.email = email
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}
