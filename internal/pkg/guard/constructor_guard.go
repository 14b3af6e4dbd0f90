// Package guard provides the ConstructorGuard pattern used by domain objects
// to ensure they are only created through their designated constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is a defensive programming pattern that ensures value objects
// and entities are only created through their designated constructor functions.
// It prevents direct struct initialization and enforces validation rules.
//
// The guard works by maintaining an internal flag that is only set to true when
// the object is created through the proper constructor function. Any attempt to
// use a zero-value struct will fail validation.
//
// Example usage:
//
//	var ErrTopupNotConstructed = errors.New("Topup must be created via NewTopup")
//
//	type Topup struct {
//	    bwAdded    int
//	    colorAdded int
//	    guard      ConstructorGuard
//	}
//
//	func NewTopup(bwAdded, colorAdded int) (Topup, error) {
//	    if bwAdded < 0 || colorAdded < 0 {
//	        return Topup{}, errors.New("amounts cannot be negative")
//	    }
//	    return Topup{
//	        bwAdded:    bwAdded,
//	        colorAdded: colorAdded,
//	        guard:      NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (t Topup) Validate() error {
//	    return t.guard.Validate(ErrTopupNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a new ConstructorGuard that marks an object as
// properly constructed. This should be called in the constructor of domain objects
// to ensure they can be distinguished from zero-value instances.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was properly constructed through
// its designated constructor function.
//
// If the object was created as a zero value (not through the constructor),
// this method returns the provided validation error. If validationError is nil,
// ErrDefaultConstructorGuard is returned instead.
//
// Returns:
//   - nil if the object was properly constructed
//   - validationError if the object was not constructed through its constructor
//   - ErrDefaultConstructorGuard if validationError is nil and object not constructed
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
