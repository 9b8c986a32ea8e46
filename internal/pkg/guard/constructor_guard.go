// Package guard provides ConstructorGuard, a marker embedded in value objects,
// commands and queries to tell instances built by their constructor apart from
// zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing object was built by its constructor.
//
// Example usage:
//
//	type RegisterCheckpointCommand struct {
//	    trackingID kernel.TrackingID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c RegisterCheckpointCommand) Validate() error {
//	    return c.guard.Validate(ErrRegisterCheckpointCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// for a zero-value guard, nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
