// Package guard provides the ConstructorGuard pattern used by commands and
// queries to enforce construction through their designated factory functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a zero-value guard
// is validated and no specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether the embedding struct was created through
// its constructor or as a zero value. Embedding a guard and calling Validate
// in the owner's Validate method prevents use of unvalidated instances.
//
// Example:
//
//	type LockOrderCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c LockOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrLockOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owner was created via its constructor.
// For zero-value guards it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
