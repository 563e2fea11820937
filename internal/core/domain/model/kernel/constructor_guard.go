package kernel

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects and entities are only created through
// their designated constructor functions. It prevents direct struct
// initialization and enforces validation rules.
//
// By embedding a ConstructorGuard in a struct, you can detect whether the
// struct was properly initialized through its constructor or created as a
// zero value. The guard maintains an internal flag that is only set to true
// when the object is created through the proper constructor function.
//
// Example usage:
//
//	var ErrWeightNotConstructed = errors.New("Kilograms must be created via NewKilograms")
//
//	type Kilograms struct {
//	    value float64
//	    guard ConstructorGuard
//	}
//
//	func NewKilograms(value float64) (Kilograms, error) {
//	    if value < 0 {
//	        return Kilograms{}, errors.New("weight cannot be negative")
//	    }
//	    return Kilograms{
//	        value: value,
//	        guard: NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (k Kilograms) Validate() error {
//	    return k.guard.Validate(ErrWeightNotConstructed)
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
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
