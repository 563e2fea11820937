package errs

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound is the sentinel error for missing objects.
// Use errors.Is(err, ErrObjectNotFound) to detect this class of failure.
var ErrObjectNotFound = errors.New("object not found")

// ObjectNotFoundError indicates that a referenced object does not exist.
// When a referenced row has vanished mid-operation this is a fatal data
// error: the operation aborts and is never auto-retried.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping the
// underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

// Error formats the error message.
func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}
