package errs

import (
	"errors"
	"fmt"
)

// ErrConflict is the sentinel error for operations rejected against the
// current state of an aggregate (closing below the minimum weight, booking a
// disabled slot). The caller must re-fetch the latest state and retry.
var ErrConflict = errors.New("operation conflicts with current state")

// ConflictError indicates that an operation is not allowed given the current
// persisted state. It carries the rejected operation name and a reason.
type ConflictError struct {
	Operation string
	Reason    string
	Cause     error
}

// NewConflictError creates a ConflictError without a cause.
func NewConflictError(operation, reason string) *ConflictError {
	return &ConflictError{
		Operation: operation,
		Reason:    reason,
	}
}

// NewConflictErrorWithCause creates a ConflictError wrapping the underlying cause.
func NewConflictErrorWithCause(operation, reason string, cause error) *ConflictError {
	return &ConflictError{
		Operation: operation,
		Reason:    reason,
		Cause:     cause,
	}
}

// Error formats the error message.
func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (cause: %s)", ErrConflict, e.Operation, sanitize(e.Reason), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s: %s", ErrConflict, e.Operation, sanitize(e.Reason))
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
