package errs

import (
	"errors"
	"fmt"
)

// ErrValueIsInvalid is the sentinel error for validation failures.
var ErrValueIsInvalid = errors.New("value is invalid")

// ValueIsInvalidError indicates that a supplied value failed validation.
// Validation failures are rejected synchronously and cause no state change.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping the
// underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

// Error formats the error message.
func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}
