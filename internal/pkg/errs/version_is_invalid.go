package errs

import (
	"errors"
	"fmt"
)

// ErrVersionIsInvalid is the sentinel error for invalid aggregate versions.
var ErrVersionIsInvalid = errors.New("version is invalid")

// VersionIsInvalidError indicates that an aggregate version value is invalid.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError without a cause.
func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError wrapping
// the underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

// Error formats the error message.
func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName)
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}
