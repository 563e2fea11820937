package errs

import (
	"errors"
	"fmt"
)

// ErrExternalProvider is the sentinel error for failures of external
// collaborators (payment provider, invoice service). Operations failing with
// this error are safe to retry with the same idempotency key.
var ErrExternalProvider = errors.New("external provider failed")

// ExternalProviderError indicates that a call to an external collaborator
// failed. The saga state stays consistent and the call may be re-invoked.
type ExternalProviderError struct {
	Provider string
	Cause    error
}

// NewExternalProviderError creates an ExternalProviderError wrapping the
// underlying cause.
func NewExternalProviderError(provider string, cause error) *ExternalProviderError {
	return &ExternalProviderError{
		Provider: provider,
		Cause:    cause,
	}
}

// Error formats the error message.
func (e *ExternalProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrExternalProvider, e.Provider, sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrExternalProvider, e.Provider)
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *ExternalProviderError) Unwrap() error {
	return ErrExternalProvider
}
