// Package errs provides standardized error types for the group-buy settlement engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid (validation failures)
//   - ObjectNotFoundError: For when a referenced object cannot be found
//   - ConflictError: For operations rejected against current state; the caller
//     should re-fetch and retry
//   - ExternalProviderError: For failures of external collaborators (payment,
//     invoicing); these are retryable
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach lets transport adapters classify failures
// (validation vs. conflict vs. retryable provider failure vs. missing data)
// with errors.Is instead of string matching.
package errs
