// Package errs provides standardized error types for the tracking service.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: an object cannot be found
//   - ObjectAlreadyExistsError: an object with the same identity already exists
//   - ConcurrencyConflictError: an aggregate changed between read and write
//
// Each error type follows the same pattern: a sentinel error variable, a struct
// carrying the details, constructors with and without cause, and an Unwrap method
// returning the sentinel so callers classify errors with errors.Is.
package errs
