// Package pgerr translates PostgreSQL driver errors into domain errors.
package pgerr

import (
	"errors"

	"tracking/internal/pkg/errs"

	"github.com/lib/pq"
)

// SQLSTATE codes the repositories react to.
const (
	UniqueViolation      pq.ErrorCode = "23505"
	SerializationFailure pq.ErrorCode = "40001"
)

// Translate maps unique violations to *errs.ObjectAlreadyExistsError and
// serialization failures to *errs.ConcurrencyConflictError. Other errors are
// returned unchanged.
func Translate(err error, paramName string, id any) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case UniqueViolation:
		return errs.NewObjectAlreadyExistsErrorWithCause(paramName, id, err)
	case SerializationFailure:
		return errs.NewConcurrencyConflictErrorWithCause(paramName, id, err)
	default:
		return err
	}
}
