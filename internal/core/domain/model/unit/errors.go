package unit

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is the sentinel behind every InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOutOfOrderTimestamp is the sentinel behind every OutOfOrderTimestampError.
	ErrOutOfOrderTimestamp = errors.New("checkpoint timestamp out of order")

	// ErrUnitIsNotConstructed is returned for a Unit not built by NewUnit, NewUnitFromRecord or RestoreUnit.
	ErrUnitIsNotConstructed = errors.New("Unit must be created via NewUnit constructor")

	// ErrCheckpointRecordIsNotConstructed is returned for a zero-value CheckpointRecord.
	ErrCheckpointRecordIsNotConstructed = errors.New(
		"CheckpointRecord must be created via NewCheckpointRecord constructor",
	)
)

// InvalidTransitionError reports a status change missing from the transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition from %s to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// OutOfOrderTimestampError reports a checkpoint not strictly later than the last one.
type OutOfOrderTimestampError struct {
	Last time.Time
	Next time.Time
}

func NewOutOfOrderTimestampError(last, next time.Time) *OutOfOrderTimestampError {
	return &OutOfOrderTimestampError{Last: last, Next: next}
}

func (e *OutOfOrderTimestampError) Error() string {
	return fmt.Sprintf("%s: %s is not after the last checkpoint at %s",
		ErrOutOfOrderTimestamp, e.Next.Format(time.RFC3339Nano), e.Last.Format(time.RFC3339Nano))
}

func (e *OutOfOrderTimestampError) Unwrap() error {
	return ErrOutOfOrderTimestamp
}
