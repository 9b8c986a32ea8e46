package unit

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"tracking/internal/pkg/errs"
)

const (
	// MaxLocationLength bounds CheckpointRecord.Location, in characters.
	MaxLocationLength = 200
	// MaxNotesLength bounds CheckpointRecord.Notes, in characters.
	MaxNotesLength = 500
	// MaxOperatorIDLength bounds CheckpointRecord.OperatorID, in characters.
	MaxOperatorIDLength = 50
)

// RecordDetails carries the optional metadata of a checkpoint.
// Empty strings mean "not provided".
type RecordDetails struct {
	Location   string
	Notes      string
	OperatorID string
}

// CheckpointRecord is one validated status observation: the atomic entry of a
// unit's ledger. It is immutable; the timestamp is stored in UTC with
// microsecond precision so it survives a round-trip through PostgreSQL.
type CheckpointRecord struct {
	status    Status
	timestamp time.Time
	details   RecordDetails

	isConstructed bool
}

// NewCheckpointRecord validates its inputs against the current time.
//
// Validation rules:
//   - status must be a known lifecycle status
//   - timestamp is required and must not be after now
//   - location, notes and operator id are bounded to 200, 500 and 50 characters
//
// All violations are reported together via errors.Join.
//
// Example:
//
//	record, err := unit.NewCheckpointRecord(unit.PickedUp, time.Now(), unit.RecordDetails{
//	    Location:   "Madrid hub",
//	    OperatorID: "OP-7",
//	})
func NewCheckpointRecord(status Status, timestamp time.Time, details RecordDetails) (CheckpointRecord, error) {
	return newCheckpointRecord(status, timestamp, details, time.Now())
}

// RestoreCheckpointRecord rebuilds a stored record. It applies every rule of
// NewCheckpointRecord except the future-timestamp check.
func RestoreCheckpointRecord(status Status, timestamp time.Time, details RecordDetails) (CheckpointRecord, error) {
	return newCheckpointRecord(status, timestamp, details, timestamp)
}

func newCheckpointRecord(status Status, timestamp time.Time, details RecordDetails, now time.Time) (CheckpointRecord, error) {
	record := CheckpointRecord{isConstructed: true}

	if err := errors.Join(
		record.setStatus(status),
		record.setTimestamp(timestamp, now),
		record.setDetails(details),
	); err != nil {
		return CheckpointRecord{}, err
	}

	return record, nil
}

// Validate returns ErrCheckpointRecordIsNotConstructed for the zero value.
func (r CheckpointRecord) Validate() error {
	if !r.isConstructed {
		return ErrCheckpointRecordIsNotConstructed
	}
	return nil
}

func (r CheckpointRecord) Status() Status {
	return r.status
}

func (r CheckpointRecord) Timestamp() time.Time {
	return r.timestamp
}

func (r CheckpointRecord) Location() string {
	return r.details.Location
}

func (r CheckpointRecord) Notes() string {
	return r.details.Notes
}

func (r CheckpointRecord) OperatorID() string {
	return r.details.OperatorID
}

func (r CheckpointRecord) Details() RecordDetails {
	return r.details
}

// Equal compares every field by value.
func (r CheckpointRecord) Equal(other CheckpointRecord) bool {
	return r.status == other.status &&
		r.timestamp.Equal(other.timestamp) &&
		r.details == other.details
}

// withTimestamp derives a bootstrap record at an earlier instant.
func (r CheckpointRecord) withTimestamp(ts time.Time) CheckpointRecord {
	r.timestamp = normalizeTimestamp(ts)
	return r
}

func (r *CheckpointRecord) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}

func (r *CheckpointRecord) setTimestamp(timestamp, now time.Time) error {
	if timestamp.IsZero() {
		return errs.NewValueIsRequiredError("timestamp")
	}

	ts := normalizeTimestamp(timestamp)
	if ts.After(now) {
		return errs.NewValueIsInvalidErrorWithCause(
			"timestamp",
			fmt.Errorf("%s is in the future", ts.Format(time.RFC3339Nano)),
		)
	}

	r.timestamp = ts
	return nil
}

func (r *CheckpointRecord) setDetails(details RecordDetails) error {
	if err := errors.Join(
		checkLength("location", details.Location, MaxLocationLength),
		checkLength("notes", details.Notes, MaxNotesLength),
		checkLength("operator_id", details.OperatorID, MaxOperatorIDLength),
	); err != nil {
		return err
	}
	r.details = details
	return nil
}

func checkLength(name, value string, maxLength int) error {
	if n := utf8.RuneCountInString(value); n > maxLength {
		return errs.NewValueIsOutOfRangeError(name+" length", n, 0, maxLength)
	}
	return nil
}

func normalizeTimestamp(ts time.Time) time.Time {
	return ts.UTC().Truncate(time.Microsecond)
}
