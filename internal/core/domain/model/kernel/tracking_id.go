package kernel

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"tracking/internal/pkg/errs"
)

const (
	// TrackingIDMinLength is the shortest accepted tracking identifier.
	TrackingIDMinLength = 3
	// TrackingIDMaxLength is the longest accepted tracking identifier.
	TrackingIDMaxLength = 50
)

var (
	// ErrTrackingIDIsNotConstructed is returned by Validate for a zero-value TrackingID.
	ErrTrackingIDIsNotConstructed = errs.NewValueIsRequiredError("TrackingID must be created via NewTrackingID")

	trackingIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// TrackingID is the opaque identifier of one unit across its lifetime.
//
// A TrackingID is 3 to 50 characters long and contains only ASCII letters,
// digits, hyphens and underscores. It is compared by value and is safe to
// use as a map key.
//
// Example:
//
//	id, err := kernel.NewTrackingID("TEST123")
//	if err != nil {
//	    return err // errors.Is(err, errs.ErrValueIsInvalid)
//	}
type TrackingID struct {
	value string
}

// NewTrackingID validates s and wraps it into a TrackingID.
//
// Returns:
//   - ValueIsRequiredError when s is empty
//   - ValueIsOutOfRangeError when the length is outside [3, 50]
//   - ValueIsInvalidError when s contains a character other than [A-Za-z0-9_-]
func NewTrackingID(s string) (TrackingID, error) {
	if s == "" {
		return TrackingID{}, errs.NewValueIsRequiredError("tracking_id")
	}

	length := utf8.RuneCountInString(s)
	if length < TrackingIDMinLength || length > TrackingIDMaxLength {
		return TrackingID{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"tracking_id length", length, TrackingIDMinLength, TrackingIDMaxLength,
			fmt.Errorf("tracking_id %q has %d characters", s, length),
		)
	}

	if !trackingIDPattern.MatchString(s) {
		return TrackingID{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking_id",
			fmt.Errorf("%q may only contain letters, digits, hyphens and underscores", s),
		)
	}

	return TrackingID{value: s}, nil
}

// MustTrackingID is NewTrackingID for literals known to be valid. It panics on error.
func MustTrackingID(s string) TrackingID {
	id, err := NewTrackingID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier.
func (t TrackingID) String() string {
	return t.value
}

// IsEqual reports whether both identifiers hold the same value.
func (t TrackingID) IsEqual(other TrackingID) bool {
	return t.value == other.value
}

// Validate returns ErrTrackingIDIsNotConstructed for the zero value.
func (t TrackingID) Validate() error {
	if t.value == "" {
		return ErrTrackingIDIsNotConstructed
	}
	return nil
}
