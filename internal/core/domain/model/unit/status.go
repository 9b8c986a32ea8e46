package unit

import (
	"fmt"
	"slices"

	"tracking/internal/pkg/errs"
)

// Status is the lifecycle state of a unit.
//
// Transitions:
//
//	CREATED           -> PICKED_UP, EXCEPTION
//	PICKED_UP         -> IN_TRANSIT, AT_FACILITY, EXCEPTION
//	IN_TRANSIT        -> AT_FACILITY, OUT_FOR_DELIVERY, EXCEPTION
//	AT_FACILITY       -> OUT_FOR_DELIVERY, IN_TRANSIT, EXCEPTION
//	OUT_FOR_DELIVERY  -> DELIVERED, AT_FACILITY, EXCEPTION
//	EXCEPTION         -> PICKED_UP, IN_TRANSIT, AT_FACILITY
//	DELIVERED         (terminal)
//
// No status transitions to itself.
type Status int

const (
	// Unknown is the zero value and never a valid lifecycle state.
	Unknown Status = iota

	// Created is the initial state of a registered unit.
	Created

	// PickedUp means the carrier has taken the unit from the sender.
	PickedUp

	// InTransit means the unit is moving between facilities.
	InTransit

	// AtFacility means the unit is held at a hub or warehouse.
	AtFacility

	// OutForDelivery means the unit is on the final leg to the recipient.
	OutForDelivery

	// Delivered is terminal.
	Delivered

	// Exception flags a problem (damage, failed attempt, customs hold). Recoverable.
	Exception
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Created:        "CREATED",
		PickedUp:       "PICKED_UP",
		InTransit:      "IN_TRANSIT",
		AtFacility:     "AT_FACILITY",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Exception:      "EXCEPTION",
	}
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Created, PickedUp, InTransit, AtFacility, OutForDelivery, Delivered, Exception}
}

// ParseStatus converts the wire name ("PICKED_UP") into a Status.
// "UNKNOWN" and any other name fail with a ValueIsInvalidError.
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < Created || s > Exception {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the wire name, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// NextValidStatuses returns the statuses reachable from s in one step.
// The result is a fresh slice on every call; Delivered and invalid values
// yield an empty slice.
func (s Status) NextValidStatuses() []Status {
	switch s {
	case Created:
		return []Status{PickedUp, Exception}
	case PickedUp:
		return []Status{InTransit, AtFacility, Exception}
	case InTransit:
		return []Status{AtFacility, OutForDelivery, Exception}
	case AtFacility:
		return []Status{OutForDelivery, InTransit, Exception}
	case OutForDelivery:
		return []Status{Delivered, AtFacility, Exception}
	case Exception:
		return []Status{PickedUp, InTransit, AtFacility}
	case Unknown, Delivered:
		return []Status{}
	default:
		return []Status{}
	}
}

// CanTransition reports whether to is reachable from s in one step.
func (s Status) CanTransition(to Status) bool {
	return slices.Contains(s.NextValidStatuses(), to)
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// RequiresNotification reports whether reaching s should notify the recipient.
func (s Status) RequiresNotification() bool {
	return s == Delivered || s == Exception
}
