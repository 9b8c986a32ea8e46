// Package unit implements the lifecycle state machine of a shippable unit.
//
// Status and its transition table define which moves are legal.
// CheckpointRecord is the validated, immutable observation appended to a
// unit's ledger. Unit is the aggregate that applies records one at a time,
// rejecting illegal transitions with *InvalidTransitionError and
// non-increasing timestamps with *OutOfOrderTimestampError.
//
// Basic usage:
//
//	u, _ := unit.NewUnit(kernel.MustTrackingID("TEST123"), unit.Created)
//	rec, _ := unit.NewCheckpointRecord(unit.PickedUp, time.Now(), unit.RecordDetails{})
//	if err := u.AddCheckpoint(rec); err != nil {
//	    var transitionErr *unit.InvalidTransitionError
//	    if errors.As(err, &transitionErr) {
//	        // transitionErr.From, transitionErr.To
//	    }
//	}
package unit
