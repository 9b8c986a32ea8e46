package commands

import (
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrRegisterCheckpointCommandIsNotConstructed = errors.New(
	"RegisterCheckpointCommand must be created via NewRegisterCheckpointCommand constructor",
)

// RegisterCheckpointCommand records one status observation for a unit,
// creating the unit on first contact when the policy allows it.
//
// Example:
//
//	cmd, err := NewRegisterCheckpointCommand("TEST123", "PICKED_UP", time.Time{}, unit.RecordDetails{
//	    Location: "Madrid hub",
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkpoint: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type RegisterCheckpointCommand struct { //nolint:recvcheck //using for validation
	trackingID kernel.TrackingID
	record     unit.CheckpointRecord

	guard guard.ConstructorGuard
}

// NewRegisterCheckpointCommand validates the raw request values. A zero
// timestamp defaults to the current time. All violations are joined.
func NewRegisterCheckpointCommand(
	trackingID string,
	status string,
	timestamp time.Time,
	details unit.RecordDetails,
) (RegisterCheckpointCommand, error) {
	cmd := RegisterCheckpointCommand{
		guard: guard.NewConstructorGuard(),
	}

	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if err := errors.Join(
		cmd.setTrackingID(trackingID),
		cmd.setRecord(status, timestamp, details),
	); err != nil {
		return RegisterCheckpointCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCheckpointCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCheckpointCommandIsNotConstructed)
}

func (c RegisterCheckpointCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c RegisterCheckpointCommand) Record() unit.CheckpointRecord {
	return c.record
}

func (c *RegisterCheckpointCommand) setTrackingID(trackingID string) error {
	id, err := kernel.NewTrackingID(trackingID)
	if err != nil {
		return err
	}

	c.trackingID = id
	return nil
}

func (c *RegisterCheckpointCommand) setRecord(status string, timestamp time.Time, details unit.RecordDetails) error {
	if status == "" {
		return errs.NewValueIsRequiredError("status")
	}

	parsed, err := unit.ParseStatus(status)
	if err != nil {
		return err
	}

	record, err := unit.NewCheckpointRecord(parsed, timestamp, details)
	if err != nil {
		return err
	}

	c.record = record
	return nil
}
