package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/guard"
)

var ErrCreateUnitCommandIsNotConstructed = errors.New(
	"CreateUnitCommand must be created via NewCreateUnitCommand constructor",
)

// CreateUnitCommand explicitly registers a unit before any checkpoint arrives.
// An empty initial status means CREATED.
type CreateUnitCommand struct { //nolint:recvcheck //using for validation
	trackingID    kernel.TrackingID
	initialStatus unit.Status

	guard guard.ConstructorGuard
}

func NewCreateUnitCommand(trackingID string, initialStatus string) (CreateUnitCommand, error) {
	cmd := CreateUnitCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTrackingID(trackingID),
		cmd.setInitialStatus(initialStatus),
	); err != nil {
		return CreateUnitCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateUnitCommand) Validate() error {
	return c.guard.Validate(ErrCreateUnitCommandIsNotConstructed)
}

func (c CreateUnitCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c CreateUnitCommand) InitialStatus() unit.Status {
	return c.initialStatus
}

func (c *CreateUnitCommand) setTrackingID(trackingID string) error {
	id, err := kernel.NewTrackingID(trackingID)
	if err != nil {
		return err
	}

	c.trackingID = id
	return nil
}

func (c *CreateUnitCommand) setInitialStatus(initialStatus string) error {
	if initialStatus == "" {
		c.initialStatus = unit.Created
		return nil
	}

	status, err := unit.ParseStatus(initialStatus)
	if err != nil {
		return err
	}

	c.initialStatus = status
	return nil
}
