package commands

import (
	"errors"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/guard"
)

var ErrEnqueueTripExecutionCommandIsNotConstructed = errors.New(
	"EnqueueTripExecutionCommand must be created via NewEnqueueTripExecutionCommand constructor",
)

// EnqueueTripExecutionCommand represents a request to queue a trip for
// background execution. The caller gets immediate feedback; the saga runs
// on a worker and is observable only through the execution record.
type EnqueueTripExecutionCommand struct { //nolint:recvcheck //using for validation
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

// NewEnqueueTripExecutionCommand creates a command to enqueue the given
// trip for execution.
func NewEnqueueTripExecutionCommand(tripID kernel.UUID) (EnqueueTripExecutionCommand, error) {
	cmd := EnqueueTripExecutionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTripID(tripID); err != nil {
		return EnqueueTripExecutionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c EnqueueTripExecutionCommand) Validate() error {
	return c.guard.Validate(ErrEnqueueTripExecutionCommandIsNotConstructed)
}

// TripID returns the identifier of the trip to enqueue.
func (c EnqueueTripExecutionCommand) TripID() kernel.UUID {
	return c.tripID
}

func (c *EnqueueTripExecutionCommand) setTripID(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	c.tripID = tripID
	return nil
}
