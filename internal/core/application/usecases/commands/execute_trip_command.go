package commands

import (
	"errors"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/guard"
)

var ErrExecuteTripCommandIsNotConstructed = errors.New(
	"ExecuteTripCommand must be created via NewExecuteTripCommand constructor",
)

// ExecuteTripCommand represents a request to run a trip's execution saga:
// authenticate with the ledger, resolve the route plan, process every stop
// sequentially and reduce the outcomes into a trip-level status.
type ExecuteTripCommand struct { //nolint:recvcheck //using for validation
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

// NewExecuteTripCommand creates a command to execute the given trip.
func NewExecuteTripCommand(tripID kernel.UUID) (ExecuteTripCommand, error) {
	cmd := ExecuteTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTripID(tripID); err != nil {
		return ExecuteTripCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ExecuteTripCommand) Validate() error {
	return c.guard.Validate(ErrExecuteTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip to execute.
func (c ExecuteTripCommand) TripID() kernel.UUID {
	return c.tripID
}

func (c *ExecuteTripCommand) setTripID(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	c.tripID = tripID
	return nil
}
