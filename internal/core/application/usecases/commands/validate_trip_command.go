package commands

import (
	"errors"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/guard"
)

var ErrValidateTripCommandIsNotConstructed = errors.New(
	"ValidateTripCommand must be created via NewValidateTripCommand constructor",
)

// ValidateTripCommand represents a request to pre-validate a trip against
// the compliance ledger before it becomes eligible for execution.
//
// Example:
//
//	cmd, err := NewValidateTripCommand(tripID)
//	if err != nil {
//	    return fmt.Errorf("invalid trip id: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("validation could not run: %w", err)
//	}
//	if !result.Valid {
//	    // result.Errors lists every problem found
//	}
type ValidateTripCommand struct { //nolint:recvcheck //using for validation
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

// NewValidateTripCommand creates a command to validate the given trip.
func NewValidateTripCommand(tripID kernel.UUID) (ValidateTripCommand, error) {
	cmd := ValidateTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTripID(tripID); err != nil {
		return ValidateTripCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ValidateTripCommand) Validate() error {
	return c.guard.Validate(ErrValidateTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip to validate.
func (c ValidateTripCommand) TripID() kernel.UUID {
	return c.tripID
}

func (c *ValidateTripCommand) setTripID(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	c.tripID = tripID
	return nil
}
