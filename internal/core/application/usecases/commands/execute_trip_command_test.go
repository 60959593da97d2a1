package commands_test

import (
	"testing"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecuteTripCommand_ValidInput(t *testing.T) {
	// Arrange
	tripID := kernel.NewUUID()

	// Act
	cmd, err := commands.NewExecuteTripCommand(tripID)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, cmd)
	assert.Equal(t, tripID, cmd.TripID())
	assert.NoError(t, cmd.Validate())
}

func TestNewExecuteTripCommand_ZeroTripID(t *testing.T) {
	// Act
	_, err := commands.NewExecuteTripCommand(kernel.UUID{})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestExecuteTripCommand_Validate_ZeroValue(t *testing.T) {
	// Arrange - zero value command (not constructed via constructor)
	var cmd commands.ExecuteTripCommand

	// Act
	err := cmd.Validate()

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrExecuteTripCommandIsNotConstructed)
}
