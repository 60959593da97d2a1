package ports

import (
	"context"
	"errors"

	"tripledger/internal/core/domain/model/execution"
	"tripledger/internal/core/domain/model/kernel"
)

// ErrExecutionRecordExists is returned by Add when a record for the trip
// already exists. The progress tracker treats it as a lost creation race
// and falls through to an update.
var ErrExecutionRecordExists = errors.New("execution record already exists for trip")

// ExecutionRepository defines the persistence contract for execution
// records. Each trip has at most one record, keyed by trip id.
type ExecutionRepository interface {
	// Add persists a new execution record. Returns
	// ErrExecutionRecordExists when the trip already has one.
	Add(ctx context.Context, record *execution.Record) error

	// Update persists changes to an existing execution record.
	Update(ctx context.Context, record *execution.Record) error

	// GetByTrip retrieves the execution record for a trip.
	GetByTrip(ctx context.Context, tripID kernel.UUID) (*execution.Record, error)
}
