package ports

import (
	"context"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"
)

// TripRepository defines the persistence contract for trip aggregates.
type TripRepository interface {
	// Add persists a new trip aggregate to storage.
	Add(ctx context.Context, aggregate *trip.Trip) error

	// Update persists changes to an existing trip aggregate.
	Update(ctx context.Context, aggregate *trip.Trip) error

	// Get retrieves a trip aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error)

	// GetForExecution retrieves a trip while holding a row lock
	// (SELECT ... FOR UPDATE) until the surrounding transaction ends.
	// This is the real lease behind the processing guard: two workers
	// racing to start the same trip serialize here, and the loser sees
	// the processing status the winner already committed.
	GetForExecution(ctx context.Context, id kernel.UUID) (*trip.Trip, error)
}
