package ports

import (
	"context"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"
)

// StopRepository defines the persistence contract for stop aggregates.
type StopRepository interface {
	// Add persists a new stop aggregate to storage.
	Add(ctx context.Context, aggregate *stop.Stop) error

	// Update persists changes to an existing stop aggregate. The stop
	// processor calls this after every saga step so a crash never loses a
	// committed checkpoint.
	Update(ctx context.Context, aggregate *stop.Stop) error

	// GetByTrip retrieves all stops of a trip ordered by ascending
	// sequence position.
	GetByTrip(ctx context.Context, tripID kernel.UUID) ([]*stop.Stop, error)
}
