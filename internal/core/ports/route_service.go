package ports

import (
	"context"
	"time"

	"tripledger/internal/core/domain/model/trip"
)

// RouteService is the contract with the external route/directions provider.
type RouteService interface {
	// Plan computes ordered route segments covering every stop address in
	// sequence, departing the warehouse origin at startTime on
	// deliveryDate. One segment per address, each with departure and
	// arrival timestamps and turn-by-turn text.
	Plan(
		ctx context.Context,
		addresses []string,
		deliveryDate time.Time,
		startTime time.Time,
	) ([]trip.RouteSegment, error)
}
