package commands

import (
	"context"

	"tripledger/internal/core/domain/model/stop"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/ports"
)

// unknownAddress stands in for stops with no resolved delivery address so
// the route request never carries an empty waypoint.
const unknownAddress = "Unknown Address"

// RouteCache resolves the route plan for a trip. A plan is generated at
// most once per trip: once persisted it is replayed verbatim on every
// later attempt, even if the addresses would now produce a different plan.
// Retried attempts therefore always manifest against the same departure
// and arrival timestamps.
type RouteCache struct {
	uowFactory TripUoWFactory
	routes     ports.RouteService
}

// NewRouteCache creates a RouteCache over the given route service.
func NewRouteCache(uowFactory TripUoWFactory, routes ports.RouteService) RouteCache {
	return RouteCache{
		uowFactory: uowFactory,
		routes:     routes,
	}
}

// Resolve returns the trip's route plan, requesting and persisting one
// first when absent. The plan is committed before any stop is processed,
// so a crash after this point never re-requests a plan.
func (c RouteCache) Resolve(ctx context.Context, aggregate *trip.Trip, stops []*stop.Stop) (trip.RoutePlan, error) {
	if plan := aggregate.RoutePlan(); plan != nil {
		return *plan, nil
	}

	addresses := make([]string, len(stops))
	for i, s := range stops {
		addresses[i] = unknownAddress
		if s.Address() != nil && *s.Address() != "" {
			addresses[i] = *s.Address()
		}
	}

	segments, err := c.routes.Plan(ctx, addresses, aggregate.DeliveryDate(), aggregate.DepartureTime())
	if err != nil {
		return trip.RoutePlan{}, err
	}

	plan, err := trip.NewRoutePlan(segments)
	if err != nil {
		return trip.RoutePlan{}, err
	}

	if err = aggregate.AttachRoutePlan(plan); err != nil {
		return trip.RoutePlan{}, err
	}

	if err = c.persist(ctx, aggregate); err != nil {
		return trip.RoutePlan{}, err
	}

	return plan, nil
}

func (c RouteCache) persist(ctx context.Context, aggregate *trip.Trip) error {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.TripRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
