package queries

import (
	"errors"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/guard"
)

var ErrGetTripStopsQueryIsNotConstructed = errors.New(
	"GetTripStopsQuery must be created via NewGetTripStopsQuery constructor",
)

// GetTripStopsQuery retrieves the per-stop read model of one trip:
// saga status, recorded error and filed manifest id for every stop.
// Used by the trip detail view alongside the execution status poller.
type GetTripStopsQuery struct {
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTripStopsQuery creates a query for the given trip.
func NewGetTripStopsQuery(tripID kernel.UUID) (GetTripStopsQuery, error) {
	if err := tripID.Validate(); err != nil {
		return GetTripStopsQuery{}, err
	}

	return GetTripStopsQuery{
		tripID: tripID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTripStopsQuery) Validate() error {
	return q.guard.Validate(ErrGetTripStopsQueryIsNotConstructed)
}

// TripID returns the identifier of the trip whose stops are requested.
func (q GetTripStopsQuery) TripID() kernel.UUID {
	return q.tripID
}

// GetTripStopsQueryResponse represents one stop of the trip in sequence
// order.
type GetTripStopsQueryResponse struct {
	ID           kernel.UUID
	OrderRef     string
	Sequence     int
	Address      *string
	Status       string
	ErrorMessage *string
	ManifestID   *string
}
