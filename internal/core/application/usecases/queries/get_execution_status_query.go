package queries

import (
	"errors"
	"time"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/guard"
)

var ErrGetExecutionStatusQueryIsNotConstructed = errors.New(
	"GetExecutionStatusQuery must be created via NewGetExecutionStatusQuery constructor",
)

// GetExecutionStatusQuery retrieves the execution progress of one trip.
// Frontend pollers issue this repeatedly while a trip executes.
//
// Example:
//
//	query, err := NewGetExecutionStatusQuery(tripID)
//	if err != nil {
//	    return err
//	}
//
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get execution status: %w", err)
//	}
//
//	fmt.Printf("%s: %.0f%% (%s)\n",
//	    status.ExecutionStatus, status.ProgressPercentage, status.ProgressMessage)
type GetExecutionStatusQuery struct {
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetExecutionStatusQuery creates a query for the given trip.
func NewGetExecutionStatusQuery(tripID kernel.UUID) (GetExecutionStatusQuery, error) {
	if err := tripID.Validate(); err != nil {
		return GetExecutionStatusQuery{}, err
	}

	return GetExecutionStatusQuery{
		tripID: tripID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetExecutionStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetExecutionStatusQueryIsNotConstructed)
}

// TripID returns the identifier of the trip being polled.
func (q GetExecutionStatusQuery) TripID() kernel.UUID {
	return q.tripID
}

// GetExecutionStatusQueryResponse represents a trip's execution progress.
// The percentage is derived, not stored: a time-based ramp while
// processing, 100 when completed, 0 when failed or not started.
type GetExecutionStatusQueryResponse struct {
	TripID             kernel.UUID
	ExecutionStatus    string
	ProgressPercentage float64
	ProgressMessage    string
	GeneralError       *string
	StartedAt          *time.Time
	UpdatedAt          *time.Time
	CompletedAt        *time.Time
}
