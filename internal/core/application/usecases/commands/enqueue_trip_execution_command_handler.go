package commands

import (
	"context"
	"errors"

	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/ports"
)

var (
	// ErrTripAlreadyProcessing is returned when a trip is enqueued while a
	// worker already holds it.
	ErrTripAlreadyProcessing = errors.New("trip is already being processed")

	// ErrTripAlreadyCompleted is returned for a trip whose business status
	// is completed. Re-executing such a trip would report every split, move
	// and manifest to the ledger a second time.
	ErrTripAlreadyCompleted = errors.New("trip has already been completed")
)

// EnqueueTripExecutionCommandHandler pushes a trip onto the durable
// execution queue. The processing check here is advisory and exists for
// caller feedback; the real guard is the row-locked lease the worker
// acquires when the job starts.
type EnqueueTripExecutionCommandHandler struct {
	uowFactory TripUoWFactory
	queue      ports.TripQueue
	tracker    ExecutionProgress
}

// NewEnqueueTripExecutionCommandHandler creates a handler for trip
// enqueueing operations.
func NewEnqueueTripExecutionCommandHandler(
	uowFactory TripUoWFactory,
	queue ports.TripQueue,
	tracker ExecutionProgress,
) EnqueueTripExecutionCommandHandler {
	return EnqueueTripExecutionCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		tracker:    tracker,
	}
}

// Handle queues the trip for background execution.
func (h *EnqueueTripExecutionCommandHandler) Handle(ctx context.Context, cmd EnqueueTripExecutionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.TripRepository().Get(ctx, cmd.TripID())
	if err != nil {
		return err
	}

	if aggregate.Status() == trip.StatusCompleted {
		return ErrTripAlreadyCompleted
	}
	if aggregate.ExecutionStatus() == trip.ExecutionProcessing {
		return ErrTripAlreadyProcessing
	}

	if err = h.queue.Enqueue(ctx, cmd.TripID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.tracker.Update(ctx, cmd.TripID(), trip.ExecutionPending, "Trip execution queued")
}
