package commands

import (
	"context"
	"errors"
	"time"

	"tripledger/internal/core/domain/model/execution"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/ports"
)

// ExecutionProgress is the progress-reporting contract consumed by the
// execution handlers and the job runtime.
type ExecutionProgress interface {
	// Update upserts the trip's execution record with a new status and
	// human-readable message.
	Update(ctx context.Context, tripID kernel.UUID, status trip.ExecutionStatus, message string) error

	// Finalize is Update plus an optional trip-wide error, used when an
	// attempt reaches a terminal status.
	Finalize(ctx context.Context, tripID kernel.UUID, status trip.ExecutionStatus, message string, generalError *string) error
}

// ProgressTracker maintains the per-trip execution record consulted by
// pollers. The record is created lazily on the first update of an attempt;
// creation tolerates a race between two inserters by rolling back and
// falling through to an update.
type ProgressTracker struct {
	uowFactory ProgressUoWFactory
}

// NewProgressTracker creates a ProgressTracker backed by the given unit of
// work factory.
func NewProgressTracker(uowFactory ProgressUoWFactory) ProgressTracker {
	return ProgressTracker{
		uowFactory: uowFactory,
	}
}

// Update upserts the execution record for a trip. Pollers always observe
// monotonically newer messages; completed_at is stamped exactly when the
// status enters a terminal state.
func (t ProgressTracker) Update(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
) error {
	return t.upsert(ctx, tripID, status, message, nil)
}

// Finalize records a terminal status together with an optional trip-wide
// error message.
func (t ProgressTracker) Finalize(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
) error {
	return t.upsert(ctx, tripID, status, message, generalError)
}

func (t ProgressTracker) upsert(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
) error {
	now := time.Now()

	err := t.insert(ctx, tripID, status, message, generalError, now)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ports.ErrExecutionRecordExists) {
		return err
	}

	// Lost the creation race, or the record predates this attempt.
	return t.update(ctx, tripID, status, message, generalError, now)
}

func (t ProgressTracker) insert(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
	now time.Time,
) error {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := execution.NewRecord(tripID, status, message, now)
	if err != nil {
		return err
	}
	if generalError != nil {
		record.SetGeneralError(*generalError)
	}

	if err = uow.ExecutionRepository().Add(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (t ProgressTracker) update(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
	now time.Time,
) error {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.ExecutionRepository().GetByTrip(ctx, tripID)
	if err != nil {
		return err
	}

	if err = record.Update(status, message, now); err != nil {
		return err
	}
	if generalError != nil {
		record.SetGeneralError(*generalError)
	}

	if err = uow.ExecutionRepository().Update(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
