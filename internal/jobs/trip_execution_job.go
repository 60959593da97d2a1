package jobs

import (
	"context"
	"errors"
	"log/slog"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// TripExecutor runs one execution attempt for a queued trip.
type TripExecutor interface {
	Handle(ctx context.Context, cmd commands.ExecuteTripCommand) error
}

// TripExecutionJob drains the trip execution queue. Runs every second and
// executes at most one queued trip per tick.
type TripExecutionJob struct {
	queue    ports.TripQueue
	executor TripExecutor
	tracker  commands.ExecutionProgress
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewTripExecutionJob creates a new job for executing queued trips.
func NewTripExecutionJob(
	queue ports.TripQueue,
	executor TripExecutor,
	tracker commands.ExecutionProgress,
	logger *slog.Logger,
) *TripExecutionJob {
	return &TripExecutionJob{
		queue:    queue,
		executor: executor,
		tracker:  tracker,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "trip_execution_job"),
	}
}

// Start begins the trip execution job to run every second.
func (j *TripExecutionJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Trip execution job started (running every second)")
	return nil
}

// Stop stops the trip execution job.
func (j *TripExecutionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Trip execution job stopped")
}

func (j *TripExecutionJob) tick() {
	ctx := context.Background()

	tripID, ok, err := j.queue.Dequeue(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to dequeue trip", "error", err)
		return
	}
	if !ok {
		return
	}

	j.logger.InfoContext(ctx, "Executing queued trip", "trip_id", tripID.String())

	cmd, err := commands.NewExecuteTripCommand(tripID)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build execute command", "trip_id", tripID.String(), "error", err)
		return
	}

	if err := j.executor.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Trip execution failed", "trip_id", tripID.String(), "error", err)

		// A lease conflict means another worker owns the trip and its
		// record; a completed-trip refusal means the record already holds
		// the terminal outcome. Both leave the record alone.
		if errors.Is(err, commands.ErrTripAlreadyProcessing) ||
			errors.Is(err, commands.ErrTripAlreadyCompleted) {
			return
		}

		message := err.Error()
		if trackErr := j.tracker.Finalize(ctx, tripID, trip.ExecutionFailed, message, &message); trackErr != nil {
			j.logger.ErrorContext(ctx, "Failed to record trip failure",
				"trip_id", tripID.String(), "error", trackErr)
		}
		return
	}

	j.logger.InfoContext(ctx, "Trip execution finished", "trip_id", tripID.String())
}
