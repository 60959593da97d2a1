package jobs

import (
	"fmt"
	"log/slog"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	tripExecutionJob *TripExecutionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	queue ports.TripQueue,
	executor TripExecutor,
	tracker commands.ExecutionProgress,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		tripExecutionJob: NewTripExecutionJob(queue, executor, tracker, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.tripExecutionJob.Start(); err != nil {
		return fmt.Errorf("failed to start trip execution job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.tripExecutionJob.Stop()
}
