// Package jobs provides scheduled background tasks for the trip execution
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the asynchronous half of trip execution.
//
// # Available Jobs
//
// 1. TripExecutionJob - Runs every second to drain the execution queue and
// run queued trips through the per-stop ledger saga
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(queue, executor, tracker, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The execution job uses the cron expression "* * * * * *", so queued trips
// start within a second of being enqueued. Ticks overlap when a trip takes
// longer than a second; the trip row lease keeps a trip from being executed
// twice, and distinct trips may run in parallel.
//
// # Error Handling
//
// - An empty queue is the normal case and is not logged
// - Execution failures are logged and stamped onto the trip's execution
//   record so pollers never see a stuck "queued" state, except for lease
//   conflicts and completed-trip refusals, where the record belongs to
//   the attempt that owns the trip
package jobs
