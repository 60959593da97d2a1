package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and repositories bound to the current
// transaction. Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// TripRepository returns a TripRepository bound to the current
	// transaction.
	TripRepository() TripRepository

	// StopRepository returns a StopRepository bound to the current
	// transaction.
	StopRepository() StopRepository

	// ExecutionRepository returns an ExecutionRepository bound to the
	// current transaction.
	ExecutionRepository() ExecutionRepository

	// LocationMappingRepository returns a LocationMappingRepository bound
	// to the current transaction.
	LocationMappingRepository() LocationMappingRepository
}
