// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"tripledger/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// TripRepoFactory provides access to the trip repository within a transaction.
	TripRepoFactory interface {
		TripRepository() ports.TripRepository
	}

	// StopRepoFactory provides access to the stop repository within a transaction.
	StopRepoFactory interface {
		StopRepository() ports.StopRepository
	}

	// ExecutionRepoFactory provides access to the execution record repository
	// within a transaction.
	ExecutionRepoFactory interface {
		ExecutionRepository() ports.ExecutionRepository
	}

	// LocationRepoFactory provides access to the location mapping repository
	// within a transaction.
	LocationRepoFactory interface {
		LocationMappingRepository() ports.LocationMappingRepository
	}

	// TripUoW manages transactions for trip-only operations.
	TripUoW interface {
		TxManager
		TripRepoFactory
	}

	// TripUoWFactory creates new trip unit of work instances.
	TripUoWFactory interface {
		Create() TripUoW
	}

	// StopUoW manages transactions for per-stop checkpoint writes. The stop
	// processor commits one of these after every saga step so a crash never
	// loses a committed checkpoint.
	StopUoW interface {
		TxManager
		StopRepoFactory
	}

	// StopUoWFactory creates new stop unit of work instances.
	StopUoWFactory interface {
		Create() StopUoW
	}

	// ProgressUoW manages transactions for execution record upserts.
	ProgressUoW interface {
		TxManager
		ExecutionRepoFactory
	}

	// ProgressUoWFactory creates new progress unit of work instances.
	ProgressUoWFactory interface {
		Create() ProgressUoW
	}

	// ExecutionUoW manages transactions spanning trips, stops and
	// location mappings during validation and execution.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   tripRepo := uow.TripRepository()
	//   stopRepo := uow.StopRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	ExecutionUoW interface {
		TxManager
		TripRepoFactory
		StopRepoFactory
		LocationRepoFactory
	}

	// ExecutionUoWFactory creates new unit of work instances for
	// validation and execution.
	ExecutionUoWFactory interface {
		Create() ExecutionUoW
	}
)
