// Package executionrepo provides data transfer objects and mapping
// functions for execution record persistence. Each trip has at most one
// record, keyed by trip id, holding the progress message pollers read.
package executionrepo

import (
	"time"

	"tripledger/internal/core/domain/model/execution"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"

	"github.com/google/uuid"
)

// ExecutionDTO represents the database structure for persisting execution
// records. The trip id is the primary key, which enforces the one-record-
// per-trip invariant at the database level.
type ExecutionDTO struct {
	TripID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status          int
	ProgressMessage string
	GeneralError    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       time.Time
	CompletedAt     *time.Time
}

// TableName specifies the database table name for execution records.
func (ExecutionDTO) TableName() string {
	return "trip_executions"
}

// fromDomain converts an execution record to its database representation.
func fromDomain(record *execution.Record) ExecutionDTO {
	return ExecutionDTO{
		TripID:          record.TripID().Bytes(),
		Status:          int(record.Status()),
		ProgressMessage: record.ProgressMessage(),
		GeneralError:    record.GeneralError(),
		CreatedAt:       record.CreatedAt(),
		UpdatedAt:       record.UpdatedAt(),
		StartedAt:       record.StartedAt(),
		CompletedAt:     record.CompletedAt(),
	}
}

// toDomain converts a database DTO to an execution record using
// RestoreRecord.
func toDomain(dto ExecutionDTO) (*execution.Record, error) {
	tripID, err := kernel.UUIDFromBytes(dto.TripID[:])
	if err != nil {
		return nil, err
	}

	return execution.RestoreRecord(
		tripID,
		trip.ExecutionStatus(dto.Status),
		dto.ProgressMessage,
		dto.GeneralError,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.StartedAt,
		dto.CompletedAt,
	)
}
