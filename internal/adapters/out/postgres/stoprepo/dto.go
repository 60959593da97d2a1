// Package stoprepo provides data transfer objects and mapping functions for
// stop persistence. Each stop row is a durable saga checkpoint: the stop
// processor writes it after every completed ledger step.
package stoprepo

import (
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"

	"github.com/google/uuid"
)

// StopDTO represents the database structure for persisting stop aggregates.
type StopDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TripID       uuid.UUID `gorm:"type:uuid;index"`
	OrderRef     string
	Sequence     int
	Address      *string
	RoomOverride *string
	Status       int `gorm:"index"`
	ErrorMessage *string
	ManifestID   *string
}

// TableName specifies the database table name for stop entities.
func (StopDTO) TableName() string {
	return "stops"
}

// fromDomain converts a stop domain aggregate to its database representation.
func fromDomain(aggregate *stop.Stop) StopDTO {
	return StopDTO{
		ID:           aggregate.ID().Bytes(),
		TripID:       aggregate.TripID().Bytes(),
		OrderRef:     aggregate.OrderRef(),
		Sequence:     aggregate.Sequence(),
		Address:      aggregate.Address(),
		RoomOverride: aggregate.RoomOverride(),
		Status:       int(aggregate.Status()),
		ErrorMessage: aggregate.ErrorMessage(),
		ManifestID:   aggregate.ManifestID(),
	}
}

// toDomain converts a database DTO to a stop domain aggregate using
// RestoreStop.
func toDomain(dto StopDTO) (*stop.Stop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tripID, err := kernel.UUIDFromBytes(dto.TripID[:])
	if err != nil {
		return nil, err
	}

	return stop.RestoreStop(
		id,
		tripID,
		dto.OrderRef,
		dto.Sequence,
		dto.Address,
		dto.RoomOverride,
		stop.Status(dto.Status),
		dto.ErrorMessage,
		dto.ManifestID,
	)
}
