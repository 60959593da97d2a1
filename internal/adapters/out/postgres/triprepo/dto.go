// Package triprepo provides data transfer objects and mapping functions for
// trip persistence. This package implements the repository pattern for the
// trip aggregate, handling the conversion between domain entities and
// database representations, including the JSON-encoded route plan cache.
package triprepo

import (
	"encoding/json"
	"time"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"

	"github.com/google/uuid"
)

// TripDTO represents the database structure for persisting trip aggregates.
// The route plan is stored as a JSON document so the exact plan generated on
// the first execution attempt is replayed verbatim on every retry.
type TripDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status               int       `gorm:"index"`
	ExecutionStatus      int       `gorm:"index"`
	DeliveryDate         time.Time
	ApproximateStartTime *time.Time
	RoutePlan            *string `gorm:"type:jsonb"`
	Driver1ID            uuid.UUID `gorm:"type:uuid"`
	Driver2ID            uuid.UUID `gorm:"type:uuid"`
	VehicleID            uuid.UUID `gorm:"type:uuid"`
	TransactedAt         *time.Time
}

// TableName specifies the database table name for trip entities.
func (TripDTO) TableName() string {
	return "trips"
}

// routeSegmentDTO is the JSON shape of one route plan leg.
type routeSegmentDTO struct {
	DepartureUnix int64  `json:"departure_unix"`
	ArrivalUnix   int64  `json:"arrival_unix"`
	RouteText     string `json:"route_text"`
}

// fromDomain converts a trip domain aggregate to its database representation.
func fromDomain(aggregate *trip.Trip) (TripDTO, error) {
	var routePlan *string
	if plan := aggregate.RoutePlan(); plan != nil {
		segments := plan.Segments()
		dtos := make([]routeSegmentDTO, 0, len(segments))
		for _, segment := range segments {
			dtos = append(dtos, routeSegmentDTO{
				DepartureUnix: segment.DepartureUnix,
				ArrivalUnix:   segment.ArrivalUnix,
				RouteText:     segment.RouteText,
			})
		}

		raw, err := json.Marshal(dtos)
		if err != nil {
			return TripDTO{}, err
		}
		encoded := string(raw)
		routePlan = &encoded
	}

	return TripDTO{
		ID:                   aggregate.ID().Bytes(),
		Status:               int(aggregate.Status()),
		ExecutionStatus:      int(aggregate.ExecutionStatus()),
		DeliveryDate:         aggregate.DeliveryDate(),
		ApproximateStartTime: aggregate.ApproximateStartTime(),
		RoutePlan:            routePlan,
		Driver1ID:            aggregate.Driver1ID().Bytes(),
		Driver2ID:            aggregate.Driver2ID().Bytes(),
		VehicleID:            aggregate.VehicleID().Bytes(),
		TransactedAt:         aggregate.TransactedAt(),
	}, nil
}

// toDomain converts a database DTO to a trip domain aggregate.
// Reconstructs the complete aggregate including the cached route plan
// using RestoreTrip.
func toDomain(dto TripDTO) (*trip.Trip, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driver1ID, err := kernel.UUIDFromBytes(dto.Driver1ID[:])
	if err != nil {
		return nil, err
	}
	driver2ID, err := kernel.UUIDFromBytes(dto.Driver2ID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	// A persisted plan that no longer decodes is treated as absent rather
	// than failing the whole trip load; execution regenerates it.
	var routePlan *trip.RoutePlan
	if dto.RoutePlan != nil {
		var segmentDTOs []routeSegmentDTO
		if jsonErr := json.Unmarshal([]byte(*dto.RoutePlan), &segmentDTOs); jsonErr == nil {
			segments := make([]trip.RouteSegment, 0, len(segmentDTOs))
			for _, segment := range segmentDTOs {
				segments = append(segments, trip.RouteSegment{
					DepartureUnix: segment.DepartureUnix,
					ArrivalUnix:   segment.ArrivalUnix,
					RouteText:     segment.RouteText,
				})
			}

			if plan, planErr := trip.NewRoutePlan(segments); planErr == nil {
				routePlan = &plan
			}
		}
	}

	return trip.RestoreTrip(
		id,
		trip.Status(dto.Status),
		trip.ExecutionStatus(dto.ExecutionStatus),
		dto.DeliveryDate,
		dto.ApproximateStartTime,
		routePlan,
		driver1ID,
		driver2ID,
		vehicleID,
		dto.TransactedAt,
	)
}
