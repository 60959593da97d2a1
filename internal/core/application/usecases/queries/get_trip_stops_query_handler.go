package queries

import (
	"context"
	"database/sql"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTripStopsQueryHandler reads the per-stop state of a trip directly
// from the database, bypassing the aggregates for the read side.
type GetTripStopsQueryHandler struct {
	db *gorm.DB
}

// NewGetTripStopsQueryHandler creates a handler for trip stop queries.
func NewGetTripStopsQueryHandler(db *gorm.DB) GetTripStopsQueryHandler {
	return GetTripStopsQueryHandler{db: db}
}

// Handle executes the query. Stops are returned in ascending sequence
// order; a trip without stops yields an empty slice.
func (h GetTripStopsQueryHandler) Handle(
	ctx context.Context,
	query GetTripStopsQuery,
) ([]GetTripStopsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stops := make([]GetTripStopsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_ref,
			sequence,
			address,
			status,
			error_message,
			manifest_id
		FROM stops
		WHERE trip_id = ?
		ORDER BY sequence ASC
	`, query.TripID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			orderRef     string
			sequence     int
			address      sql.NullString
			status       int
			errorMessage sql.NullString
			manifestID   sql.NullString
		)

		err = rows.Scan(&id, &orderRef, &sequence, &address, &status, &errorMessage, &manifestID)
		if err != nil {
			return nil, err
		}

		stopID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		response := GetTripStopsQueryResponse{
			ID:       stopID,
			OrderRef: orderRef,
			Sequence: sequence,
			Status:   stop.Status(status).String(),
		}
		if address.Valid {
			response.Address = &address.String
		}
		if errorMessage.Valid {
			response.ErrorMessage = &errorMessage.String
		}
		if manifestID.Valid {
			response.ManifestID = &manifestID.String
		}

		stops = append(stops, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}
