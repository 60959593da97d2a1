package queries

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetExecutionStatusQueryHandler reads a trip's execution record from the
// database and derives its progress percentage.
//
// The percentage ramps with elapsed processing time rather than actual
// work done: the saga gives no cheap mid-flight measure of completion, so
// pollers get a ramp that starts at 10%, reaches 50% after a minute and
// asymptotes at 90% until the attempt finishes.
type GetExecutionStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetExecutionStatusQueryHandler creates a handler for execution status
// queries.
func NewGetExecutionStatusQueryHandler(db *gorm.DB) GetExecutionStatusQueryHandler {
	return GetExecutionStatusQueryHandler{db: db}
}

// Handle executes the query. Returns an ObjectNotFoundError when the trip
// does not exist. A trip without an execution record yields a pending
// response with a zero percentage.
func (h GetExecutionStatusQueryHandler) Handle(
	ctx context.Context,
	query GetExecutionStatusQuery,
) (GetExecutionStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetExecutionStatusQueryResponse{}, err
	}

	var tripExists bool
	err := h.db.WithContext(ctx).Raw(`
		SELECT EXISTS (SELECT 1 FROM trips WHERE id = ?)
	`, query.TripID().Bytes()).Scan(&tripExists).Error
	if err != nil {
		return GetExecutionStatusQueryResponse{}, err
	}
	if !tripExists {
		return GetExecutionStatusQueryResponse{}, errs.NewObjectNotFoundError("trip", query.TripID().String())
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			progress_message,
			general_error,
			started_at,
			updated_at,
			completed_at
		FROM trip_executions
		WHERE trip_id = ?
	`, query.TripID().Bytes()).Row()

	var (
		status          int
		progressMessage string
		generalError    sql.NullString
		startedAt       time.Time
		updatedAt       time.Time
		completedAt     sql.NullTime
	)

	err = row.Scan(&status, &progressMessage, &generalError, &startedAt, &updatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetExecutionStatusQueryResponse{
			TripID:             query.TripID(),
			ExecutionStatus:    trip.ExecutionPending.String(),
			ProgressPercentage: 0,
			ProgressMessage:    "Trip execution not started",
		}, nil
	}
	if err != nil {
		return GetExecutionStatusQueryResponse{}, err
	}

	executionStatus := trip.ExecutionStatus(status)

	response := GetExecutionStatusQueryResponse{
		TripID:             query.TripID(),
		ExecutionStatus:    executionStatus.String(),
		ProgressPercentage: progressPercentage(executionStatus, startedAt, time.Now()),
		ProgressMessage:    progressMessage,
		StartedAt:          &startedAt,
		UpdatedAt:          &updatedAt,
	}
	if generalError.Valid {
		response.GeneralError = &generalError.String
	}
	if completedAt.Valid {
		response.CompletedAt = &completedAt.Time
	}

	return response, nil
}

// progressPercentage derives a poller-facing percentage from the execution
// status. While processing, the ramp covers 10-50% over the first minute
// and 50-90% over the next two; it never reports 100% before the status
// itself is terminal.
func progressPercentage(status trip.ExecutionStatus, startedAt, now time.Time) float64 {
	switch status {
	case trip.ExecutionCompleted:
		return 100
	case trip.ExecutionProcessing:
		elapsed := now.Sub(startedAt).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed < 60 {
			return math.Min(50, 10+(elapsed/60)*40)
		}
		return math.Min(90, 50+((elapsed-60)/120)*40)
	default:
		return 0
	}
}
