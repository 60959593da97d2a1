// Package http exposes the trip validation and execution API over echo.
// Execution is asynchronous: the execute endpoint only enqueues, and
// progress is polled through the execution-status endpoint.
package http

import (
	"errors"
	"net/http"
	"time"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/application/usecases/queries"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	validateTripHandler commands.ValidateTripCommandHandler
	enqueueHandler      commands.EnqueueTripExecutionCommandHandler

	// Query handlers
	executionStatusHandler queries.GetExecutionStatusQueryHandler
	tripStopsHandler       queries.GetTripStopsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	validateTripHandler commands.ValidateTripCommandHandler,
	enqueueHandler commands.EnqueueTripExecutionCommandHandler,
	executionStatusHandler queries.GetExecutionStatusQueryHandler,
	tripStopsHandler queries.GetTripStopsQueryHandler,
) *Server {
	return &Server{
		validateTripHandler:    validateTripHandler,
		enqueueHandler:         enqueueHandler,
		executionStatusHandler: executionStatusHandler,
		tripStopsHandler:       tripStopsHandler,
	}
}

// RegisterRoutes attaches the API routes to an echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/trips/:tripId/validate", s.ValidateTrip)
	api.POST("/trips/:tripId/execute", s.ExecuteTrip)
	api.GET("/trips/:tripId/execution-status", s.GetExecutionStatus)
	api.GET("/trips/:tripId/stops", s.GetTripStops)
}

// ErrorResponse is the JSON error envelope of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ValidationResponse reports the outcome of a validation run.
type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ExecutionStatusResponse reports a trip's execution progress.
type ExecutionStatusResponse struct {
	TripID             string     `json:"trip_id"`
	Status             string     `json:"status"`
	ProgressPercentage float64    `json:"progress_percentage"`
	ProgressMessage    string     `json:"progress_message"`
	GeneralError       *string    `json:"general_error,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// StopResponse is one stop of a trip in sequence order.
type StopResponse struct {
	ID           string  `json:"id"`
	OrderRef     string  `json:"order_ref"`
	Sequence     int     `json:"sequence"`
	Address      *string `json:"address,omitempty"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	ManifestID   *string `json:"manifest_id,omitempty"`
}

// ValidateTrip handles POST /api/v1/trips/:tripId/validate.
func (s *Server) ValidateTrip(ctx echo.Context) error {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewValidateTripCommand(tripID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid trip id: " + err.Error(),
		})
	}

	result, err := s.validateTripHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return failure(ctx, err, "Failed to validate trip")
	}

	response := ValidationResponse{Valid: result.Valid, Errors: result.Errors}
	if response.Errors == nil {
		response.Errors = []string{}
	}
	return ctx.JSON(http.StatusOK, response)
}

// ExecuteTrip handles POST /api/v1/trips/:tripId/execute - queues the trip
// for asynchronous execution.
func (s *Server) ExecuteTrip(ctx echo.Context) error {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewEnqueueTripExecutionCommand(tripID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid trip id: " + err.Error(),
		})
	}

	if err := s.enqueueHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, commands.ErrTripAlreadyProcessing) {
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: "Trip is already being processed",
			})
		}
		if errors.Is(err, commands.ErrTripAlreadyCompleted) {
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: "Trip has already been completed",
			})
		}
		return failure(ctx, err, "Failed to queue trip execution")
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetExecutionStatus handles GET /api/v1/trips/:tripId/execution-status.
func (s *Server) GetExecutionStatus(ctx echo.Context) error {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return nil
	}

	query, err := queries.NewGetExecutionStatusQuery(tripID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid trip id: " + err.Error(),
		})
	}

	status, err := s.executionStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return failure(ctx, err, "Failed to retrieve execution status")
	}

	return ctx.JSON(http.StatusOK, ExecutionStatusResponse{
		TripID:             status.TripID.String(),
		Status:             status.ExecutionStatus,
		ProgressPercentage: status.ProgressPercentage,
		ProgressMessage:    status.ProgressMessage,
		GeneralError:       status.GeneralError,
		StartedAt:          status.StartedAt,
		UpdatedAt:          status.UpdatedAt,
		CompletedAt:        status.CompletedAt,
	})
}

// GetTripStops handles GET /api/v1/trips/:tripId/stops.
func (s *Server) GetTripStops(ctx echo.Context) error {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return nil
	}

	query, err := queries.NewGetTripStopsQuery(tripID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid trip id: " + err.Error(),
		})
	}

	stops, err := s.tripStopsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return failure(ctx, err, "Failed to retrieve trip stops")
	}

	response := make([]StopResponse, len(stops))
	for i, stop := range stops {
		response[i] = StopResponse{
			ID:           stop.ID.String(),
			OrderRef:     stop.OrderRef,
			Sequence:     stop.Sequence,
			Address:      stop.Address,
			Status:       stop.Status,
			ErrorMessage: stop.ErrorMessage,
			ManifestID:   stop.ManifestID,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// parseTripID reads the tripId path parameter. On failure the 400 response
// has already been written and the second return value is false.
func parseTripID(ctx echo.Context) (kernel.UUID, bool) {
	tripID, err := kernel.UUIDFromString(ctx.Param("tripId"))
	if err != nil {
		_ = ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid trip id",
		})
		return kernel.UUID{}, false
	}
	return tripID, true
}

func failure(ctx echo.Context, err error, message string) error {
	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: notFound.Error(),
		})
	}

	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
