package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripledger/internal/core/domain/model/stop"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/domain/services"
	"tripledger/internal/core/ports"
	"tripledger/internal/pkg/errs"
)

// ExecuteTripCommandHandler orchestrates one execution attempt of a trip.
//
// Attempt structure:
//  1. acquire the execution lease: transition into processing under a row
//     lock, rewind stop checkpoints from any prior attempt
//  2. resolve the crew, authenticate with the ledger, resolve the route
//     plan through the cache (failures here are fatal to the trip: no stop
//     is processed and no partial state is created)
//  3. process every stop strictly sequentially in ascending sequence order
//     (stops share the one ledger session and the one route plan)
//  4. reduce stop outcomes into the trip-level result and finalize both
//     the trip and its execution record
//
// Only critical reductions and pre-stop fatal errors return a non-nil
// error; the job runtime uses that to mark the job failed.
type ExecuteTripCommandHandler struct {
	uowFactory ExecutionUoWFactory
	ledger     ports.LedgerClient
	catalog    ports.OrderCatalogClient
	routeCache RouteCache
	processor  StopProcessor
	tracker    ExecutionProgress
	reducer    services.TripOutcomeReducer
}

// NewExecuteTripCommandHandler creates a handler for trip execution.
func NewExecuteTripCommandHandler(
	uowFactory ExecutionUoWFactory,
	ledger ports.LedgerClient,
	catalog ports.OrderCatalogClient,
	routeCache RouteCache,
	processor StopProcessor,
	tracker ExecutionProgress,
) ExecuteTripCommandHandler {
	return ExecuteTripCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		catalog:    catalog,
		routeCache: routeCache,
		processor:  processor,
		tracker:    tracker,
		reducer:    services.NewTripOutcomeReducer(),
	}
}

// Handle runs one execution attempt for the trip.
func (h *ExecuteTripCommandHandler) Handle(ctx context.Context, cmd ExecuteTripCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, stops, err := h.acquireLease(ctx, cmd)
	if err != nil {
		return err
	}

	_ = h.tracker.Update(ctx, aggregate.ID(), trip.ExecutionProcessing, "Starting trip execution")

	crew, err := h.resolveCrew(ctx, aggregate)
	if err != nil {
		return h.failBeforeStops(ctx, aggregate, fmt.Sprintf("driver or vehicle information not found: %v", err))
	}

	_ = h.tracker.Update(ctx, aggregate.ID(), trip.ExecutionProcessing, "Authenticating with ledger")
	session, err := h.ledger.Authenticate(ctx)
	if err != nil {
		return h.failBeforeStops(ctx, aggregate, fmt.Sprintf("ledger authentication failed: %v", err))
	}

	_ = h.tracker.Update(ctx, aggregate.ID(), trip.ExecutionProcessing, "Resolving route plan")
	plan, err := h.routeCache.Resolve(ctx, aggregate, stops)
	if err != nil {
		return h.failBeforeStops(ctx, aggregate, fmt.Sprintf("route planning failed: %v", err))
	}

	results := h.processStops(ctx, aggregate, stops, plan, session, crew)

	return h.finalize(ctx, aggregate, h.reducer.Reduce(results))
}

// acquireLease loads the trip under a row lock, transitions it into
// processing and rewinds every stop checkpoint left by a prior attempt.
// Two workers racing to start the same trip serialize on the lock; the
// loser observes the processing status the winner committed and fails the
// BeginExecution transition.
func (h *ExecuteTripCommandHandler) acquireLease(
	ctx context.Context,
	cmd ExecuteTripCommand,
) (*trip.Trip, []*stop.Stop, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.TripRepository().GetForExecution(ctx, cmd.TripID())
	if err != nil {
		return nil, nil, err
	}

	// A completed trip already reported every split, move and manifest to
	// the ledger; running the saga again would double-report all of them.
	if aggregate.Status() == trip.StatusCompleted {
		return nil, nil, ErrTripAlreadyCompleted
	}
	if aggregate.ExecutionStatus() == trip.ExecutionProcessing {
		return nil, nil, ErrTripAlreadyProcessing
	}

	if err = aggregate.BeginExecution(); err != nil {
		return nil, nil, err
	}
	if err = uow.TripRepository().Update(ctx, aggregate); err != nil {
		return nil, nil, err
	}

	stops, err := uow.StopRepository().GetByTrip(ctx, cmd.TripID())
	if err != nil {
		return nil, nil, err
	}
	if len(stops) == 0 {
		return nil, nil, errs.NewValueIsRequiredError("trip has no stops")
	}

	for _, s := range stops {
		if s.Status() == stop.StatusPending {
			continue
		}
		s.ResetForAttempt()
		if err = uow.StopRepository().Update(ctx, s); err != nil {
			return nil, nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return aggregate, stops, nil
}

func (h *ExecuteTripCommandHandler) resolveCrew(ctx context.Context, aggregate *trip.Trip) (CrewAssignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CrewAssignment{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	locations := uow.LocationMappingRepository()

	driver1, err := locations.GetDriver(ctx, aggregate.Driver1ID())
	if err != nil {
		return CrewAssignment{}, err
	}
	driver2, err := locations.GetDriver(ctx, aggregate.Driver2ID())
	if err != nil {
		return CrewAssignment{}, err
	}
	vehicle, err := locations.GetVehicle(ctx, aggregate.VehicleID())
	if err != nil {
		return CrewAssignment{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CrewAssignment{}, err
	}

	return CrewAssignment{Driver1: driver1, Driver2: driver2, Vehicle: vehicle}, nil
}

// processStops runs the saga for every stop in ascending sequence order.
// An order-detail lookup failure is the critical per-stop outcome: the
// stop could not even be evaluated, and the reduction escalates the whole
// attempt.
func (h *ExecuteTripCommandHandler) processStops(
	ctx context.Context,
	aggregate *trip.Trip,
	stops []*stop.Stop,
	plan trip.RoutePlan,
	session ports.LedgerSession,
	crew CrewAssignment,
) []services.StopResult {
	results := make([]services.StopResult, 0, len(stops))

	for i, s := range stops {
		_ = h.tracker.Update(ctx, aggregate.ID(), trip.ExecutionProcessing, fmt.Sprintf(
			"Processing stop %d of %d: %s", i+1, len(stops), s.OrderRef(),
		))

		detail, err := h.catalog.GetOrderDetail(ctx, s.OrderRef())
		if err != nil {
			message := fmt.Sprintf("Could not retrieve details for order %s: %v", s.OrderRef(), err)
			s.RecordFailure(message)
			h.persistStop(ctx, s)
			results = append(results, services.StopResult{
				OrderRef: s.OrderRef(),
				Outcome:  services.OutcomeCritical,
				Message:  message,
			})
			continue
		}

		mapping := h.lookupMapping(ctx, detail.LocationID)

		segment, ok := plan.SegmentForSequence(s.Sequence())
		if !ok {
			segment = trip.FallbackSegment(time.Now())
		}

		results = append(results, h.processor.Process(ctx, s, detail, mapping, session, segment, crew))
	}

	return results
}

// lookupMapping resolves the location mapping for a stop, nil when absent.
// Execution tolerates a missing mapping with room/license fallbacks where
// validation reports it as an error.
func (h *ExecuteTripCommandHandler) lookupMapping(ctx context.Context, locationID string) *ports.LocationMapping {
	if locationID == "" {
		return nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	mapping, err := uow.LocationMappingRepository().GetByCatalogLocation(ctx, locationID)
	if err != nil {
		return nil
	}

	_ = uow.Commit(ctx)
	return &mapping
}

// finalize applies the reduction to the trip and the execution record.
func (h *ExecuteTripCommandHandler) finalize(
	ctx context.Context,
	aggregate *trip.Trip,
	reduction services.Reduction,
) error {
	now := time.Now()

	switch reduction.Verdict {
	case services.VerdictCritical:
		generalError := strings.Join(reduction.CriticalMessages, "; ")
		if err := h.persistTrip(ctx, aggregate, aggregate.FailExecution); err != nil {
			return err
		}
		_ = h.tracker.Finalize(ctx, aggregate.ID(), trip.ExecutionFailed,
			"Trip execution failed due to critical errors", &generalError)
		return fmt.Errorf("trip execution failed due to critical errors: %s", generalError)

	case services.VerdictPartiallyCompleted:
		if err := h.persistTrip(ctx, aggregate, func() error {
			return aggregate.CompleteExecutionPartially(now)
		}); err != nil {
			return err
		}
		_ = h.tracker.Finalize(ctx, aggregate.ID(), trip.ExecutionCompleted, fmt.Sprintf(
			"Trip partially completed: %d stops succeeded, %d failed",
			reduction.Succeeded, reduction.Failed,
		), nil)
		return nil

	case services.VerdictFailed:
		if err := h.persistTrip(ctx, aggregate, aggregate.FailExecution); err != nil {
			return err
		}
		_ = h.tracker.Finalize(ctx, aggregate.ID(), trip.ExecutionFailed, "All stops failed to process", nil)
		return nil

	case services.VerdictCompleted:
		if err := h.persistTrip(ctx, aggregate, func() error {
			return aggregate.CompleteExecution(now)
		}); err != nil {
			return err
		}
		_ = h.tracker.Finalize(ctx, aggregate.ID(), trip.ExecutionCompleted,
			"Trip execution completed successfully", nil)
		return nil
	}

	return fmt.Errorf("unexpected trip verdict %d", reduction.Verdict)
}

// failBeforeStops records a fatal-to-trip failure: no stop was processed
// and no partial state exists. The business status is deliberately left
// unmodified so a human can inspect and re-run.
func (h *ExecuteTripCommandHandler) failBeforeStops(ctx context.Context, aggregate *trip.Trip, message string) error {
	if err := h.persistTrip(ctx, aggregate, aggregate.FailExecution); err != nil {
		return errors.Join(errors.New(message), err)
	}
	_ = h.tracker.Finalize(ctx, aggregate.ID(), trip.ExecutionFailed, message, &message)

	return errors.New(message)
}

func (h *ExecuteTripCommandHandler) persistTrip(
	ctx context.Context,
	aggregate *trip.Trip,
	transition func() error,
) error {
	if err := transition(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.TripRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *ExecuteTripCommandHandler) persistStop(ctx context.Context, s *stop.Stop) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.StopRepository().Update(ctx, s); err != nil {
		return
	}

	_ = uow.Commit(ctx)
}
