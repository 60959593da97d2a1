package commands

import (
	"context"
	"fmt"
	"strconv"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/domain/services"
	"tripledger/internal/core/ports"
)

// ValidationResult is the outcome of trip validation: either valid, or a
// list of every problem found. Validation is fail-fast per stop but
// fail-slow per trip, so the caller sees all problems at once.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateTripCommandHandler decides whether a trip is physically and
// administratively feasible before any execution side effect happens.
// It reads the order catalog, the location mappings and a single ledger
// inventory snapshot; the only state it mutates is the trip's business
// status, and only when validation passes.
type ValidateTripCommandHandler struct {
	uowFactory ExecutionUoWFactory
	ledger     ports.LedgerClient
	catalog    ports.OrderCatalogClient
	aggregator services.RequirementAggregator
}

// NewValidateTripCommandHandler creates a handler for trip validation.
func NewValidateTripCommandHandler(
	uowFactory ExecutionUoWFactory,
	ledger ports.LedgerClient,
	catalog ports.OrderCatalogClient,
) ValidateTripCommandHandler {
	return ValidateTripCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		catalog:    catalog,
		aggregator: services.NewRequirementAggregator(),
	}
}

// Handle runs the full validation pass. A non-nil error means validation
// could not run at all; a ValidationResult with Valid=false means it ran
// and found problems.
func (h *ValidateTripCommandHandler) Handle(ctx context.Context, cmd ValidateTripCommand) (ValidationResult, error) {
	if err := cmd.Validate(); err != nil {
		return ValidationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ValidationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.TripRepository().Get(ctx, cmd.TripID())
	if err != nil {
		return ValidationResult{}, err
	}

	if aggregate.Status() == trip.StatusCompleted {
		return invalid("trip is not in a validatable state"), nil
	}

	stops, err := uow.StopRepository().GetByTrip(ctx, cmd.TripID())
	if err != nil {
		return ValidationResult{}, err
	}
	if len(stops) == 0 {
		return invalid("no stops found for trip"), nil
	}

	if crewErrors := h.checkCrew(ctx, uow, aggregate); len(crewErrors) > 0 {
		return ValidationResult{Valid: false, Errors: crewErrors}, nil
	}

	session, err := h.ledger.Authenticate(ctx)
	if err != nil {
		return invalid(fmt.Sprintf("ledger authentication failed: %v", err)), nil
	}

	var validationErrors []string
	var allItems []services.LineItem

	for _, s := range stops {
		stopErrors, items := h.checkStop(ctx, uow, s.OrderRef())
		validationErrors = append(validationErrors, stopErrors...)
		allItems = append(allItems, items...)
	}

	requirements, _ := h.aggregator.Aggregate(allItems)
	if len(requirements) > 0 {
		validationErrors = append(validationErrors, h.checkInventory(ctx, session, requirements)...)
	}

	if len(validationErrors) > 0 {
		return ValidationResult{Valid: false, Errors: validationErrors}, nil
	}

	if err = aggregate.MarkValidated(); err != nil {
		return ValidationResult{}, err
	}
	if err = uow.TripRepository().Update(ctx, aggregate); err != nil {
		return ValidationResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ValidationResult{}, err
	}

	return ValidationResult{Valid: true}, nil
}

// checkCrew resolves both drivers and the vehicle. Missing crew is a hard
// validation failure: no stop can be evaluated without manifest identities.
func (h *ValidateTripCommandHandler) checkCrew(ctx context.Context, uow ExecutionUoW, aggregate *trip.Trip) []string {
	var crewErrors []string
	locations := uow.LocationMappingRepository()

	if _, err := locations.GetDriver(ctx, aggregate.Driver1ID()); err != nil {
		crewErrors = append(crewErrors, fmt.Sprintf("driver %s not found", aggregate.Driver1ID()))
	}
	if _, err := locations.GetDriver(ctx, aggregate.Driver2ID()); err != nil {
		crewErrors = append(crewErrors, fmt.Sprintf("driver %s not found", aggregate.Driver2ID()))
	}
	if _, err := locations.GetVehicle(ctx, aggregate.VehicleID()); err != nil {
		crewErrors = append(crewErrors, fmt.Sprintf("vehicle %s not found", aggregate.VehicleID()))
	}

	return crewErrors
}

// checkStop validates one stop's order detail, location mapping and line
// items. Errors are collected, never short-circuited, so every stop is
// reported in one pass. The returned items feed the trip-wide requirement
// aggregation.
func (h *ValidateTripCommandHandler) checkStop(
	ctx context.Context,
	uow ExecutionUoW,
	orderRef string,
) ([]string, []services.LineItem) {
	detail, err := h.catalog.GetOrderDetail(ctx, orderRef)
	if err != nil {
		return []string{fmt.Sprintf("could not retrieve details for order %s: %v", orderRef, err)}, nil
	}

	var stopErrors []string

	if detail.LocationID == "" {
		stopErrors = append(stopErrors, fmt.Sprintf("no location ID found in order details for %s", orderRef))
	} else if _, err = uow.LocationMappingRepository().GetByCatalogLocation(ctx, detail.LocationID); err != nil {
		stopErrors = append(stopErrors, fmt.Sprintf(
			"no location mapping found for %q (ID: %s)", detail.LocationName, detail.LocationID,
		))
	}

	addressable := h.aggregator.FilterAddressable(detail.LineItems)
	if len(addressable) == 0 {
		stopErrors = append(stopErrors, fmt.Sprintf("no valid ledger unit identifiers found for order %s", orderRef))
	}

	return stopErrors, detail.LineItems
}

// checkInventory fetches one on-hand snapshot and compares every required
// unit against it. A single snapshot shared across all comparisons avoids
// read skew between units fetched at different times.
func (h *ValidateTripCommandHandler) checkInventory(
	ctx context.Context,
	session ports.LedgerSession,
	requirements map[kernel.UnitID]float64,
) []string {
	onHand, err := h.ledger.GetOnHandQuantities(ctx, session)
	if err != nil {
		return []string{fmt.Sprintf("failed to retrieve inventory snapshot from ledger: %v", err)}
	}

	var inventoryErrors []string
	for unitID, required := range requirements {
		available, ok := onHand[unitID]
		if !ok {
			inventoryErrors = append(inventoryErrors, fmt.Sprintf("unit %s not found in ledger inventory", unitID))
			continue
		}
		if required > available {
			inventoryErrors = append(inventoryErrors, fmt.Sprintf(
				"insufficient inventory for unit %s: required %s, available %s",
				unitID, formatQuantity(required), formatQuantity(available),
			))
		}
	}

	return inventoryErrors
}

func invalid(messages ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: messages}
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
