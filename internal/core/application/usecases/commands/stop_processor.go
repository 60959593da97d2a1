package commands

import (
	"context"
	"fmt"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/domain/services"
	"tripledger/internal/core/ports"
)

// fallbackRoom is the staging room used when neither the location mapping
// nor the stop carries one.
const fallbackRoom = "1"

// fallbackVendorLicense is filed on manifests when no location mapping
// resolves the stop's vendor.
const fallbackVendorLicense = "UNKNOWN"

// CrewAssignment carries the ledger identities of the trip's drivers and
// vehicle, resolved once per attempt and shared by every manifest.
type CrewAssignment struct {
	Driver1 ports.Driver
	Driver2 ports.Driver
	Vehicle ports.Vehicle
}

// StopProcessor drives one stop through its three-step ledger saga:
// split inventory into shippable sub-units, relocate them to a staging
// room, then file a transport manifest. Each completed step is committed
// as a durable checkpoint before the next begins, and every failure is
// persisted on the stop before the processor returns.
//
// The saga is not resumable: a retried attempt restarts from the split
// step regardless of the checkpoint the prior attempt reached.
type StopProcessor struct {
	uowFactory StopUoWFactory
	ledger     ports.LedgerClient
	aggregator services.RequirementAggregator
}

// NewStopProcessor creates a StopProcessor over the given ledger client.
func NewStopProcessor(uowFactory StopUoWFactory, ledger ports.LedgerClient) StopProcessor {
	return StopProcessor{
		uowFactory: uowFactory,
		ledger:     ledger,
		aggregator: services.NewRequirementAggregator(),
	}
}

// Process runs the saga for one stop and returns its terminal outcome.
// mapping may be nil when the stop's location has no ledger mapping; the
// room and vendor license then fall back to literals.
func (p StopProcessor) Process(
	ctx context.Context,
	aggregate *stop.Stop,
	detail ports.OrderDetail,
	mapping *ports.LocationMapping,
	session ports.LedgerSession,
	segment trip.RouteSegment,
	crew CrewAssignment,
) services.StopResult {
	// Step 1: only ledger-addressable line items participate.
	addressable := p.aggregator.FilterAddressable(detail.LineItems)
	if len(addressable) == 0 {
		return p.skip(ctx, aggregate, fmt.Sprintf(
			"No valid inventory items found for order %s", aggregate.OrderRef(),
		))
	}

	// Step 2: one bulk split for all surviving items.
	newUnits, failure := p.split(ctx, session, addressable)
	if failure != "" {
		return p.fail(ctx, aggregate, failure)
	}
	if err := aggregate.MarkSublotted(); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}
	if err := p.persist(ctx, aggregate); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}

	// Step 3: relocate the new units to the staging room.
	room := resolveRoom(mapping, aggregate.RoomOverride())
	if failure = p.move(ctx, session, newUnits, room); failure != "" {
		return p.fail(ctx, aggregate, failure)
	}
	if err := aggregate.MarkInventoryMoved(); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}
	if err := p.persist(ctx, aggregate); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}

	// Step 4: file the transport manifest.
	manifestID, failure := p.manifest(ctx, session, aggregate, newUnits, mapping, segment, crew)
	if failure != "" {
		return p.fail(ctx, aggregate, failure)
	}
	if err := aggregate.MarkManifested(manifestID); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}
	if err := p.persist(ctx, aggregate); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}

	return services.StopResult{
		OrderRef: aggregate.OrderRef(),
		Outcome:  services.OutcomeSuccess,
		Message:  fmt.Sprintf("manifest %s filed", manifestID),
	}
}

// split submits one bulk split request. Returns the new unit identifiers,
// or a non-empty failure message.
func (p StopProcessor) split(
	ctx context.Context,
	session ports.LedgerSession,
	items []services.LineItem,
) ([]kernel.UnitID, string) {
	splitItems := make([]ports.SplitItem, 0, len(items))
	for _, item := range items {
		splitItems = append(splitItems, ports.SplitItem{
			UnitID:   kernel.UnitID(item.UnitID),
			Quantity: item.Quantity,
		})
	}

	newUnits, err := p.ledger.SplitUnits(ctx, session, splitItems)
	if err != nil {
		return nil, fmt.Sprintf("failed to split inventory units: %v", err)
	}
	if len(newUnits) == 0 {
		return nil, "no new unit identifiers returned from split"
	}

	return newUnits, ""
}

func (p StopProcessor) move(
	ctx context.Context,
	session ports.LedgerSession,
	units []kernel.UnitID,
	room string,
) string {
	moveItems := make([]ports.MoveItem, 0, len(units))
	for _, unit := range units {
		moveItems = append(moveItems, ports.MoveItem{
			UnitID: unit,
			Room:   room,
		})
	}

	if err := p.ledger.MoveUnits(ctx, session, moveItems); err != nil {
		return fmt.Sprintf("failed to move units to room %s: %v", room, err)
	}

	return ""
}

func (p StopProcessor) manifest(
	ctx context.Context,
	session ports.LedgerSession,
	aggregate *stop.Stop,
	units []kernel.UnitID,
	mapping *ports.LocationMapping,
	segment trip.RouteSegment,
	crew CrewAssignment,
) (string, string) {
	license := fallbackVendorLicense
	if mapping != nil && mapping.VendorLicense != "" {
		license = mapping.VendorLicense
	}

	manifestID, err := p.ledger.FileManifest(ctx, session, ports.ManifestRequest{
		UnitIDs:         units,
		StopNumber:      aggregate.Sequence(),
		DepartureUnix:   segment.DepartureUnix,
		ArrivalUnix:     segment.ArrivalUnix,
		RouteText:       segment.RouteText,
		VendorLicense:   license,
		Driver1LedgerID: crew.Driver1.LedgerID,
		Driver2LedgerID: crew.Driver2.LedgerID,
		VehicleLedgerID: crew.Vehicle.LedgerID,
	})
	if err != nil {
		return "", fmt.Sprintf("failed to file manifest: %v", err)
	}
	if manifestID == "" {
		return "", "no manifest identifier returned from ledger"
	}

	return manifestID, ""
}

// skip marks the stop skipped with a reason and persists it. Skipped
// stops are informational and excluded from success/failure tallies.
func (p StopProcessor) skip(ctx context.Context, aggregate *stop.Stop, reason string) services.StopResult {
	if err := aggregate.Skip(reason); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}
	if err := p.persist(ctx, aggregate); err != nil {
		return p.fail(ctx, aggregate, err.Error())
	}

	return services.StopResult{
		OrderRef: aggregate.OrderRef(),
		Outcome:  services.OutcomeSkipped,
		Message:  reason,
	}
}

// fail persists the failure message on the stop before returning so the
// error stays visible independent of the trip-level aggregate message.
func (p StopProcessor) fail(ctx context.Context, aggregate *stop.Stop, message string) services.StopResult {
	aggregate.RecordFailure(message)
	_ = p.persist(ctx, aggregate)

	return services.StopResult{
		OrderRef: aggregate.OrderRef(),
		Outcome:  services.OutcomeFailed,
		Message:  message,
	}
}

func (p StopProcessor) persist(ctx context.Context, aggregate *stop.Stop) error {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.StopRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// resolveRoom picks the staging room: the location mapping's default room
// first, then the stop's manual override, then the literal fallback.
func resolveRoom(mapping *ports.LocationMapping, override *string) string {
	if mapping != nil && mapping.DefaultRoom != nil && *mapping.DefaultRoom != "" {
		return *mapping.DefaultRoom
	}
	if override != nil && *override != "" {
		return *override
	}
	return fallbackRoom
}
