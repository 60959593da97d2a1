package commands_test

import (
	"context"
	"testing"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/domain/services"
	"tripledger/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	processor commands.StopProcessor
	uow       *UnitOfWorkMock
	stopRepo  *StopRepoMock
	ledger    *LedgerClientMock
}

func newProcessorFixture() *processorFixture {
	f := &processorFixture{
		uow:      &UnitOfWorkMock{},
		stopRepo: &StopRepoMock{},
		ledger:   &LedgerClientMock{},
	}

	factory := &StopUoWFactoryMock{}
	factory.On("Create").Return(f.uow)

	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("StopRepository").Return(f.stopRepo)

	f.processor = commands.NewStopProcessor(factory, f.ledger)
	return f
}

func testCrew() commands.CrewAssignment {
	return commands.CrewAssignment{
		Driver1: ports.Driver{LedgerID: "emp-1"},
		Driver2: ports.Driver{LedgerID: "emp-2"},
		Vehicle: ports.Vehicle{LedgerID: "veh-1"},
	}
}

func testSegment() trip.RouteSegment {
	return trip.RouteSegment{
		DepartureUnix: 1750000000,
		ArrivalUnix:   1750003600,
		RouteText:     "Head north on Main St",
	}
}

func TestStopProcessor_Process(t *testing.T) {
	ctx := context.Background()
	session := ports.LedgerSession("token")

	t.Run("should run the full saga and file a manifest", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-1", 1)
		detail := detailWithUnits("ORD-1", map[string]float64{testUnitX: 5})
		room := "Vault B"
		mapping := &ports.LocationMapping{CatalogLocationID: "loc-1", VendorLicense: "LIC-42", DefaultRoom: &room}
		newUnits := []kernel.UnitID{"9999999999999991", "9999999999999992"}

		f.ledger.On("SplitUnits", mock.Anything, session,
			[]ports.SplitItem{{UnitID: testUnitX, Quantity: 5}}).Return(newUnits, nil)
		f.ledger.On("MoveUnits", mock.Anything, session, []ports.MoveItem{
			{UnitID: newUnits[0], Room: "Vault B"},
			{UnitID: newUnits[1], Room: "Vault B"},
		}).Return(nil)
		f.ledger.On("FileManifest", mock.Anything, session, ports.ManifestRequest{
			UnitIDs:         newUnits,
			StopNumber:      1,
			DepartureUnix:   1750000000,
			ArrivalUnix:     1750003600,
			RouteText:       "Head north on Main St",
			VendorLicense:   "LIC-42",
			Driver1LedgerID: "emp-1",
			Driver2LedgerID: "emp-2",
			VehicleLedgerID: "veh-1",
		}).Return("9001", nil)
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, mapping, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeSuccess, result.Outcome)
		assert.Equal(t, stop.StatusManifested, aggregate.Status())
		require.NotNil(t, aggregate.ManifestID())
		assert.Equal(t, "9001", *aggregate.ManifestID())
		assert.Nil(t, aggregate.ErrorMessage())
		// one checkpoint after each saga step
		f.stopRepo.AssertNumberOfCalls(t, "Update", 3)
	})

	t.Run("should skip a stop with no addressable line items", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-1", 1)
		detail := detailWithUnits("ORD-1", map[string]float64{"abc": 3})

		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, nil, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeSkipped, result.Outcome)
		assert.Equal(t, stop.StatusSkipped, aggregate.Status())
		require.NotNil(t, aggregate.ErrorMessage())
		assert.Contains(t, *aggregate.ErrorMessage(), "No valid inventory items found")
		f.ledger.AssertNotCalled(t, "SplitUnits", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should record a structured split rejection verbatim", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-2", 2)
		detail := detailWithUnits("ORD-2", map[string]float64{testUnitX: 5})

		f.ledger.On("SplitUnits", mock.Anything, session, mock.Anything).
			Return(nil, &ports.LedgerError{Code: "42", Message: "Insufficient quantity"})
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, nil, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeFailed, result.Outcome)
		assert.Equal(t, stop.StatusPending, aggregate.Status())
		require.NotNil(t, aggregate.ErrorMessage())
		assert.Contains(t, *aggregate.ErrorMessage(), "42")
		assert.Contains(t, *aggregate.ErrorMessage(), "Insufficient quantity")
		f.ledger.AssertNotCalled(t, "MoveUnits", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should fail when the split returns no new units", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-1", 1)
		detail := detailWithUnits("ORD-1", map[string]float64{testUnitX: 5})

		f.ledger.On("SplitUnits", mock.Anything, session, mock.Anything).Return([]kernel.UnitID{}, nil)
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, nil, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeFailed, result.Outcome)
		require.NotNil(t, aggregate.ErrorMessage())
		assert.Contains(t, *aggregate.ErrorMessage(), "no new unit identifiers returned")
	})

	t.Run("should keep the sublotted checkpoint when the move fails", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-1", 1)
		detail := detailWithUnits("ORD-1", map[string]float64{testUnitX: 5})

		f.ledger.On("SplitUnits", mock.Anything, session, mock.Anything).
			Return([]kernel.UnitID{"9999999999999991"}, nil)
		f.ledger.On("MoveUnits", mock.Anything, session, mock.Anything).
			Return(&ports.LedgerError{Code: "7", Message: "Room not found"})
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, nil, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeFailed, result.Outcome)
		assert.Equal(t, stop.StatusSublotted, aggregate.Status())
		require.NotNil(t, aggregate.ErrorMessage())
		f.ledger.AssertNotCalled(t, "FileManifest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should fall back to room and license literals without a mapping", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-1", 1)
		detail := detailWithUnits("ORD-1", map[string]float64{testUnitX: 5})
		newUnits := []kernel.UnitID{"9999999999999991"}

		f.ledger.On("SplitUnits", mock.Anything, session, mock.Anything).Return(newUnits, nil)
		f.ledger.On("MoveUnits", mock.Anything, session,
			[]ports.MoveItem{{UnitID: newUnits[0], Room: "1"}}).Return(nil)
		f.ledger.On("FileManifest", mock.Anything, session,
			mock.MatchedBy(func(req ports.ManifestRequest) bool {
				return req.VendorLicense == "UNKNOWN"
			})).Return("9002", nil)
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, nil, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeSuccess, result.Outcome)
	})

	t.Run("should prefer the stop's room override when the mapping has no default", func(t *testing.T) {
		f := newProcessorFixture()
		override := "Staging 3"
		aggregate, err := stop.NewStop(kernel.NewUUID(), kernel.NewUUID(), "ORD-1", 1, nil, &override)
		require.NoError(t, err)
		detail := detailWithUnits("ORD-1", map[string]float64{testUnitX: 5})
		mapping := &ports.LocationMapping{CatalogLocationID: "loc-1", VendorLicense: "LIC-42"}
		newUnits := []kernel.UnitID{"9999999999999991"}

		f.ledger.On("SplitUnits", mock.Anything, session, mock.Anything).Return(newUnits, nil)
		f.ledger.On("MoveUnits", mock.Anything, session,
			[]ports.MoveItem{{UnitID: newUnits[0], Room: "Staging 3"}}).Return(nil)
		f.ledger.On("FileManifest", mock.Anything, session, mock.Anything).Return("9003", nil)
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, mapping, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeSuccess, result.Outcome)
	})

	t.Run("should record a manifest rejection and keep inventory_moved", func(t *testing.T) {
		f := newProcessorFixture()
		aggregate := buildStop(t, kernel.NewUUID(), "ORD-1", 1)
		detail := detailWithUnits("ORD-1", map[string]float64{testUnitX: 5})

		f.ledger.On("SplitUnits", mock.Anything, session, mock.Anything).
			Return([]kernel.UnitID{"9999999999999991"}, nil)
		f.ledger.On("MoveUnits", mock.Anything, session, mock.Anything).Return(nil)
		f.ledger.On("FileManifest", mock.Anything, session, mock.Anything).
			Return("", &ports.LedgerError{Code: "13", Message: "Manifest rejected"})
		f.stopRepo.On("Update", mock.Anything, aggregate).Return(nil)

		result := f.processor.Process(ctx, aggregate, detail, nil, session, testSegment(), testCrew())

		assert.Equal(t, services.OutcomeFailed, result.Outcome)
		assert.Equal(t, stop.StatusInventoryMoved, aggregate.Status())
		assert.Nil(t, aggregate.ManifestID())
		require.NotNil(t, aggregate.ErrorMessage())
		assert.Contains(t, *aggregate.ErrorMessage(), "Manifest rejected")
	})
}
