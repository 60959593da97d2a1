package commands_test

import (
	"context"
	"time"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/domain/model/execution"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type TripRepoMock struct{ mock.Mock }

func (m *TripRepoMock) Add(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *TripRepoMock) Update(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *TripRepoMock) Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *TripRepoMock) GetForExecution(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

type StopRepoMock struct{ mock.Mock }

func (m *StopRepoMock) Add(ctx context.Context, aggregate *stop.Stop) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *StopRepoMock) Update(ctx context.Context, aggregate *stop.Stop) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *StopRepoMock) GetByTrip(ctx context.Context, tripID kernel.UUID) ([]*stop.Stop, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stop.Stop), args.Error(1)
}

type ExecutionRepoMock struct{ mock.Mock }

func (m *ExecutionRepoMock) Add(ctx context.Context, record *execution.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *ExecutionRepoMock) Update(ctx context.Context, record *execution.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *ExecutionRepoMock) GetByTrip(ctx context.Context, tripID kernel.UUID) (*execution.Record, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*execution.Record), args.Error(1)
}

type LocationRepoMock struct{ mock.Mock }

func (m *LocationRepoMock) GetByCatalogLocation(ctx context.Context, catalogLocationID string) (ports.LocationMapping, error) {
	args := m.Called(ctx, catalogLocationID)
	return args.Get(0).(ports.LocationMapping), args.Error(1)
}

func (m *LocationRepoMock) GetDriver(ctx context.Context, id kernel.UUID) (ports.Driver, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Driver), args.Error(1)
}

func (m *LocationRepoMock) GetVehicle(ctx context.Context, id kernel.UUID) (ports.Vehicle, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Vehicle), args.Error(1)
}

type LedgerClientMock struct{ mock.Mock }

func (m *LedgerClientMock) Authenticate(ctx context.Context) (ports.LedgerSession, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.LedgerSession), args.Error(1)
}

func (m *LedgerClientMock) SplitUnits(
	ctx context.Context,
	session ports.LedgerSession,
	items []ports.SplitItem,
) ([]kernel.UnitID, error) {
	args := m.Called(ctx, session, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UnitID), args.Error(1)
}

func (m *LedgerClientMock) MoveUnits(ctx context.Context, session ports.LedgerSession, items []ports.MoveItem) error {
	args := m.Called(ctx, session, items)
	return args.Error(0)
}

func (m *LedgerClientMock) FileManifest(
	ctx context.Context,
	session ports.LedgerSession,
	req ports.ManifestRequest,
) (string, error) {
	args := m.Called(ctx, session, req)
	return args.String(0), args.Error(1)
}

func (m *LedgerClientMock) GetOnHandQuantities(
	ctx context.Context,
	session ports.LedgerSession,
) (map[kernel.UnitID]float64, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UnitID]float64), args.Error(1)
}

type CatalogClientMock struct{ mock.Mock }

func (m *CatalogClientMock) GetOrderDetail(ctx context.Context, orderRef string) (ports.OrderDetail, error) {
	args := m.Called(ctx, orderRef)
	return args.Get(0).(ports.OrderDetail), args.Error(1)
}

type RouteServiceMock struct{ mock.Mock }

func (m *RouteServiceMock) Plan(
	ctx context.Context,
	addresses []string,
	deliveryDate time.Time,
	startTime time.Time,
) ([]trip.RouteSegment, error) {
	args := m.Called(ctx, addresses, deliveryDate, startTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trip.RouteSegment), args.Error(1)
}

type TripQueueMock struct{ mock.Mock }

func (m *TripQueueMock) Enqueue(ctx context.Context, tripID kernel.UUID) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *TripQueueMock) Dequeue(ctx context.Context) (kernel.UUID, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

type TrackerMock struct{ mock.Mock }

func (m *TrackerMock) Update(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
) error {
	args := m.Called(ctx, tripID, status, message)
	return args.Error(0)
}

func (m *TrackerMock) Finalize(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
) error {
	args := m.Called(ctx, tripID, status, message, generalError)
	return args.Error(0)
}

// UnitOfWorkMock satisfies every command-level unit of work interface.
type UnitOfWorkMock struct{ mock.Mock }

func (m *UnitOfWorkMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) TripRepository() ports.TripRepository {
	args := m.Called()
	return args.Get(0).(ports.TripRepository)
}

func (m *UnitOfWorkMock) StopRepository() ports.StopRepository {
	args := m.Called()
	return args.Get(0).(ports.StopRepository)
}

func (m *UnitOfWorkMock) ExecutionRepository() ports.ExecutionRepository {
	args := m.Called()
	return args.Get(0).(ports.ExecutionRepository)
}

func (m *UnitOfWorkMock) LocationMappingRepository() ports.LocationMappingRepository {
	args := m.Called()
	return args.Get(0).(ports.LocationMappingRepository)
}

type ExecutionUoWFactoryMock struct{ mock.Mock }

func (m *ExecutionUoWFactoryMock) Create() commands.ExecutionUoW {
	args := m.Called()
	return args.Get(0).(commands.ExecutionUoW)
}

type TripUoWFactoryMock struct{ mock.Mock }

func (m *TripUoWFactoryMock) Create() commands.TripUoW {
	args := m.Called()
	return args.Get(0).(commands.TripUoW)
}

type StopUoWFactoryMock struct{ mock.Mock }

func (m *StopUoWFactoryMock) Create() commands.StopUoW {
	args := m.Called()
	return args.Get(0).(commands.StopUoW)
}

type ProgressUoWFactoryMock struct{ mock.Mock }

func (m *ProgressUoWFactoryMock) Create() commands.ProgressUoW {
	args := m.Called()
	return args.Get(0).(commands.ProgressUoW)
}
