package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/domain/model/execution"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type trackerFixture struct {
	tracker  commands.ProgressTracker
	uow      *UnitOfWorkMock
	execRepo *ExecutionRepoMock
}

func newTrackerFixture() *trackerFixture {
	f := &trackerFixture{
		uow:      &UnitOfWorkMock{},
		execRepo: &ExecutionRepoMock{},
	}

	factory := &ProgressUoWFactoryMock{}
	factory.On("Create").Return(f.uow)

	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("ExecutionRepository").Return(f.execRepo)

	f.tracker = commands.NewProgressTracker(factory)
	return f
}

func TestProgressTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("should insert a record on the first update", func(t *testing.T) {
		f := newTrackerFixture()
		tripID := kernel.NewUUID()

		var inserted *execution.Record
		f.execRepo.On("Add", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*execution.Record)
			}).
			Return(nil)

		err := f.tracker.Update(ctx, tripID, trip.ExecutionProcessing, "Starting trip execution")

		require.NoError(t, err)
		require.NotNil(t, inserted)
		assert.Equal(t, tripID, inserted.TripID())
		assert.Equal(t, trip.ExecutionProcessing, inserted.Status())
		assert.Equal(t, "Starting trip execution", inserted.ProgressMessage())
		f.execRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should fall through to an update when the record exists", func(t *testing.T) {
		f := newTrackerFixture()
		tripID := kernel.NewUUID()
		started := time.Now().Add(-time.Minute)
		record, err := execution.NewRecord(tripID, trip.ExecutionProcessing, "Starting trip execution", started)
		require.NoError(t, err)

		f.execRepo.On("Add", mock.Anything, mock.Anything).Return(ports.ErrExecutionRecordExists)
		f.execRepo.On("GetByTrip", mock.Anything, tripID).Return(record, nil)
		f.execRepo.On("Update", mock.Anything, record).Return(nil)

		err = f.tracker.Update(ctx, tripID, trip.ExecutionProcessing, "Authenticating with ledger")

		require.NoError(t, err)
		assert.Equal(t, "Authenticating with ledger", record.ProgressMessage())
	})

	t.Run("should stamp completion and general error on finalize", func(t *testing.T) {
		f := newTrackerFixture()
		tripID := kernel.NewUUID()
		started := time.Now().Add(-time.Minute)
		record, err := execution.NewRecord(tripID, trip.ExecutionProcessing, "Starting trip execution", started)
		require.NoError(t, err)

		f.execRepo.On("Add", mock.Anything, mock.Anything).Return(ports.ErrExecutionRecordExists)
		f.execRepo.On("GetByTrip", mock.Anything, tripID).Return(record, nil)
		f.execRepo.On("Update", mock.Anything, record).Return(nil)

		generalError := "Could not retrieve details for order ORD-1: order not found"
		err = f.tracker.Finalize(ctx, tripID, trip.ExecutionFailed,
			"Trip execution failed due to critical errors", &generalError)

		require.NoError(t, err)
		assert.Equal(t, trip.ExecutionFailed, record.Status())
		require.NotNil(t, record.CompletedAt())
		require.NotNil(t, record.GeneralError())
		assert.Equal(t, generalError, *record.GeneralError())
	})

	t.Run("should propagate unexpected insert errors", func(t *testing.T) {
		f := newTrackerFixture()
		boom := errors.New("connection reset")

		f.execRepo.On("Add", mock.Anything, mock.Anything).Return(boom)

		err := f.tracker.Update(ctx, kernel.NewUUID(), trip.ExecutionProcessing, "Starting trip execution")

		assert.ErrorIs(t, err, boom)
		f.execRepo.AssertNotCalled(t, "GetByTrip", mock.Anything, mock.Anything)
	})
}
