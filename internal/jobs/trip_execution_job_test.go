package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"

	"github.com/stretchr/testify/mock"
)

type queueMock struct{ mock.Mock }

func (m *queueMock) Enqueue(ctx context.Context, tripID kernel.UUID) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *queueMock) Dequeue(ctx context.Context) (kernel.UUID, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

type executorMock struct{ mock.Mock }

func (m *executorMock) Handle(ctx context.Context, cmd commands.ExecuteTripCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type trackerMock struct{ mock.Mock }

func (m *trackerMock) Update(ctx context.Context, tripID kernel.UUID, status trip.ExecutionStatus, message string) error {
	args := m.Called(ctx, tripID, status, message)
	return args.Error(0)
}

func (m *trackerMock) Finalize(
	ctx context.Context,
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
) error {
	args := m.Called(ctx, tripID, status, message, generalError)
	return args.Error(0)
}

type jobFixture struct {
	job      *TripExecutionJob
	queue    *queueMock
	executor *executorMock
	tracker  *trackerMock
}

func newJobFixture() *jobFixture {
	f := &jobFixture{
		queue:    &queueMock{},
		executor: &executorMock{},
		tracker:  &trackerMock{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.job = NewTripExecutionJob(f.queue, f.executor, f.tracker, logger)
	return f
}

func TestTripExecutionJob_Tick(t *testing.T) {
	t.Run("does nothing on an empty queue", func(t *testing.T) {
		f := newJobFixture()
		f.queue.On("Dequeue", mock.Anything).Return(kernel.UUID{}, false, nil)

		f.job.tick()

		f.executor.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		f.tracker.AssertNotCalled(t, "Finalize",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("leaves the record alone on success", func(t *testing.T) {
		f := newJobFixture()
		tripID := kernel.NewUUID()
		f.queue.On("Dequeue", mock.Anything).Return(tripID, true, nil)
		f.executor.On("Handle", mock.Anything, mock.Anything).Return(nil)

		f.job.tick()

		f.executor.AssertCalled(t, "Handle", mock.Anything, mock.Anything)
		f.tracker.AssertNotCalled(t, "Finalize",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stamps the execution record when the attempt dies early", func(t *testing.T) {
		f := newJobFixture()
		tripID := kernel.NewUUID()
		boom := errors.New("value is required: trip has no stops")
		f.queue.On("Dequeue", mock.Anything).Return(tripID, true, nil)
		f.executor.On("Handle", mock.Anything, mock.Anything).Return(boom)
		f.tracker.On("Finalize", mock.Anything, tripID, trip.ExecutionFailed,
			boom.Error(), mock.Anything).Return(nil)

		f.job.tick()

		f.tracker.AssertCalled(t, "Finalize", mock.Anything, tripID, trip.ExecutionFailed,
			boom.Error(), mock.Anything)
	})

	t.Run("leaves the record to the winning worker on a lease conflict", func(t *testing.T) {
		f := newJobFixture()
		tripID := kernel.NewUUID()
		f.queue.On("Dequeue", mock.Anything).Return(tripID, true, nil)
		f.executor.On("Handle", mock.Anything, mock.Anything).
			Return(commands.ErrTripAlreadyProcessing)

		f.job.tick()

		f.tracker.AssertNotCalled(t, "Finalize",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("leaves a completed trip's record untouched", func(t *testing.T) {
		f := newJobFixture()
		tripID := kernel.NewUUID()
		f.queue.On("Dequeue", mock.Anything).Return(tripID, true, nil)
		f.executor.On("Handle", mock.Anything, mock.Anything).
			Return(commands.ErrTripAlreadyCompleted)

		f.job.tick()

		f.tracker.AssertNotCalled(t, "Finalize",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
