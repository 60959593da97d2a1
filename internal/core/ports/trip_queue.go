package ports

import (
	"context"

	"tripledger/internal/core/domain/model/kernel"
)

// TripQueue is the durable queue feeding trip-execution workers. Jobs for
// different trips may be consumed in parallel; ordering is FIFO per queue.
type TripQueue interface {
	// Enqueue pushes a trip onto the execution queue.
	Enqueue(ctx context.Context, tripID kernel.UUID) error

	// Dequeue pops the oldest queued trip. The second return value is
	// false when the queue is empty.
	Dequeue(ctx context.Context) (kernel.UUID, bool, error)
}
