// Package redisqueue implements the TripQueue port on a Redis list. LPUSH
// feeds the tail, RPOP drains the head, so trips execute in enqueue order
// while surviving process restarts.
package redisqueue

import (
	"context"
	"errors"
	"fmt"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const queueKey = "tripledger:execution:queue"

// TripQueue is the Redis implementation of ports.TripQueue.
type TripQueue struct {
	client *redis.Client
}

// NewTripQueue creates a trip queue over an existing Redis client.
func NewTripQueue(client *redis.Client) (*TripQueue, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &TripQueue{client: client}, nil
}

// Enqueue pushes a trip onto the execution queue.
func (q *TripQueue) Enqueue(ctx context.Context, tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	if err := q.client.LPush(ctx, queueKey, tripID.String()).Err(); err != nil {
		return fmt.Errorf("enqueue trip %s: %w", tripID, err)
	}
	return nil
}

// Dequeue pops the oldest queued trip. The second return value is false
// when the queue is empty.
func (q *TripQueue) Dequeue(ctx context.Context) (kernel.UUID, bool, error) {
	raw, err := q.client.RPop(ctx, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return kernel.UUID{}, false, nil
	}
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("dequeue trip: %w", err)
	}

	tripID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("dequeue trip: malformed id %q: %w", raw, err)
	}
	return tripID, true, nil
}
