package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// EventPublisher delivers a reservation event to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReservationEvent) error
}

// EventSink accepts events for asynchronous publication. Enqueue never
// blocks the caller on delivery.
type EventSink interface {
	Enqueue(event domain.ReservationEvent)
}
