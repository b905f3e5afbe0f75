package domain

import "time"

// Reservation lifecycle actions.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionDeleted       = "deleted"
)

// Entities that emit lifecycle events.
const (
	EntityReservation      = "reservations"
	EntityTableReservation = "table_reservations"
)

// ReservationEvent is published after a reservation mutation is stored.
type ReservationEvent struct {
	Entity       string
	Action       string
	ResourceID   string
	RestaurantID string
	Status       ReservationStatus
	OccurredAt   time.Time
	Data         any
}

// Topic returns the "<entity>.<action>" routing key.
func (e ReservationEvent) Topic() string { return e.Entity + "." + e.Action }
