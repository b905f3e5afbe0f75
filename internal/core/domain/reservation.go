package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// validTransitions defines the allowed state machine transitions.
// Cancelled and Completed are terminal.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether a reservation in s occupies its slot.
func (s ReservationStatus) IsActive() bool {
	return s != StatusCancelled
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns a ValidationError when s -> next is not allowed.
func (s ReservationStatus) CheckTransition(next ReservationStatus) Result {
	if s.IsTerminal() {
		return Fail[Unit](ValidationError("reservation is " + string(s) + " and can no longer change status"))
	}
	if !s.CanTransitionTo(next) {
		return Fail[Unit](ValidationError("invalid status transition from " + string(s) + " to " + string(next)))
	}
	return Done()
}

// InitialStatus is the status a new reservation starts in.
func InitialStatus(settings ReservationSettings) ReservationStatus {
	if settings.ReservationsNeedConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}

// Booking holds the fields shared by both reservation flavors.
type Booking struct {
	RestaurantID  string            `json:"restaurant_id" bson:"restaurant_id"`
	UserID        string            `json:"user_id" bson:"user_id"`
	Date          time.Time         `json:"date" bson:"date"`
	Start         ClockTime         `json:"start_time" bson:"start_time"`
	End           ClockTime         `json:"end_time" bson:"end_time"`
	Guests        int               `json:"number_of_guests" bson:"number_of_guests"`
	CustomerName  string            `json:"customer_name" bson:"customer_name"`
	CustomerEmail string            `json:"customer_email" bson:"customer_email"`
	CustomerPhone string            `json:"customer_phone" bson:"customer_phone"`
	Notes         string            `json:"notes,omitempty" bson:"notes,omitempty"`
	Status        ReservationStatus `json:"status" bson:"status"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
}

// Interval returns the booked [Start, End) range.
func (b Booking) Interval() Interval { return Interval{Start: b.Start, End: b.End} }

// StartsAt is the instant the booking begins.
func (b Booking) StartsAt() time.Time { return b.Start.On(b.Date) }

// Reservation books the restaurant as a whole.
type Reservation struct {
	ID      string `json:"id" bson:"_id"`
	Booking `bson:",inline"`
}

// TableReservation books one specific table.
type TableReservation struct {
	ID      string `json:"id" bson:"_id"`
	TableID string `json:"table_id" bson:"table_id"`
	Booking `bson:",inline"`
}

// SameSlot reports whether r already occupies exactly tableID, date and iv.
func (r TableReservation) SameSlot(tableID string, date time.Time, iv Interval) bool {
	return r.TableID == tableID && Day(r.Date).Equal(Day(date)) && r.Interval() == iv
}
