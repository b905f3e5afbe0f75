package ports

import (
	"context"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// BookingInput carries the editable fields shared by both reservation flavors.
type BookingInput struct {
	Date          time.Time        `validate:"required"`
	Start         domain.ClockTime `validate:"gte=0,lt=1440"`
	End           domain.ClockTime `validate:"gt=0,lte=1440"`
	Guests        int              `validate:"required,gt=0"`
	CustomerName  string           `validate:"required,max=100"`
	CustomerEmail string           `validate:"required,email"`
	CustomerPhone string           `validate:"omitempty,max=30"`
	Notes         string           `validate:"max=500"`
}

// CreateReservationInput books a whole restaurant.
type CreateReservationInput struct {
	RestaurantID string `validate:"required"`
	BookingInput
}

// UpdateReservationInput replaces the editable fields of a reservation.
type UpdateReservationInput struct {
	BookingInput
}

// ListReservationsInput carries the list endpoint parameters.
type ListReservationsInput struct {
	RestaurantID string `validate:"required"`
	TableID      string
	Status       domain.ReservationStatus `validate:"omitempty,oneof=pending confirmed cancelled completed"`
	DateFrom     time.Time
	DateTo       time.Time
	Page         int
	Limit        int
}

// Page is a page of list results.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ReservationService defines use-case operations for whole-restaurant
// reservations. Guarded and plain implementations share this interface.
type ReservationService interface {
	Create(ctx context.Context, p domain.Principal, in CreateReservationInput) domain.Outcome[*domain.Reservation]
	Update(ctx context.Context, p domain.Principal, id string, in UpdateReservationInput) domain.Outcome[*domain.Reservation]
	Delete(ctx context.Context, p domain.Principal, id string) domain.Result
	UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.ReservationStatus) domain.Outcome[*domain.Reservation]
	CancelAsUser(ctx context.Context, p domain.Principal, userID, id string) domain.Outcome[*domain.Reservation]
	Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.Reservation]
	List(ctx context.Context, p domain.Principal, in ListReservationsInput) domain.Outcome[Page[*domain.Reservation]]
	ListMine(ctx context.Context, p domain.Principal, page, limit int) domain.Outcome[Page[*domain.Reservation]]
}

// CreateTableReservationInput books one table; the restaurant is the
// table's restaurant.
type CreateTableReservationInput struct {
	TableID string `validate:"required"`
	BookingInput
}

// UpdateTableReservationInput may move the reservation to another table.
type UpdateTableReservationInput struct {
	TableID string `validate:"required"`
	BookingInput
}

// TableReservationService mirrors ReservationService for table bookings.
type TableReservationService interface {
	Create(ctx context.Context, p domain.Principal, in CreateTableReservationInput) domain.Outcome[*domain.TableReservation]
	Update(ctx context.Context, p domain.Principal, id string, in UpdateTableReservationInput) domain.Outcome[*domain.TableReservation]
	Delete(ctx context.Context, p domain.Principal, id string) domain.Result
	UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.ReservationStatus) domain.Outcome[*domain.TableReservation]
	CancelAsUser(ctx context.Context, p domain.Principal, userID, id string) domain.Outcome[*domain.TableReservation]
	Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.TableReservation]
	List(ctx context.Context, p domain.Principal, in ListReservationsInput) domain.Outcome[Page[*domain.TableReservation]]
	ListMine(ctx context.Context, p domain.Principal, page, limit int) domain.Outcome[Page[*domain.TableReservation]]
}
