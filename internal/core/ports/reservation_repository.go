package ports

import (
	"context"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// ReservationFilter carries the list query parameters shared by both
// reservation flavors.
type ReservationFilter struct {
	RestaurantID string                   // required unless UserID is set
	UserID       string                   // optional: only this customer's reservations
	TableID      string                   // table reservations only
	Status       domain.ReservationStatus // optional
	DateFrom     time.Time                // optional: date >= DateFrom
	DateTo       time.Time                // optional: date <= DateTo
	Page         int                      // 1-based
	Limit        int                      // max rows per page
}

// ReservationRepository persists whole-restaurant reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	// Update replaces r only while the stored status is still from;
	// otherwise it returns domain.ErrStaleWrite.
	Update(ctx context.Context, r *domain.Reservation, from domain.ReservationStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ReservationFilter) ([]*domain.Reservation, int64, error)
}

// TableReservationRepository persists table-scoped reservations.
type TableReservationRepository interface {
	Create(ctx context.Context, r *domain.TableReservation) error
	GetByID(ctx context.Context, id string) (*domain.TableReservation, error)
	// Update replaces r only while the stored status is still from.
	Update(ctx context.Context, r *domain.TableReservation, from domain.ReservationStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ReservationFilter) ([]*domain.TableReservation, int64, error)
	// ListConflicting returns active reservations of tableID on date,
	// skipping excludeID when non-empty.
	ListConflicting(ctx context.Context, tableID string, date time.Time, excludeID string) ([]*domain.TableReservation, error)
}

// SlotLocker serialises check-then-write on a (table, date) slot across
// every process sharing the store.
type SlotLocker interface {
	WithSlot(ctx context.Context, tableID string, date time.Time, fn func(ctx context.Context) error) error
}
