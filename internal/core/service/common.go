package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func newID() string { return uuid.NewString() }

// fail translates a repository error into a failed Outcome. ErrNotFound
// becomes NotFound("<what> not found"), ErrStaleWrite a Conflict; anything
// else is unexpected.
func fail[T any](err error, what string) domain.Outcome[T] {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.Fail[T](domain.NotFound(what + " not found"))
	case errors.Is(err, domain.ErrStaleWrite):
		return domain.Fail[T](staleWrite(what))
	default:
		return domain.Fail[T](domain.Unexpected(err))
	}
}

func staleWrite(what string) *domain.Problem {
	return domain.Conflict(what + " was changed by another request, please retry")
}

// normalizePage clamps page and limit to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func newPage[T any](items []T, total int64, page, limit int) ports.Page[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	if items == nil {
		items = []T{}
	}
	return ports.Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// applyBooking copies the editable fields of in onto b.
func applyBooking(b *domain.Booking, in ports.BookingInput) {
	b.Date = domain.Day(in.Date)
	b.Start = in.Start
	b.End = in.End
	b.Guests = in.Guests
	b.CustomerName = in.CustomerName
	b.CustomerEmail = in.CustomerEmail
	b.CustomerPhone = in.CustomerPhone
	b.Notes = in.Notes
}

func newBooking(restaurantID, userID string, in ports.BookingInput, status domain.ReservationStatus, now time.Time) domain.Booking {
	b := domain.Booking{
		RestaurantID: restaurantID,
		UserID:       userID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyBooking(&b, in)
	return b
}

func listFilter(in ports.ListReservationsInput) ports.ReservationFilter {
	page, limit := normalizePage(in.Page, in.Limit)
	return ports.ReservationFilter{
		RestaurantID: in.RestaurantID,
		TableID:      in.TableID,
		Status:       in.Status,
		DateFrom:     in.DateFrom,
		DateTo:       in.DateTo,
		Page:         page,
		Limit:        limit,
	}
}
