package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// ConflictDetector finds overlapping active reservations on a table.
type ConflictDetector struct {
	repo ports.TableReservationRepository
}

func NewConflictDetector(repo ports.TableReservationRepository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// HasConflict reports whether any active reservation of tableID on date,
// other than excludeID, overlaps iv.
func (d *ConflictDetector) HasConflict(ctx context.Context, tableID string, date time.Time, iv domain.Interval, excludeID string) (bool, error) {
	existing, err := d.repo.ListConflicting(ctx, tableID, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("list conflicting reservations: %w", err)
	}
	for _, r := range existing {
		if r.ID == excludeID || !r.Status.IsActive() {
			continue
		}
		if domain.Overlaps(iv, r.Interval()) {
			return true, nil
		}
	}
	return false, nil
}

// Check wraps HasConflict as a validation result.
func (d *ConflictDetector) Check(ctx context.Context, tableID string, date time.Time, iv domain.Interval, excludeID string) domain.Result {
	conflict, err := d.HasConflict(ctx, tableID, date, iv, excludeID)
	if err != nil {
		return domain.Fail[domain.Unit](domain.Unexpected(err))
	}
	if conflict {
		return domain.Fail[domain.Unit](SlotTaken())
	}
	return domain.Done()
}

// SlotTaken is the problem reported for an overlapping table booking.
func SlotTaken() *domain.Problem {
	return domain.Conflict("the table is already reserved for an overlapping time slot")
}

// GuestCount checks guests against the restaurant's bounds.
func GuestCount(s domain.ReservationSettings, guests int) domain.Result {
	if s.MinGuests > 0 && guests < s.MinGuests {
		return domain.Fail[domain.Unit](domain.ValidationError(fmt.Sprintf("number of guests must be at least %d", s.MinGuests)))
	}
	if s.MaxGuests > 0 && guests > s.MaxGuests {
		return domain.Fail[domain.Unit](domain.ValidationError(fmt.Sprintf("number of guests must be at most %d", s.MaxGuests)))
	}
	return domain.Done()
}

// BookingWindow checks that a booking starting at start on date lies
// between now+MinAdvance and MaxAdvanceDays calendar days from now.
func BookingWindow(s domain.ReservationSettings, date time.Time, start domain.ClockTime, now time.Time) domain.Result {
	startsAt := start.On(date)
	earliest := now.Add(s.MinAdvance)
	if startsAt.Before(earliest) {
		if s.MinAdvance > 0 {
			return domain.Fail[domain.Unit](domain.ValidationError(fmt.Sprintf("reservations must be made at least %s in advance", s.MinAdvance)))
		}
		return domain.Fail[domain.Unit](domain.ValidationError("reservation cannot start in the past"))
	}
	if s.MaxAdvanceDays > 0 {
		latest := domain.Day(now).AddDate(0, 0, s.MaxAdvanceDays)
		if domain.Day(date).After(latest) {
			return domain.Fail[domain.Unit](domain.ValidationError(fmt.Sprintf("reservations can be made at most %d days in advance", s.MaxAdvanceDays)))
		}
	}
	return domain.Done()
}

// CancellationWindow rejects a user cancellation of a confirmed booking
// once it is closer to its start than the configured window.
func CancellationWindow(s domain.ReservationSettings, b domain.Booking, now time.Time) domain.Result {
	if s.CancellationWindow <= 0 || b.Status != domain.StatusConfirmed {
		return domain.Done()
	}
	if now.After(b.StartsAt().Add(-s.CancellationWindow)) {
		return domain.Fail[domain.Unit](domain.ValidationError(fmt.Sprintf("confirmed reservations can only be cancelled up to %s before they start", s.CancellationWindow)))
	}
	return domain.Done()
}

// Editable rejects changes to reservations in a terminal state.
func Editable(status domain.ReservationStatus) domain.Result {
	if status.IsTerminal() {
		return domain.Fail[domain.Unit](domain.ValidationError("reservation is " + string(status) + " and can no longer be modified"))
	}
	return domain.Done()
}

// Lookup converts a repository error into a result: ErrNotFound becomes
// NotFound("<what> not found"), anything else is unexpected.
func Lookup(err error, what string) domain.Result {
	if err == nil {
		return domain.Done()
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
		return domain.Fail[domain.Unit](domain.NotFound(what + " not found"))
	}
	return domain.Fail[domain.Unit](domain.Unexpected(err))
}
