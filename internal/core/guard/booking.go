package guard

import (
	"context"
	"fmt"

	"github.com/restobook/restaurant-api/internal/api/metrics"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// Checks shared by both reservation flavors.

func timeRange(in ports.BookingInput) domain.Result {
	return domain.ValidateTimeRange(in.Start, in.End)
}

// fitsRestaurant checks guests and booking window against the settings of
// restaurantID.
func (d *Deps) fitsRestaurant(ctx context.Context, restaurantID string, in ports.BookingInput) domain.Result {
	settings, err := d.Settings.ForRestaurant(ctx, restaurantID)
	if err != nil {
		return domain.Fail[domain.Unit](domain.Unexpected(err))
	}
	if res := validation.GuestCount(settings, in.Guests); !res.IsOk() {
		return res
	}
	return validation.BookingWindow(settings, in.Date, in.Start, d.now())
}

func fitsTable(t *domain.Table, guests int) domain.Result {
	if !t.Fits(guests) {
		return domain.Fail[domain.Unit](domain.ValidationError(fmt.Sprintf("table %d seats at most %d guests", t.Number, t.Capacity)))
	}
	return domain.Done()
}

// slotFree runs the conflict detector and counts refusals.
func (d *Deps) slotFree(ctx context.Context, tableID string, in ports.BookingInput, excludeID string) domain.Result {
	iv := domain.Interval{Start: in.Start, End: in.End}
	res := d.Conflicts.Check(ctx, tableID, in.Date, iv, excludeID)
	if !res.IsOk() && res.Problem().Kind == domain.KindConflict {
		metrics.SlotConflictsTotal.WithLabelValues("check").Inc()
	}
	return res
}

// transition checks that a stored status may move to next.
func transition(current, next domain.ReservationStatus) domain.Result {
	if !next.Valid() {
		return domain.Fail[domain.Unit](domain.ValidationError("unknown reservation status " + string(next)))
	}
	return current.CheckTransition(next)
}

// cancellable checks a user cancellation against the state machine and the
// restaurant's cancellation window.
func (d *Deps) cancellable(ctx context.Context, b domain.Booking) domain.Result {
	if res := b.Status.CheckTransition(domain.StatusCancelled); !res.IsOk() {
		return res
	}
	settings, err := d.Settings.ForRestaurant(ctx, b.RestaurantID)
	if err != nil {
		return domain.Fail[domain.Unit](domain.Unexpected(err))
	}
	return validation.CancellationWindow(settings, b, d.now())
}
