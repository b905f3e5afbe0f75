package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// --- Request → Service input ---

func toBookingInput(req bookingRequest) (ports.BookingInput, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return ports.BookingInput{}, domain.ValidationError("date must be formatted as YYYY-MM-DD")
	}
	return ports.BookingInput{
		Date:          date,
		Start:         req.StartTime,
		End:           req.EndTime,
		Guests:        req.Guests,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}, nil
}

func toSettingsInput(req settingsRequest) ports.UpdateSettingsInput {
	return ports.UpdateSettingsInput{
		ReservationsNeedConfirmation: req.ReservationsNeedConfirmation,
		MinGuests:                    req.MinGuests,
		MaxGuests:                    req.MaxGuests,
		MinAdvance:                   time.Duration(req.MinAdvanceMinutes) * time.Minute,
		MaxAdvanceDays:               req.MaxAdvanceDays,
		CancellationWindow:           time.Duration(req.CancellationWindowMinutes) * time.Minute,
	}
}

// toListInput reads the list query string: status, table_id, date_from,
// date_to, page and limit.
func toListInput(c echo.Context, restaurantID string) (ports.ListReservationsInput, error) {
	in := ports.ListReservationsInput{RestaurantID: restaurantID}
	var status, from, to string
	err := echo.QueryParamsBinder(c).
		String("status", &status).
		String("table_id", &in.TableID).
		String("date_from", &from).
		String("date_to", &to).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return in, domain.ValidationError("page and limit must be integers")
	}
	in.Status = domain.ReservationStatus(status)
	if from != "" {
		if in.DateFrom, err = domain.ParseDate(from); err != nil {
			return in, domain.ValidationError("date_from must be formatted as YYYY-MM-DD")
		}
	}
	if to != "" {
		if in.DateTo, err = domain.ParseDate(to); err != nil {
			return in, domain.ValidationError("date_to must be formatted as YYYY-MM-DD")
		}
	}
	return in, nil
}

func pageParams(c echo.Context) (page, limit int, err error) {
	err = echo.QueryParamsBinder(c).Int("page", &page).Int("limit", &limit).BindError()
	if err != nil {
		return 0, 0, domain.ValidationError("page and limit must be integers")
	}
	return page, limit, nil
}

// --- Service output → Response ---

func toPageResponse[T any](p ports.Page[T]) pageResponse[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func toSettingsResponse(s domain.ReservationSettings) settingsResponse {
	return settingsResponse{
		RestaurantID:                 s.RestaurantID,
		ReservationsNeedConfirmation: s.ReservationsNeedConfirmation,
		MinGuests:                    s.MinGuests,
		MaxGuests:                    s.MaxGuests,
		MinAdvanceMinutes:            minutes(s.MinAdvance),
		MaxAdvanceDays:               s.MaxAdvanceDays,
		CancellationWindowMinutes:    minutes(s.CancellationWindow),
	}
}
