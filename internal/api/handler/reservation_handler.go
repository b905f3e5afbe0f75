package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// ReservationHandler serves whole-restaurant reservations.
type ReservationHandler struct {
	svc ports.ReservationService
}

func NewReservationHandler(svc ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// Create books a whole restaurant.
//
// @Summary      Create a reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReservationRequest  true  "Reservation"
// @Success      201   {object}  domain.Reservation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	booking, err := toBookingInput(req.bookingRequest)
	if err != nil {
		return err
	}
	in := ports.CreateReservationInput{RestaurantID: req.RestaurantID, BookingInput: booking}
	return respond(c, http.StatusCreated, h.svc.Create(c.Request().Context(), principal(c), in))
}

// Get returns one reservation.
//
// @Summary      Get a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.svc.Get(c.Request().Context(), principal(c), c.Param("id")))
}

// Update replaces the booking fields of a reservation.
//
// @Summary      Update a reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Reservation ID"
// @Param        body  body      bookingRequest  true  "Booking fields"
// @Success      200   {object}  domain.Reservation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	booking, err := toBookingInput(req)
	if err != nil {
		return err
	}
	in := ports.UpdateReservationInput{BookingInput: booking}
	return respond(c, http.StatusOK, h.svc.Update(c.Request().Context(), principal(c), c.Param("id"), in))
}

// Delete removes a reservation.
//
// @Summary      Delete a reservation
// @Tags         reservations
// @Security     BearerAuth
// @Param        id   path  string  true  "Reservation ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	return noContent(c, h.svc.Delete(c.Request().Context(), principal(c), c.Param("id")))
}

// UpdateStatus moves a reservation through its lifecycle.
//
// @Summary      Change reservation status
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Reservation ID"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Reservation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	return respond(c, http.StatusOK, h.svc.UpdateStatus(c.Request().Context(), principal(c), c.Param("id"), req.Status))
}

// Cancel lets customers cancel their own reservation.
//
// @Summary      Cancel my reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	p := principal(c)
	return respond(c, http.StatusOK, h.svc.CancelAsUser(c.Request().Context(), p, p.UserID, c.Param("id")))
}

// List returns a restaurant's reservations.
//
// @Summary      List restaurant reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true   "Restaurant ID"
// @Param        status     query     string  false  "Status filter"
// @Param        date_from  query     string  false  "First date (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Last date (YYYY-MM-DD)"
// @Param        page       query     int     false  "Page"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  pageResponse[domain.Reservation]
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /v1/restaurants/{id}/reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	in, err := toListInput(c, c.Param("id"))
	if err != nil {
		return err
	}
	out := h.svc.List(c.Request().Context(), principal(c), in)
	return respondWith(c, http.StatusOK, out, toPageResponse[*domain.Reservation])
}

// ListMine returns the caller's reservations.
//
// @Summary      List my reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  pageResponse[domain.Reservation]
// @Router       /v1/reservations/mine [get]
func (h *ReservationHandler) ListMine(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	out := h.svc.ListMine(c.Request().Context(), principal(c), page, limit)
	return respondWith(c, http.StatusOK, out, toPageResponse[*domain.Reservation])
}
