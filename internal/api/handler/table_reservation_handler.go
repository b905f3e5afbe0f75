package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// TableReservationHandler serves reservations of a single table.
type TableReservationHandler struct {
	svc ports.TableReservationService
}

func NewTableReservationHandler(svc ports.TableReservationService) *TableReservationHandler {
	return &TableReservationHandler{svc: svc}
}

// Create books one table.
//
// @Summary      Create a table reservation
// @Tags         table-reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      tableReservationRequest  true  "Reservation"
// @Success      201   {object}  domain.TableReservation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/table-reservations [post]
func (h *TableReservationHandler) Create(c echo.Context) error {
	var req tableReservationRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	booking, err := toBookingInput(req.bookingRequest)
	if err != nil {
		return err
	}
	in := ports.CreateTableReservationInput{TableID: req.TableID, BookingInput: booking}
	return respond(c, http.StatusCreated, h.svc.Create(c.Request().Context(), principal(c), in))
}

// Get returns one reservation.
//
// @Summary      Get a reservation
// @Tags         table-reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  domain.TableReservation
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/table-reservations/{id} [get]
func (h *TableReservationHandler) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.svc.Get(c.Request().Context(), principal(c), c.Param("id")))
}

// Update replaces the booking fields of a reservation.
//
// @Summary      Update a reservation
// @Tags         table-reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Reservation ID"
// @Param        body  body      tableReservationRequest  true  "Booking fields"
// @Success      200   {object}  domain.TableReservation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/table-reservations/{id} [put]
func (h *TableReservationHandler) Update(c echo.Context) error {
	var req tableReservationRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	booking, err := toBookingInput(req.bookingRequest)
	if err != nil {
		return err
	}
	in := ports.UpdateTableReservationInput{TableID: req.TableID, BookingInput: booking}
	return respond(c, http.StatusOK, h.svc.Update(c.Request().Context(), principal(c), c.Param("id"), in))
}

// Delete removes a reservation.
//
// @Summary      Delete a reservation
// @Tags         table-reservations
// @Security     BearerAuth
// @Param        id   path  string  true  "Reservation ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/table-reservations/{id} [delete]
func (h *TableReservationHandler) Delete(c echo.Context) error {
	return noContent(c, h.svc.Delete(c.Request().Context(), principal(c), c.Param("id")))
}

// UpdateStatus moves a reservation through its lifecycle.
//
// @Summary      Change reservation status
// @Tags         table-reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Reservation ID"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.TableReservation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/table-reservations/{id}/status [patch]
func (h *TableReservationHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	return respond(c, http.StatusOK, h.svc.UpdateStatus(c.Request().Context(), principal(c), c.Param("id"), req.Status))
}

// Cancel lets customers cancel their own reservation.
//
// @Summary      Cancel my reservation
// @Tags         table-reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  domain.TableReservation
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/table-reservations/{id}/cancel [post]
func (h *TableReservationHandler) Cancel(c echo.Context) error {
	p := principal(c)
	return respond(c, http.StatusOK, h.svc.CancelAsUser(c.Request().Context(), p, p.UserID, c.Param("id")))
}

// List returns a restaurant's reservations.
//
// @Summary      List restaurant table reservations
// @Tags         table-reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true   "Restaurant ID"
// @Param        table_id   query     string  false  "Table filter"
// @Param        status     query     string  false  "Status filter"
// @Param        date_from  query     string  false  "First date (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Last date (YYYY-MM-DD)"
// @Param        page       query     int     false  "Page"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  pageResponse[domain.TableReservation]
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /v1/restaurants/{id}/table-reservations [get]
func (h *TableReservationHandler) List(c echo.Context) error {
	in, err := toListInput(c, c.Param("id"))
	if err != nil {
		return err
	}
	out := h.svc.List(c.Request().Context(), principal(c), in)
	return respondWith(c, http.StatusOK, out, toPageResponse[*domain.TableReservation])
}

// ListMine returns the caller's reservations.
//
// @Summary      List my table reservations
// @Tags         table-reservations
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  pageResponse[domain.TableReservation]
// @Router       /v1/table-reservations/mine [get]
func (h *TableReservationHandler) ListMine(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	out := h.svc.ListMine(c.Request().Context(), principal(c), page, limit)
	return respondWith(c, http.StatusOK, out, toPageResponse[*domain.TableReservation])
}
