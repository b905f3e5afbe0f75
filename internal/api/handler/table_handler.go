package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/core/ports"
)

type TableHandler struct {
	svc ports.TableService
}

func NewTableHandler(svc ports.TableService) *TableHandler {
	return &TableHandler{svc: svc}
}

// @Summary      Create a table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Restaurant ID"
// @Param        body  body      tableRequest  true  "Table"
// @Success      201   {object}  domain.Table
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/restaurants/{id}/tables [post]
func (h *TableHandler) Create(c echo.Context) error {
	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	in := ports.CreateTableInput{RestaurantID: c.Param("id"), Number: req.Number, Capacity: req.Capacity}
	return respond(c, http.StatusCreated, h.svc.Create(c.Request().Context(), principal(c), in))
}

// @Summary      Update a table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Table ID"
// @Param        body  body      tableRequest  true  "Table"
// @Success      200   {object}  domain.Table
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/tables/{id} [put]
func (h *TableHandler) Update(c echo.Context) error {
	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	in := ports.UpdateTableInput{Number: req.Number, Capacity: req.Capacity}
	return respond(c, http.StatusOK, h.svc.Update(c.Request().Context(), principal(c), c.Param("id"), in))
}

// @Summary      Delete a table
// @Tags         tables
// @Security     BearerAuth
// @Param        id   path  string  true  "Table ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/tables/{id} [delete]
func (h *TableHandler) Delete(c echo.Context) error {
	return noContent(c, h.svc.Delete(c.Request().Context(), principal(c), c.Param("id")))
}

// @Summary      List a restaurant's tables
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {array}   domain.Table
// @Failure      404  {object}  errorResponse
// @Router       /v1/restaurants/{id}/tables [get]
func (h *TableHandler) List(c echo.Context) error {
	return respond(c, http.StatusOK, h.svc.List(c.Request().Context(), principal(c), c.Param("id")))
}
