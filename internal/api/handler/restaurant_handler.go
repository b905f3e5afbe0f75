package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/core/ports"
)

type RestaurantHandler struct {
	svc ports.RestaurantService
}

func NewRestaurantHandler(svc ports.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

// Create opens a restaurant owned by the caller.
//
// @Summary      Create a restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      restaurantRequest  true  "Restaurant"
// @Success      201   {object}  domain.Restaurant
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/restaurants [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req restaurantRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	in := ports.CreateRestaurantInput{Name: req.Name}
	return respond(c, http.StatusCreated, h.svc.Create(c.Request().Context(), principal(c), in))
}

// @Summary      Get a restaurant
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  domain.Restaurant
// @Failure      404  {object}  errorResponse
// @Router       /v1/restaurants/{id} [get]
func (h *RestaurantHandler) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.svc.Get(c.Request().Context(), principal(c), c.Param("id")))
}

// Delete removes a restaurant with its staff, tables and settings.
//
// @Summary      Delete a restaurant
// @Tags         restaurants
// @Security     BearerAuth
// @Param        id   path  string  true  "Restaurant ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/restaurants/{id} [delete]
func (h *RestaurantHandler) Delete(c echo.Context) error {
	return noContent(c, h.svc.Delete(c.Request().Context(), principal(c), c.Param("id")))
}

// @Summary      Get reservation settings
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  settingsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/restaurants/{id}/settings [get]
func (h *RestaurantHandler) GetSettings(c echo.Context) error {
	out := h.svc.GetSettings(c.Request().Context(), principal(c), c.Param("id"))
	return respondWith(c, http.StatusOK, out, toSettingsResponse)
}

// UpdateSettings replaces the reservation settings of a restaurant.
//
// @Summary      Update reservation settings
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Restaurant ID"
// @Param        body  body      settingsRequest  true  "Settings"
// @Success      200   {object}  settingsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/restaurants/{id}/settings [put]
func (h *RestaurantHandler) UpdateSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	out := h.svc.UpdateSettings(c.Request().Context(), principal(c), c.Param("id"), toSettingsInput(req))
	return respondWith(c, http.StatusOK, out, toSettingsResponse)
}
