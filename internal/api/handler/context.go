package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/api/middleware"
	"github.com/restobook/restaurant-api/internal/core/domain"
)

// principal returns the caller injected by the Auth middleware, or
// domain.Anonymous when the route is not authenticated.
func principal(c echo.Context) domain.Principal {
	p, _ := c.Get(middleware.PrincipalKey).(domain.Principal)
	return p
}

// respond renders a successful Outcome with code, or hands its Problem to
// the central error handler.
func respond[T any](c echo.Context, code int, o domain.Outcome[T]) error {
	if !o.IsOk() {
		return o.Problem()
	}
	return c.JSON(code, o.Value())
}

// respondWith renders the mapped payload of a successful Outcome.
func respondWith[T, R any](c echo.Context, code int, o domain.Outcome[T], mapFn func(T) R) error {
	return respond(c, code, domain.Map(o, mapFn))
}

func noContent(c echo.Context, r domain.Result) error {
	if !r.IsOk() {
		return r.Problem()
	}
	return c.NoContent(http.StatusNoContent)
}

func bindError() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
}
