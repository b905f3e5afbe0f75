package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restobook/restaurant-api/internal/core/ports"
)

// StaffHandler serves employees and their permissions.
type StaffHandler struct {
	employees   ports.EmployeeService
	permissions ports.PermissionService
}

func NewStaffHandler(employees ports.EmployeeService, permissions ports.PermissionService) *StaffHandler {
	return &StaffHandler{employees: employees, permissions: permissions}
}

// Hire links an existing user to a restaurant.
//
// @Summary      Hire an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Restaurant ID"
// @Param        body  body      hireRequest  true  "Employee"
// @Success      201   {object}  domain.Employee
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/restaurants/{id}/employees [post]
func (h *StaffHandler) Hire(c echo.Context) error {
	var req hireRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	in := ports.HireEmployeeInput{
		RestaurantID: c.Param("id"),
		UserID:       req.UserID,
		Role:         req.Role,
		Permissions:  req.Permissions,
	}
	return respond(c, http.StatusCreated, h.employees.Hire(c.Request().Context(), principal(c), in))
}

// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {array}   domain.Employee
// @Failure      403  {object}  errorResponse
// @Router       /v1/restaurants/{id}/employees [get]
func (h *StaffHandler) ListEmployees(c echo.Context) error {
	return respond(c, http.StatusOK, h.employees.List(c.Request().Context(), principal(c), c.Param("id")))
}

// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  domain.Employee
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees/{id} [get]
func (h *StaffHandler) GetEmployee(c echo.Context) error {
	return respond(c, http.StatusOK, h.employees.Get(c.Request().Context(), principal(c), c.Param("id")))
}

// @Summary      Change an employee's role
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Employee ID"
// @Param        body  body      roleRequest  true  "Role"
// @Success      200   {object}  domain.Employee
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/employees/{id}/role [patch]
func (h *StaffHandler) UpdateRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	return respond(c, http.StatusOK, h.employees.UpdateRole(c.Request().Context(), principal(c), c.Param("id"), req.Role))
}

// SetActive suspends or reinstates an employee. Inactive employees keep
// their rows but lose every permission.
//
// @Summary      Activate or deactivate an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Employee ID"
// @Param        body  body      activeRequest  true  "Active flag"
// @Success      200   {object}  domain.Employee
// @Failure      403   {object}  errorResponse
// @Router       /v1/employees/{id}/active [patch]
func (h *StaffHandler) SetActive(c echo.Context) error {
	var req activeRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	return respond(c, http.StatusOK, h.employees.SetActive(c.Request().Context(), principal(c), c.Param("id"), req.Active))
}

// @Summary      Remove an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  string  true  "Employee ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees/{id} [delete]
func (h *StaffHandler) DeleteEmployee(c echo.Context) error {
	return noContent(c, h.employees.Delete(c.Request().Context(), principal(c), c.Param("id")))
}

// @Summary      List an employee's permissions
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {array}   domain.Permission
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees/{id}/permissions [get]
func (h *StaffHandler) ListPermissions(c echo.Context) error {
	return respond(c, http.StatusOK, h.permissions.List(c.Request().Context(), principal(c), c.Param("id")))
}

// @Summary      Grant a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Employee ID"
// @Param        body  body      permissionRequest  true  "Permission"
// @Success      201   {object}  domain.Permission
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/employees/{id}/permissions [post]
func (h *StaffHandler) Grant(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	return respond(c, http.StatusCreated, h.permissions.Grant(c.Request().Context(), principal(c), c.Param("id"), req.Type))
}

// @Summary      Revoke a permission
// @Tags         permissions
// @Security     BearerAuth
// @Param        id   path  string  true  "Permission ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/permissions/{id} [delete]
func (h *StaffHandler) Revoke(c echo.Context) error {
	return noContent(c, h.permissions.Revoke(c.Request().Context(), principal(c), c.Param("id")))
}
