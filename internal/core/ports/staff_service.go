package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// HireEmployeeInput links a user to a restaurant.
type HireEmployeeInput struct {
	RestaurantID string                  `validate:"required"`
	UserID       string                  `validate:"required"`
	Role         domain.EmployeeRole     `validate:"required,oneof=owner manager staff"`
	Permissions  []domain.PermissionType `validate:"dive,permission_type"`
}

// EmployeeService administers restaurant employees.
type EmployeeService interface {
	Hire(ctx context.Context, p domain.Principal, in HireEmployeeInput) domain.Outcome[*domain.Employee]
	UpdateRole(ctx context.Context, p domain.Principal, id string, role domain.EmployeeRole) domain.Outcome[*domain.Employee]
	SetActive(ctx context.Context, p domain.Principal, id string, active bool) domain.Outcome[*domain.Employee]
	Delete(ctx context.Context, p domain.Principal, id string) domain.Result
	Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.Employee]
	List(ctx context.Context, p domain.Principal, restaurantID string) domain.Outcome[[]*domain.Employee]
}

// PermissionService administers employee permission rows.
type PermissionService interface {
	Grant(ctx context.Context, p domain.Principal, employeeID string, perm domain.PermissionType) domain.Outcome[*domain.Permission]
	Revoke(ctx context.Context, p domain.Principal, id string) domain.Result
	List(ctx context.Context, p domain.Principal, employeeID string) domain.Outcome[[]*domain.Permission]
}
