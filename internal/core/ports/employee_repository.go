package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// EmployeeRepository persists employees.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	// Delete removes the employee and its permission rows.
	Delete(ctx context.Context, id string) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Employee, error)
	// GetWithPermissions returns the user's employee record at restaurantID
	// with Permissions populated, or domain.ErrNotFound.
	GetWithPermissions(ctx context.Context, userID, restaurantID string) (*domain.Employee, error)
}

// PermissionRepository persists (employee, permission type) rows.
type PermissionRepository interface {
	// Create returns domain.ErrDuplicate when the pair already exists.
	Create(ctx context.Context, p *domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	Exists(ctx context.Context, employeeID string, perm domain.PermissionType) (bool, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Permission, error)
}
