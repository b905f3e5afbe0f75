package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// EmployeeService performs employee writes.
type EmployeeService struct {
	employees   ports.EmployeeRepository
	permissions ports.PermissionRepository
	log         zerolog.Logger
}

func NewEmployeeService(employees ports.EmployeeRepository, permissions ports.PermissionRepository, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{employees: employees, permissions: permissions, log: log}
}

var _ ports.EmployeeService = (*EmployeeService)(nil)

// Hire creates an active employee with the requested permissions.
func (s *EmployeeService) Hire(ctx context.Context, _ domain.Principal, in ports.HireEmployeeInput) domain.Outcome[*domain.Employee] {
	now := time.Now().UTC()
	e := &domain.Employee{
		ID:           newID(),
		RestaurantID: in.RestaurantID,
		UserID:       in.UserID,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.employees.Create(ctx, e); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Fail[*domain.Employee](validation.AlreadyEmployed())
		}
		return domain.Fail[*domain.Employee](domain.Unexpected(err))
	}

	granted, err := s.grantAll(ctx, e.ID, in.Permissions, now)
	if err != nil {
		return domain.Fail[*domain.Employee](domain.Unexpected(err))
	}
	e.Permissions = granted

	s.log.Info().Str("employee_id", e.ID).Str("restaurant_id", e.RestaurantID).Str("role", string(e.Role)).Msg("employee hired")
	return domain.Ok(e)
}

// grantAll stores one row per distinct permission type.
func (s *EmployeeService) grantAll(ctx context.Context, employeeID string, perms []domain.PermissionType, now time.Time) ([]domain.Permission, error) {
	seen := make(map[domain.PermissionType]bool, len(perms))
	out := make([]domain.Permission, 0, len(perms))
	for _, perm := range perms {
		if seen[perm] {
			continue
		}
		seen[perm] = true
		row := domain.Permission{ID: newID(), EmployeeID: employeeID, Type: perm, CreatedAt: now}
		if err := s.permissions.Create(ctx, &row); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *EmployeeService) UpdateRole(ctx context.Context, _ domain.Principal, id string, role domain.EmployeeRole) domain.Outcome[*domain.Employee] {
	return s.modify(ctx, id, func(e *domain.Employee) { e.Role = role })
}

// SetActive activates or deactivates an employee. Permission rows are kept;
// an inactive employee simply holds none of them.
func (s *EmployeeService) SetActive(ctx context.Context, _ domain.Principal, id string, active bool) domain.Outcome[*domain.Employee] {
	return s.modify(ctx, id, func(e *domain.Employee) { e.IsActive = active })
}

func (s *EmployeeService) modify(ctx context.Context, id string, change func(*domain.Employee)) domain.Outcome[*domain.Employee] {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Employee](err, "employee")
	}
	change(e)
	e.UpdatedAt = time.Now().UTC()
	if err := s.employees.Update(ctx, e); err != nil {
		return fail[*domain.Employee](err, "employee")
	}
	s.log.Info().Str("employee_id", e.ID).Str("role", string(e.Role)).Bool("active", e.IsActive).Msg("employee updated")
	return domain.Ok(e)
}

func (s *EmployeeService) Delete(ctx context.Context, _ domain.Principal, id string) domain.Result {
	if err := s.employees.Delete(ctx, id); err != nil {
		return fail[domain.Unit](err, "employee")
	}
	s.log.Info().Str("employee_id", id).Msg("employee deleted")
	return domain.Done()
}

func (s *EmployeeService) Get(ctx context.Context, _ domain.Principal, id string) domain.Outcome[*domain.Employee] {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Employee](err, "employee")
	}
	rows, err := s.permissions.ListByEmployee(ctx, id)
	if err != nil {
		return domain.Fail[*domain.Employee](domain.Unexpected(err))
	}
	e.Permissions = make([]domain.Permission, len(rows))
	for i, row := range rows {
		e.Permissions[i] = *row
	}
	return domain.Ok(e)
}

func (s *EmployeeService) List(ctx context.Context, _ domain.Principal, restaurantID string) domain.Outcome[[]*domain.Employee] {
	list, err := s.employees.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return domain.Fail[[]*domain.Employee](domain.Unexpected(err))
	}
	return domain.Ok(list)
}

// PermissionService performs permission row writes.
type PermissionService struct {
	permissions ports.PermissionRepository
	log         zerolog.Logger
}

func NewPermissionService(permissions ports.PermissionRepository, log zerolog.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, log: log}
}

var _ ports.PermissionService = (*PermissionService)(nil)

// Grant stores a new (employee, type) row. The store's uniqueness
// constraint is the final word on duplicates.
func (s *PermissionService) Grant(ctx context.Context, _ domain.Principal, employeeID string, perm domain.PermissionType) domain.Outcome[*domain.Permission] {
	row := &domain.Permission{ID: newID(), EmployeeID: employeeID, Type: perm, CreatedAt: time.Now().UTC()}
	if err := s.permissions.Create(ctx, row); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Fail[*domain.Permission](validation.DuplicatePermission(perm))
		}
		return domain.Fail[*domain.Permission](domain.Unexpected(err))
	}
	s.log.Info().Str("employee_id", employeeID).Str("permission", string(perm)).Msg("permission granted")
	return domain.Ok(row)
}

func (s *PermissionService) Revoke(ctx context.Context, _ domain.Principal, id string) domain.Result {
	if err := s.permissions.Delete(ctx, id); err != nil {
		return fail[domain.Unit](err, "permission")
	}
	s.log.Info().Str("permission_id", id).Msg("permission revoked")
	return domain.Done()
}

func (s *PermissionService) List(ctx context.Context, _ domain.Principal, employeeID string) domain.Outcome[[]*domain.Permission] {
	rows, err := s.permissions.ListByEmployee(ctx, employeeID)
	if err != nil {
		return domain.Fail[[]*domain.Permission](domain.Unexpected(err))
	}
	return domain.Ok(rows)
}
