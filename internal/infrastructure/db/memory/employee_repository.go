package memory

import (
	"context"
	"sort"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// EmployeeRepository is the in-memory ports.EmployeeRepository.
type EmployeeRepository struct{ s *Store }

func (r *EmployeeRepository) Create(_ context.Context, e *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.employees[e.ID]; exists {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.employees {
		if other.RestaurantID == e.RestaurantID && other.UserID == e.UserID {
			return domain.ErrDuplicate
		}
	}
	stored := *e
	stored.Permissions = nil
	r.s.employees[e.ID] = stored
	return nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(_ context.Context, e *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[e.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *e
	stored.Permissions = nil
	r.s.employees[e.ID] = stored
	return nil
}

func (r *EmployeeRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteEmployeeLocked(id)
	return nil
}

func (s *Store) deleteEmployeeLocked(id string) {
	delete(s.employees, id)
	for pid, p := range s.permissions {
		if p.EmployeeID == id {
			delete(s.permissions, pid)
		}
	}
}

func (r *EmployeeRepository) ListByRestaurant(_ context.Context, restaurantID string) ([]*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Employee, 0)
	for _, e := range r.s.employees {
		if e.RestaurantID != restaurantID {
			continue
		}
		e.Permissions = r.s.permissionsOfLocked(e.ID)
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *EmployeeRepository) GetWithPermissions(_ context.Context, userID, restaurantID string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.employees {
		if e.UserID == userID && e.RestaurantID == restaurantID {
			e.Permissions = r.s.permissionsOfLocked(e.ID)
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) permissionsOfLocked(employeeID string) []domain.Permission {
	var out []domain.Permission
	for _, p := range s.permissions {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// PermissionRepository is the in-memory ports.PermissionRepository.
type PermissionRepository struct{ s *Store }

// Create enforces uniqueness of (employee, type) the way the mongo unique
// index does.
func (r *PermissionRepository) Create(_ context.Context, p *domain.Permission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.permissions[p.ID]; exists {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.permissions {
		if other.EmployeeID == p.EmployeeID && other.Type == p.Type {
			return domain.ErrDuplicate
		}
	}
	r.s.permissions[p.ID] = *p
	return nil
}

func (r *PermissionRepository) GetByID(_ context.Context, id string) (*domain.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.permissions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *PermissionRepository) Exists(_ context.Context, employeeID string, perm domain.PermissionType) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.permissions {
		if p.EmployeeID == employeeID && p.Type == perm {
			return true, nil
		}
	}
	return false, nil
}

func (r *PermissionRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.permissions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.permissions, id)
	return nil
}

func (r *PermissionRepository) ListByEmployee(_ context.Context, employeeID string) ([]*domain.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.permissionsOfLocked(employeeID)
	out := make([]*domain.Permission, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

var (
	_ ports.EmployeeRepository   = (*EmployeeRepository)(nil)
	_ ports.PermissionRepository = (*PermissionRepository)(nil)
)
