package domain

import "time"

// EmployeeRole is the job role of an employee. Authority comes from
// permissions, not from the role.
type EmployeeRole string

const (
	EmployeeRoleOwner   EmployeeRole = "owner"
	EmployeeRoleManager EmployeeRole = "manager"
	EmployeeRoleStaff   EmployeeRole = "staff"
)

func (r EmployeeRole) Valid() bool {
	switch r {
	case EmployeeRoleOwner, EmployeeRoleManager, EmployeeRoleStaff:
		return true
	}
	return false
}

// PermissionType is a restaurant-scoped capability.
type PermissionType string

const (
	PermManageRestaurant         PermissionType = "manage_restaurant"
	PermManageReservations       PermissionType = "manage_reservations"
	PermManageTables             PermissionType = "manage_tables"
	PermManageMenu               PermissionType = "manage_menu"
	PermManageEmployees          PermissionType = "manage_employees"
	PermManagePermissions        PermissionType = "manage_permissions"
	PermManageRestaurantSettings PermissionType = "manage_restaurant_settings"
)

// AllPermissions lists the closed set of permission types.
var AllPermissions = []PermissionType{
	PermManageRestaurant,
	PermManageReservations,
	PermManageTables,
	PermManageMenu,
	PermManageEmployees,
	PermManagePermissions,
	PermManageRestaurantSettings,
}

func (p PermissionType) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// Employee links a user to exactly one restaurant.
type Employee struct {
	ID           string       `json:"id" bson:"_id"`
	RestaurantID string       `json:"restaurant_id" bson:"restaurant_id"`
	UserID       string       `json:"user_id" bson:"user_id"`
	Role         EmployeeRole `json:"role" bson:"role"`
	IsActive     bool         `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`

	// Permissions is populated by lookups that join permission rows.
	Permissions []Permission `json:"permissions,omitempty" bson:"-"`
}

// Permission is one (employee, permission type) row.
type Permission struct {
	ID         string         `json:"id" bson:"_id"`
	EmployeeID string         `json:"employee_id" bson:"employee_id"`
	Type       PermissionType `json:"type" bson:"type"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// Holds reports whether the employee effectively holds perm. An inactive
// employee holds nothing, whatever rows are stored.
func (e *Employee) Holds(perm PermissionType) bool {
	if e == nil || !e.IsActive {
		return false
	}
	for _, p := range e.Permissions {
		if p.Type == perm {
			return true
		}
	}
	return false
}
