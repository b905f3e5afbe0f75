package guard

import (
	"context"
	"errors"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

type (
	roleChange struct {
		ID   string
		Role domain.EmployeeRole `validate:"required,oneof=owner manager staff"`
	}
	activeChange struct {
		ID     string
		Active bool
	}
	byRestaurant struct {
		RestaurantID string
	}
	grant struct {
		EmployeeID string
		Type       domain.PermissionType `validate:"required,permission_type"`
	}
)

func hireRestaurant(in ports.HireEmployeeInput) string { return in.RestaurantID }

// Employees guards a ports.EmployeeService. Every operation authorizes
// first, so strangers learn nothing about a restaurant's staff.
type Employees struct {
	next ports.EmployeeService

	hire   *policy.Chain[ports.HireEmployeeInput]
	role   *policy.Chain[roleChange]
	active *policy.Chain[activeChange]
	delete *policy.Chain[byID]
	get    *policy.Chain[byID]
	list   *policy.Chain[byRestaurant]
}

var _ ports.EmployeeService = (*Employees)(nil)

func NewEmployees(next ports.EmployeeService, d *Deps) *Employees {
	const entity = "employees"
	manage := domain.PermManageEmployees
	target := func(id string) authz.EntityRef { return authz.Ref(authz.KindEmployee, id) }

	exists := check(func(ctx context.Context, r byID) domain.Result {
		_, err := d.Employees.GetByID(ctx, r.ID)
		return validation.Lookup(err, "employee")
	})

	return &Employees{
		next: next,

		hire: chain(d, entity, "hire",
			policy.Authorize(
				authz.RequireIn(d.Resolver, manage, hireRestaurant),
				// Permissions granted at hire pass the same gate as Grant.
				policy.When(func(in ports.HireEmployeeInput) bool { return len(in.Permissions) > 0 },
					authz.RequireIn(d.Resolver, domain.PermManagePermissions, hireRestaurant)),
			),
			policy.Validate(
				fields[ports.HireEmployeeInput](d.Validator, func(in ports.HireEmployeeInput) any { return in }),
				check(func(ctx context.Context, in ports.HireEmployeeInput) domain.Result {
					return d.restaurantExists(ctx, in.RestaurantID)
				}),
				check(func(ctx context.Context, in ports.HireEmployeeInput) domain.Result {
					if d.Users == nil {
						return domain.Done()
					}
					_, err := d.Users.FindByID(ctx, in.UserID)
					return validation.Lookup(err, "user")
				}),
				check(func(ctx context.Context, in ports.HireEmployeeInput) domain.Result {
					_, err := d.Employees.GetWithPermissions(ctx, in.UserID, in.RestaurantID)
					switch {
					case err == nil:
						return domain.Fail[domain.Unit](validation.AlreadyEmployed())
					case errors.Is(err, domain.ErrNotFound):
						return domain.Done()
					default:
						return domain.Fail[domain.Unit](domain.Unexpected(err))
					}
				}),
			),
		),

		role: chain(d, entity, "update_role",
			policy.Authorize(authz.Require(d.Resolver, manage, func(r roleChange) authz.EntityRef { return target(r.ID) })),
			policy.Validate(fields[roleChange](d.Validator, func(r roleChange) any { return r })),
		),

		active: chain(d, entity, "set_active",
			policy.Authorize(authz.Require(d.Resolver, manage, func(r activeChange) authz.EntityRef { return target(r.ID) })),
		),

		// An employee may always resign.
		delete: chain(d, entity, "delete",
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, ref(authz.KindEmployee))),
			policy.Validate(exists),
		),

		get: chain(d, entity, "get",
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, ref(authz.KindEmployee))),
			policy.Validate(exists),
		),

		list: chain(d, entity, "list",
			policy.Authorize(authz.RequireIn(d.Resolver, manage, func(r byRestaurant) string { return r.RestaurantID })),
			policy.Validate(check(func(ctx context.Context, r byRestaurant) domain.Result {
				return d.restaurantExists(ctx, r.RestaurantID)
			})),
		),
	}
}

func (g *Employees) Hire(ctx context.Context, p domain.Principal, in ports.HireEmployeeInput) domain.Outcome[*domain.Employee] {
	return policy.Run(ctx, g.hire, p, in, func(ctx context.Context) domain.Outcome[*domain.Employee] {
		return g.next.Hire(ctx, p, in)
	})
}

func (g *Employees) UpdateRole(ctx context.Context, p domain.Principal, id string, role domain.EmployeeRole) domain.Outcome[*domain.Employee] {
	return policy.Run(ctx, g.role, p, roleChange{ID: id, Role: role}, func(ctx context.Context) domain.Outcome[*domain.Employee] {
		return g.next.UpdateRole(ctx, p, id, role)
	})
}

func (g *Employees) SetActive(ctx context.Context, p domain.Principal, id string, active bool) domain.Outcome[*domain.Employee] {
	return policy.Run(ctx, g.active, p, activeChange{ID: id, Active: active}, func(ctx context.Context) domain.Outcome[*domain.Employee] {
		return g.next.SetActive(ctx, p, id, active)
	})
}

func (g *Employees) Delete(ctx context.Context, p domain.Principal, id string) domain.Result {
	return policy.Run(ctx, g.delete, p, byID{ID: id}, func(ctx context.Context) domain.Result {
		return g.next.Delete(ctx, p, id)
	})
}

func (g *Employees) Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.Employee] {
	return policy.Run(ctx, g.get, p, byID{ID: id}, func(ctx context.Context) domain.Outcome[*domain.Employee] {
		return g.next.Get(ctx, p, id)
	})
}

func (g *Employees) List(ctx context.Context, p domain.Principal, restaurantID string) domain.Outcome[[]*domain.Employee] {
	return policy.Run(ctx, g.list, p, byRestaurant{RestaurantID: restaurantID}, func(ctx context.Context) domain.Outcome[[]*domain.Employee] {
		return g.next.List(ctx, p, restaurantID)
	})
}

// Permissions guards a ports.PermissionService.
type Permissions struct {
	next ports.PermissionService

	grant  *policy.Chain[grant]
	revoke *policy.Chain[byID]
	list   *policy.Chain[byID]
}

var _ ports.PermissionService = (*Permissions)(nil)

func NewPermissions(next ports.PermissionService, d *Deps) *Permissions {
	const entity = "permissions"
	manage := domain.PermManagePermissions

	return &Permissions{
		next: next,

		grant: chain(d, entity, "grant",
			policy.Authorize(authz.Require(d.Resolver, manage, func(r grant) authz.EntityRef {
				return authz.Ref(authz.KindEmployee, r.EmployeeID)
			})),
			policy.Validate(
				fields[grant](d.Validator, func(r grant) any { return r }),
				check(func(ctx context.Context, r grant) domain.Result {
					_, err := d.Employees.GetByID(ctx, r.EmployeeID)
					return validation.Lookup(err, "employee")
				}),
				check(func(ctx context.Context, r grant) domain.Result {
					held, err := d.Permissions.Exists(ctx, r.EmployeeID, r.Type)
					if err != nil {
						return domain.Fail[domain.Unit](domain.Unexpected(err))
					}
					if held {
						return domain.Fail[domain.Unit](validation.DuplicatePermission(r.Type))
					}
					return domain.Done()
				}),
			),
		),

		revoke: chain(d, entity, "revoke",
			policy.Authorize(authz.Require(d.Resolver, manage, ref(authz.KindPermission))),
			policy.Validate(check(func(ctx context.Context, r byID) domain.Result {
				_, err := d.Permissions.GetByID(ctx, r.ID)
				return validation.Lookup(err, "permission")
			})),
		),

		// Employees may read their own permissions.
		list: chain(d, entity, "list",
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, ref(authz.KindEmployee))),
		),
	}
}

func (g *Permissions) Grant(ctx context.Context, p domain.Principal, employeeID string, perm domain.PermissionType) domain.Outcome[*domain.Permission] {
	return policy.Run(ctx, g.grant, p, grant{EmployeeID: employeeID, Type: perm}, func(ctx context.Context) domain.Outcome[*domain.Permission] {
		return g.next.Grant(ctx, p, employeeID, perm)
	})
}

func (g *Permissions) Revoke(ctx context.Context, p domain.Principal, id string) domain.Result {
	return policy.Run(ctx, g.revoke, p, byID{ID: id}, func(ctx context.Context) domain.Result {
		return g.next.Revoke(ctx, p, id)
	})
}

func (g *Permissions) List(ctx context.Context, p domain.Principal, employeeID string) domain.Outcome[[]*domain.Permission] {
	return policy.Run(ctx, g.list, p, byID{ID: employeeID}, func(ctx context.Context) domain.Outcome[[]*domain.Permission] {
		return g.next.List(ctx, p, employeeID)
	})
}
