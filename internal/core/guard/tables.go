package guard

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

type updateTable struct {
	ID string
	In ports.UpdateTableInput
}

// Tables guards a ports.TableService.
type Tables struct {
	next ports.TableService

	create *policy.Chain[ports.CreateTableInput]
	update *policy.Chain[updateTable]
	delete *policy.Chain[byID]
	list   *policy.Chain[byRestaurant]
}

var _ ports.TableService = (*Tables)(nil)

func NewTables(next ports.TableService, d *Deps) *Tables {
	const entity = "tables"
	manage := domain.PermManageTables

	numberFree := func(ctx context.Context, restaurantID string, number int, excludeID string) domain.Result {
		taken, err := d.Tables.NumberTaken(ctx, restaurantID, number, excludeID)
		if err != nil {
			return domain.Fail[domain.Unit](domain.Unexpected(err))
		}
		if taken {
			return domain.Fail[domain.Unit](validation.DuplicateTableNumber(number))
		}
		return domain.Done()
	}

	return &Tables{
		next: next,

		create: chain(d, entity, "create",
			policy.Authorize(authz.RequireIn(d.Resolver, manage, func(in ports.CreateTableInput) string { return in.RestaurantID })),
			policy.Validate(
				fields[ports.CreateTableInput](d.Validator, func(in ports.CreateTableInput) any { return in }),
				check(func(ctx context.Context, in ports.CreateTableInput) domain.Result {
					return d.restaurantExists(ctx, in.RestaurantID)
				}),
				check(func(ctx context.Context, in ports.CreateTableInput) domain.Result {
					return numberFree(ctx, in.RestaurantID, in.Number, "")
				}),
			),
		),

		update: chain(d, entity, "update",
			policy.Authorize(authz.Require(d.Resolver, manage, func(r updateTable) authz.EntityRef {
				return authz.Ref(authz.KindTable, r.ID)
			})),
			policy.Validate(
				fields[updateTable](d.Validator, func(r updateTable) any { return r.In }),
				check(func(ctx context.Context, r updateTable) domain.Result {
					t, err := d.Tables.GetByID(ctx, r.ID)
					if res := validation.Lookup(err, "table"); !res.IsOk() {
						return res
					}
					return numberFree(ctx, t.RestaurantID, r.In.Number, r.ID)
				}),
			),
		),

		delete: chain(d, entity, "delete",
			policy.Authorize(authz.Require(d.Resolver, manage, ref(authz.KindTable))),
			policy.Validate(check(func(ctx context.Context, r byID) domain.Result {
				_, err := d.Tables.GetByID(ctx, r.ID)
				return validation.Lookup(err, "table")
			})),
		),

		// Any signed-in user may browse a restaurant's tables to book one.
		list: chain(d, entity, "list",
			policy.Authorize(authz.Authenticated[byRestaurant]()),
			policy.Validate(check(func(ctx context.Context, r byRestaurant) domain.Result {
				return d.restaurantExists(ctx, r.RestaurantID)
			})),
		),
	}
}

func (g *Tables) Create(ctx context.Context, p domain.Principal, in ports.CreateTableInput) domain.Outcome[*domain.Table] {
	return policy.Run(ctx, g.create, p, in, func(ctx context.Context) domain.Outcome[*domain.Table] {
		return g.next.Create(ctx, p, in)
	})
}

func (g *Tables) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateTableInput) domain.Outcome[*domain.Table] {
	return policy.Run(ctx, g.update, p, updateTable{ID: id, In: in}, func(ctx context.Context) domain.Outcome[*domain.Table] {
		return g.next.Update(ctx, p, id, in)
	})
}

func (g *Tables) Delete(ctx context.Context, p domain.Principal, id string) domain.Result {
	return policy.Run(ctx, g.delete, p, byID{ID: id}, func(ctx context.Context) domain.Result {
		return g.next.Delete(ctx, p, id)
	})
}

func (g *Tables) List(ctx context.Context, p domain.Principal, restaurantID string) domain.Outcome[[]*domain.Table] {
	return policy.Run(ctx, g.list, p, byRestaurant{RestaurantID: restaurantID}, func(ctx context.Context) domain.Outcome[[]*domain.Table] {
		return g.next.List(ctx, p, restaurantID)
	})
}
