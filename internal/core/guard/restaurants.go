package guard

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

type updateSettings struct {
	ID string
	In ports.UpdateSettingsInput
}

// Restaurants guards a ports.RestaurantService.
type Restaurants struct {
	next ports.RestaurantService

	create   *policy.Chain[ports.CreateRestaurantInput]
	get      *policy.Chain[byID]
	delete   *policy.Chain[byID]
	settings *policy.Chain[byID]
	update   *policy.Chain[updateSettings]
}

var _ ports.RestaurantService = (*Restaurants)(nil)

func NewRestaurants(next ports.RestaurantService, d *Deps) *Restaurants {
	const entity = "restaurants"

	exists := check(func(ctx context.Context, r byID) domain.Result {
		return d.restaurantExists(ctx, r.ID)
	})

	return &Restaurants{
		next: next,

		create: chain(d, entity, "create",
			policy.Authorize(authz.Authenticated[ports.CreateRestaurantInput]()),
			policy.Validate(fields[ports.CreateRestaurantInput](d.Validator, func(in ports.CreateRestaurantInput) any { return in })),
		),

		get: chain(d, entity, "get",
			policy.Authorize(authz.Authenticated[byID]()),
			policy.Validate(exists),
		),

		delete: chain(d, entity, "delete",
			policy.Authorize(authz.Require(d.Resolver, domain.PermManageRestaurant, ref(authz.KindRestaurant))),
			policy.Validate(exists),
		),

		settings: chain(d, entity, "get_settings",
			policy.Authorize(authz.Authenticated[byID]()),
			policy.Validate(exists),
		),

		update: chain(d, entity, "update_settings",
			policy.Authorize(authz.RequireIn(d.Resolver, domain.PermManageRestaurantSettings, func(r updateSettings) string { return r.ID })),
			policy.Validate(
				fields[updateSettings](d.Validator, func(r updateSettings) any { return r.In }),
				check(func(ctx context.Context, r updateSettings) domain.Result {
					return d.restaurantExists(ctx, r.ID)
				}),
			),
		),
	}
}

func (g *Restaurants) Create(ctx context.Context, p domain.Principal, in ports.CreateRestaurantInput) domain.Outcome[*domain.Restaurant] {
	return policy.Run(ctx, g.create, p, in, func(ctx context.Context) domain.Outcome[*domain.Restaurant] {
		return g.next.Create(ctx, p, in)
	})
}

func (g *Restaurants) Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.Restaurant] {
	return policy.Run(ctx, g.get, p, byID{ID: id}, func(ctx context.Context) domain.Outcome[*domain.Restaurant] {
		return g.next.Get(ctx, p, id)
	})
}

func (g *Restaurants) Delete(ctx context.Context, p domain.Principal, id string) domain.Result {
	return policy.Run(ctx, g.delete, p, byID{ID: id}, func(ctx context.Context) domain.Result {
		return g.next.Delete(ctx, p, id)
	})
}

func (g *Restaurants) GetSettings(ctx context.Context, p domain.Principal, id string) domain.Outcome[domain.ReservationSettings] {
	return policy.Run(ctx, g.settings, p, byID{ID: id}, func(ctx context.Context) domain.Outcome[domain.ReservationSettings] {
		return g.next.GetSettings(ctx, p, id)
	})
}

func (g *Restaurants) UpdateSettings(ctx context.Context, p domain.Principal, id string, in ports.UpdateSettingsInput) domain.Outcome[domain.ReservationSettings] {
	return policy.Run(ctx, g.update, p, updateSettings{ID: id, In: in}, func(ctx context.Context) domain.Outcome[domain.ReservationSettings] {
		return g.next.UpdateSettings(ctx, p, id, in)
	})
}
