package guard

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

type updateReservation struct {
	ID string
	In ports.UpdateReservationInput
}

// Reservations guards a ports.ReservationService.
type Reservations struct {
	next ports.ReservationService

	create *policy.Chain[ports.CreateReservationInput]
	update *policy.Chain[updateReservation]
	delete *policy.Chain[byID]
	status *policy.Chain[statusChange]
	cancel *policy.Chain[userCancel]
	get    *policy.Chain[byID]
	list   *policy.Chain[ports.ListReservationsInput]
	mine   *policy.Chain[page]
}

var _ ports.ReservationService = (*Reservations)(nil)

func NewReservations(next ports.ReservationService, d *Deps) *Reservations {
	const entity = domain.EntityReservation
	manage := domain.PermManageReservations
	target := func(id string) authz.EntityRef { return authz.Ref(authz.KindReservation, id) }

	load := func(ctx context.Context, id string) (*domain.Reservation, domain.Result) {
		r, err := d.Reservations.GetByID(ctx, id)
		if res := validation.Lookup(err, "reservation"); !res.IsOk() {
			return nil, res
		}
		return r, domain.Done()
	}
	exists := check(func(ctx context.Context, r byID) domain.Result {
		_, res := load(ctx, r.ID)
		return res
	})

	return &Reservations{
		next: next,

		create: chain(d, entity, "create",
			policy.Validate(
				fields[ports.CreateReservationInput](d.Validator, func(in ports.CreateReservationInput) any { return in }),
				check(func(_ context.Context, in ports.CreateReservationInput) domain.Result { return timeRange(in.BookingInput) }),
				check(func(ctx context.Context, in ports.CreateReservationInput) domain.Result {
					return d.restaurantExists(ctx, in.RestaurantID)
				}),
				check(func(ctx context.Context, in ports.CreateReservationInput) domain.Result {
					return d.fitsRestaurant(ctx, in.RestaurantID, in.BookingInput)
				}),
			),
			policy.Authorize(authz.EmailVerified[ports.CreateReservationInput]()),
		),

		update: chain(d, entity, "update",
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, func(r updateReservation) authz.EntityRef { return target(r.ID) })),
			policy.Validate(
				fields[updateReservation](d.Validator, func(r updateReservation) any { return r.In }),
				check(func(_ context.Context, r updateReservation) domain.Result { return timeRange(r.In.BookingInput) }),
				check(func(ctx context.Context, r updateReservation) domain.Result {
					stored, res := load(ctx, r.ID)
					if !res.IsOk() {
						return res
					}
					if res := validation.Editable(stored.Status); !res.IsOk() {
						return res
					}
					return d.fitsRestaurant(ctx, stored.RestaurantID, r.In.BookingInput)
				}),
			),
		),

		delete: chain(d, entity, "delete",
			policy.Authorize(authz.Require(d.Resolver, manage, ref(authz.KindReservation))),
			policy.Validate(exists),
		),

		status: chain(d, entity, "update_status",
			policy.Validate(check(func(ctx context.Context, r statusChange) domain.Result {
				stored, res := load(ctx, r.ID)
				if !res.IsOk() {
					return res
				}
				return transition(stored.Status, r.Status)
			})),
			policy.Authorize(authz.Require(d.Resolver, manage, func(r statusChange) authz.EntityRef { return target(r.ID) })),
		),

		cancel: chain(d, entity, "cancel",
			policy.Authorize(
				authz.ActingAs(func(r userCancel) string { return r.UserID }),
				authz.Self(d.Resolver, func(r userCancel) authz.EntityRef { return target(r.ID) }),
			),
			policy.Validate(check(func(ctx context.Context, r userCancel) domain.Result {
				stored, res := load(ctx, r.ID)
				if !res.IsOk() {
					return res
				}
				return d.cancellable(ctx, stored.Booking)
			})),
		),

		get: chain(d, entity, "get",
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, ref(authz.KindReservation))),
			policy.Validate(exists),
		),

		list: chain(d, entity, "list",
			policy.Validate(fields[ports.ListReservationsInput](d.Validator, func(in ports.ListReservationsInput) any { return in })),
			policy.Authorize(authz.RequireIn(d.Resolver, manage, func(in ports.ListReservationsInput) string { return in.RestaurantID })),
		),

		mine: chain(d, entity, "list_mine",
			policy.Authorize(authz.Authenticated[page]()),
		),
	}
}

func (g *Reservations) Create(ctx context.Context, p domain.Principal, in ports.CreateReservationInput) domain.Outcome[*domain.Reservation] {
	return policy.Run(ctx, g.create, p, in, func(ctx context.Context) domain.Outcome[*domain.Reservation] {
		return g.next.Create(ctx, p, in)
	})
}

func (g *Reservations) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateReservationInput) domain.Outcome[*domain.Reservation] {
	return policy.Run(ctx, g.update, p, updateReservation{ID: id, In: in}, func(ctx context.Context) domain.Outcome[*domain.Reservation] {
		return g.next.Update(ctx, p, id, in)
	})
}

func (g *Reservations) Delete(ctx context.Context, p domain.Principal, id string) domain.Result {
	return policy.Run(ctx, g.delete, p, byID{ID: id}, func(ctx context.Context) domain.Result {
		return g.next.Delete(ctx, p, id)
	})
}

func (g *Reservations) UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.ReservationStatus) domain.Outcome[*domain.Reservation] {
	return policy.Run(ctx, g.status, p, statusChange{ID: id, Status: status}, func(ctx context.Context) domain.Outcome[*domain.Reservation] {
		return g.next.UpdateStatus(ctx, p, id, status)
	})
}

func (g *Reservations) CancelAsUser(ctx context.Context, p domain.Principal, userID, id string) domain.Outcome[*domain.Reservation] {
	return policy.Run(ctx, g.cancel, p, userCancel{UserID: userID, ID: id}, func(ctx context.Context) domain.Outcome[*domain.Reservation] {
		return g.next.CancelAsUser(ctx, p, userID, id)
	})
}

func (g *Reservations) Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.Reservation] {
	return policy.Run(ctx, g.get, p, byID{ID: id}, func(ctx context.Context) domain.Outcome[*domain.Reservation] {
		return g.next.Get(ctx, p, id)
	})
}

func (g *Reservations) List(ctx context.Context, p domain.Principal, in ports.ListReservationsInput) domain.Outcome[ports.Page[*domain.Reservation]] {
	return policy.Run(ctx, g.list, p, in, func(ctx context.Context) domain.Outcome[ports.Page[*domain.Reservation]] {
		return g.next.List(ctx, p, in)
	})
}

func (g *Reservations) ListMine(ctx context.Context, p domain.Principal, pg, limit int) domain.Outcome[ports.Page[*domain.Reservation]] {
	return policy.Run(ctx, g.mine, p, page{Page: pg, Limit: limit}, func(ctx context.Context) domain.Outcome[ports.Page[*domain.Reservation]] {
		return g.next.ListMine(ctx, p, pg, limit)
	})
}
