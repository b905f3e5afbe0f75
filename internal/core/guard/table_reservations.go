package guard

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

type updateTableReservation struct {
	ID string
	In ports.UpdateTableReservationInput
}

// TableReservations guards a ports.TableReservationService.
type TableReservations struct {
	next ports.TableReservationService

	create *policy.Chain[ports.CreateTableReservationInput]
	update *policy.Chain[updateTableReservation]
	delete *policy.Chain[byID]
	status *policy.Chain[statusChange]
	cancel *policy.Chain[userCancel]
	get    *policy.Chain[byID]
	list   *policy.Chain[ports.ListReservationsInput]
	mine   *policy.Chain[page]
}

var _ ports.TableReservationService = (*TableReservations)(nil)

func NewTableReservations(next ports.TableReservationService, d *Deps) *TableReservations {
	const entity = domain.EntityTableReservation
	manage := domain.PermManageReservations
	target := func(id string) authz.EntityRef { return authz.Ref(authz.KindTableReservation, id) }

	load := func(ctx context.Context, id string) (*domain.TableReservation, domain.Result) {
		r, err := d.TableReservations.GetByID(ctx, id)
		if res := validation.Lookup(err, "table reservation"); !res.IsOk() {
			return nil, res
		}
		return r, domain.Done()
	}
	loadTable := func(ctx context.Context, id string) (*domain.Table, domain.Result) {
		t, err := d.Tables.GetByID(ctx, id)
		if res := validation.Lookup(err, "table"); !res.IsOk() {
			return nil, res
		}
		return t, domain.Done()
	}
	exists := check(func(ctx context.Context, r byID) domain.Result {
		_, res := load(ctx, r.ID)
		return res
	})

	return &TableReservations{
		next: next,

		create: chain(d, entity, "create",
			policy.Validate(
				fields[ports.CreateTableReservationInput](d.Validator, func(in ports.CreateTableReservationInput) any { return in }),
				check(func(_ context.Context, in ports.CreateTableReservationInput) domain.Result { return timeRange(in.BookingInput) }),
				check(func(ctx context.Context, in ports.CreateTableReservationInput) domain.Result {
					table, res := loadTable(ctx, in.TableID)
					if !res.IsOk() {
						return res
					}
					if res := fitsTable(table, in.Guests); !res.IsOk() {
						return res
					}
					return d.fitsRestaurant(ctx, table.RestaurantID, in.BookingInput)
				}),
				check(func(ctx context.Context, in ports.CreateTableReservationInput) domain.Result {
					return d.slotFree(ctx, in.TableID, in.BookingInput, "")
				}),
			),
			policy.Authorize(authz.EmailVerified[ports.CreateTableReservationInput]()),
		),

		update: chain(d, entity, "update",
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, func(r updateTableReservation) authz.EntityRef { return target(r.ID) })),
			policy.Validate(
				fields[updateTableReservation](d.Validator, func(r updateTableReservation) any { return r.In }),
				check(func(_ context.Context, r updateTableReservation) domain.Result { return timeRange(r.In.BookingInput) }),
				check(func(ctx context.Context, r updateTableReservation) domain.Result {
					stored, res := load(ctx, r.ID)
					if !res.IsOk() {
						return res
					}
					if res := validation.Editable(stored.Status); !res.IsOk() {
						return res
					}
					table, res := loadTable(ctx, r.In.TableID)
					if !res.IsOk() {
						return res
					}
					if table.RestaurantID != stored.RestaurantID {
						return domain.Fail[domain.Unit](domain.ValidationError("a reservation cannot move to another restaurant's table"))
					}
					if res := fitsTable(table, r.In.Guests); !res.IsOk() {
						return res
					}
					if res := d.fitsRestaurant(ctx, stored.RestaurantID, r.In.BookingInput); !res.IsOk() {
						return res
					}
					// Only a changed slot can collide; the stored one is already ours.
					iv := domain.Interval{Start: r.In.Start, End: r.In.End}
					if stored.SameSlot(r.In.TableID, r.In.Date, iv) {
						return domain.Done()
					}
					return d.slotFree(ctx, r.In.TableID, r.In.BookingInput, r.ID)
				}),
			),
		),

		delete: chain(d, entity, "delete",
			policy.Authorize(authz.Require(d.Resolver, manage, ref(authz.KindTableReservation))),
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
			policy.Authorize(authz.SelfOrRequire(d.Resolver, manage, ref(authz.KindTableReservation))),
			policy.Validate(exists),
		),

		list: chain(d, entity, "list",
			policy.Validate(
				fields[ports.ListReservationsInput](d.Validator, func(in ports.ListReservationsInput) any { return in }),
				check(func(ctx context.Context, in ports.ListReservationsInput) domain.Result {
					if in.TableID == "" {
						return domain.Done()
					}
					table, res := loadTable(ctx, in.TableID)
					if !res.IsOk() {
						return res
					}
					if table.RestaurantID != in.RestaurantID {
						return domain.Fail[domain.Unit](domain.NotFound("table not found"))
					}
					return domain.Done()
				}),
			),
			policy.Authorize(authz.RequireIn(d.Resolver, manage, func(in ports.ListReservationsInput) string { return in.RestaurantID })),
		),

		mine: chain(d, entity, "list_mine",
			policy.Authorize(authz.Authenticated[page]()),
		),
	}
}

func (g *TableReservations) Create(ctx context.Context, p domain.Principal, in ports.CreateTableReservationInput) domain.Outcome[*domain.TableReservation] {
	return policy.Run(ctx, g.create, p, in, func(ctx context.Context) domain.Outcome[*domain.TableReservation] {
		return g.next.Create(ctx, p, in)
	})
}

func (g *TableReservations) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateTableReservationInput) domain.Outcome[*domain.TableReservation] {
	return policy.Run(ctx, g.update, p, updateTableReservation{ID: id, In: in}, func(ctx context.Context) domain.Outcome[*domain.TableReservation] {
		return g.next.Update(ctx, p, id, in)
	})
}

func (g *TableReservations) Delete(ctx context.Context, p domain.Principal, id string) domain.Result {
	return policy.Run(ctx, g.delete, p, byID{ID: id}, func(ctx context.Context) domain.Result {
		return g.next.Delete(ctx, p, id)
	})
}

func (g *TableReservations) UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.ReservationStatus) domain.Outcome[*domain.TableReservation] {
	return policy.Run(ctx, g.status, p, statusChange{ID: id, Status: status}, func(ctx context.Context) domain.Outcome[*domain.TableReservation] {
		return g.next.UpdateStatus(ctx, p, id, status)
	})
}

func (g *TableReservations) CancelAsUser(ctx context.Context, p domain.Principal, userID, id string) domain.Outcome[*domain.TableReservation] {
	return policy.Run(ctx, g.cancel, p, userCancel{UserID: userID, ID: id}, func(ctx context.Context) domain.Outcome[*domain.TableReservation] {
		return g.next.CancelAsUser(ctx, p, userID, id)
	})
}

func (g *TableReservations) Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.TableReservation] {
	return policy.Run(ctx, g.get, p, byID{ID: id}, func(ctx context.Context) domain.Outcome[*domain.TableReservation] {
		return g.next.Get(ctx, p, id)
	})
}

func (g *TableReservations) List(ctx context.Context, p domain.Principal, in ports.ListReservationsInput) domain.Outcome[ports.Page[*domain.TableReservation]] {
	return policy.Run(ctx, g.list, p, in, func(ctx context.Context) domain.Outcome[ports.Page[*domain.TableReservation]] {
		return g.next.List(ctx, p, in)
	})
}

func (g *TableReservations) ListMine(ctx context.Context, p domain.Principal, pg, limit int) domain.Outcome[ports.Page[*domain.TableReservation]] {
	return policy.Run(ctx, g.mine, p, page{Page: pg, Limit: limit}, func(ctx context.Context) domain.Outcome[ports.Page[*domain.TableReservation]] {
		return g.next.ListMine(ctx, p, pg, limit)
	})
}
