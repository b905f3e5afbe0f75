// Package guard wraps each domain service with its policy chains.
//
// Every guarded type implements the same ports interface as the service it
// wraps, so handlers cannot tell them apart. Each operation owns one
// policy.Chain; the order of its validation and authorization stages is
// chosen per operation:
//
//   - operations addressed by id that a stranger could use to probe for
//     existence (get, delete, cancel, staff administration) authorize first,
//     so a missing entity and a forbidden one both answer Forbidden;
//   - operations whose input must be judged on its own merits (create,
//     update, status transitions) validate first, so an impossible request
//     fails the same way for every caller.
package guard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// Deps carries what the checks consult. Users may be nil, in which case
// hiring does not verify that the user account exists.
type Deps struct {
	Resolver          *authz.Resolver
	Validator         *validation.Validator
	Conflicts         *validation.ConflictDetector
	Restaurants       ports.RestaurantRepository
	Settings          ports.SettingsProvider
	Employees         ports.EmployeeRepository
	Permissions       ports.PermissionRepository
	Tables            ports.TableRepository
	Reservations      ports.ReservationRepository
	TableReservations ports.TableReservationRepository
	Users             ports.AuthRepository

	// Now is the clock booking windows are measured against.
	Now func() time.Time
	Log zerolog.Logger
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Requests of id-addressed operations.
type (
	byID struct {
		ID string
	}
	page struct {
		Page, Limit int
	}
	statusChange struct {
		ID     string
		Status domain.ReservationStatus
	}
	userCancel struct {
		UserID string
		ID     string
	}
)

func chain[R any](d *Deps, entity, operation string, opts ...policy.Option[R]) *policy.Chain[R] {
	opts = append(opts, policy.WithLogger[R](d.Log))
	return policy.NewChain(entity, operation, opts...)
}

// check adapts a principal-independent validation function.
func check[R any](fn func(ctx context.Context, req R) domain.Result) policy.Check[R] {
	return func(ctx context.Context, _ domain.Principal, req R) domain.Result {
		return fn(ctx, req)
	}
}

// fields runs the struct validator on the part of the request pick returns.
func fields[R any](v *validation.Validator, pick func(R) any) policy.Check[R] {
	return check(func(_ context.Context, req R) domain.Result {
		return v.Check(pick(req))
	})
}

func ref(kind authz.EntityKind) func(byID) authz.EntityRef {
	return func(r byID) authz.EntityRef { return authz.Ref(kind, r.ID) }
}

func (d *Deps) restaurantExists(ctx context.Context, restaurantID string) domain.Result {
	ok, err := d.Restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return domain.Fail[domain.Unit](domain.Unexpected(err))
	}
	if !ok {
		return domain.Fail[domain.Unit](domain.NotFound("restaurant not found"))
	}
	return domain.Done()
}
