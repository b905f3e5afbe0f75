// Package authz answers "may this principal do that" for restaurant-scoped
// entities.
//
// The Resolver walks the ownership chain of the target entity up to its
// restaurant and then looks for an active employee record of the principal at
// that restaurant holding the required permission. An entity whose chain does
// not end at a restaurant resolves to "denied", never to "not found", so
// callers cannot probe for the existence of entities they have no rights on.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// EntityKind names a node type of the ownership graph.
type EntityKind string

const (
	KindRestaurant       EntityKind = "restaurant"
	KindMenu             EntityKind = "menu"
	KindCategory         EntityKind = "category"
	KindMenuItem         EntityKind = "menu_item"
	KindMenuItemVariant  EntityKind = "menu_item_variant"
	KindTable            EntityKind = "table"
	KindReservation      EntityKind = "reservation"
	KindTableReservation EntityKind = "table_reservation"
	KindEmployee         EntityKind = "employee"
	KindPermission       EntityKind = "permission"
)

// EntityRef identifies the target of an authorization question.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

func Ref(kind EntityKind, id string) EntityRef { return EntityRef{Kind: kind, ID: id} }

// Stores groups the lookups the Resolver needs. Menus may be nil when the
// menu catalog is not wired; menu entities then always resolve to denied.
type Stores struct {
	Restaurants       ports.RestaurantRepository
	Employees         ports.EmployeeRepository
	Permissions       ports.PermissionRepository
	Tables            ports.TableRepository
	Reservations      ports.ReservationRepository
	TableReservations ports.TableReservationRepository
	Menus             ports.MenuCatalog
}

// Resolver resolves ownership and permissions against the store on every
// call. Nothing is cached: permission changes apply to the next request.
type Resolver struct {
	stores Stores
}

func NewResolver(stores Stores) *Resolver {
	return &Resolver{stores: stores}
}

// RestaurantOf walks ref's ownership chain. It returns "" with a nil error
// when any link is missing.
func (r *Resolver) RestaurantOf(ctx context.Context, ref EntityRef) (string, error) {
	if ref.ID == "" {
		return "", nil
	}
	id, err := r.walk(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s %s: %w", ref.Kind, ref.ID, err)
	}
	return id, nil
}

func (r *Resolver) walk(ctx context.Context, ref EntityRef) (string, error) {
	switch ref.Kind {
	case KindRestaurant:
		ok, err := r.stores.Restaurants.Exists(ctx, ref.ID)
		if err != nil || !ok {
			return "", notFoundOr(err)
		}
		return ref.ID, nil

	case KindTable:
		t, err := r.stores.Tables.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return t.RestaurantID, nil

	case KindReservation:
		res, err := r.stores.Reservations.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return res.RestaurantID, nil

	case KindTableReservation:
		res, err := r.stores.TableReservations.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return r.walk(ctx, Ref(KindTable, res.TableID))

	case KindEmployee:
		e, err := r.stores.Employees.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return e.RestaurantID, nil

	case KindPermission:
		p, err := r.stores.Permissions.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return r.walk(ctx, Ref(KindEmployee, p.EmployeeID))

	case KindMenu:
		if r.stores.Menus == nil {
			return "", domain.ErrNotFound
		}
		m, err := r.stores.Menus.GetMenu(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return m.RestaurantID, nil

	case KindCategory:
		if r.stores.Menus == nil {
			return "", domain.ErrNotFound
		}
		c, err := r.stores.Menus.GetCategory(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return r.walk(ctx, Ref(KindMenu, c.MenuID))

	case KindMenuItem:
		if r.stores.Menus == nil {
			return "", domain.ErrNotFound
		}
		item, err := r.stores.Menus.GetMenuItem(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return r.walk(ctx, Ref(KindMenu, item.MenuID))

	case KindMenuItemVariant:
		if r.stores.Menus == nil {
			return "", domain.ErrNotFound
		}
		v, err := r.stores.Menus.GetMenuItemVariant(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return r.walk(ctx, Ref(KindMenuItem, v.MenuItemID))
	}
	return "", domain.ErrNotFound
}

func notFoundOr(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}

// CanInRestaurant reports whether p holds perm through an active employee
// record at restaurantID. Unauthenticated principals are denied without
// touching the store.
func (r *Resolver) CanInRestaurant(ctx context.Context, p domain.Principal, restaurantID string, perm domain.PermissionType) (bool, error) {
	if !p.Authenticated || p.UserID == "" || restaurantID == "" {
		return false, nil
	}
	emp, err := r.stores.Employees.GetWithPermissions(ctx, p.UserID, restaurantID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load employee: %w", err)
	}
	return emp.Holds(perm), nil
}

// Can reports whether p holds perm at the restaurant that owns ref.
func (r *Resolver) Can(ctx context.Context, p domain.Principal, ref EntityRef, perm domain.PermissionType) (bool, error) {
	if !p.Authenticated || p.UserID == "" {
		return false, nil
	}
	restaurantID, err := r.RestaurantOf(ctx, ref)
	if err != nil || restaurantID == "" {
		return false, err
	}
	return r.CanInRestaurant(ctx, p, restaurantID, perm)
}

// IsSelf reports whether ref is p's own record: a reservation p placed or
// p's own employee record. Other kinds are never "self".
func (r *Resolver) IsSelf(ctx context.Context, p domain.Principal, ref EntityRef) (bool, error) {
	if !p.Authenticated || p.UserID == "" || ref.ID == "" {
		return false, nil
	}
	var owner string
	var err error
	switch ref.Kind {
	case KindReservation:
		var res *domain.Reservation
		if res, err = r.stores.Reservations.GetByID(ctx, ref.ID); err == nil {
			owner = res.UserID
		}
	case KindTableReservation:
		var res *domain.TableReservation
		if res, err = r.stores.TableReservations.GetByID(ctx, ref.ID); err == nil {
			owner = res.UserID
		}
	case KindEmployee:
		var e *domain.Employee
		if e, err = r.stores.Employees.GetByID(ctx, ref.ID); err == nil {
			owner = e.UserID
		}
	default:
		return false, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve owner of %s %s: %w", ref.Kind, ref.ID, err)
	}
	return p.Is(owner), nil
}
