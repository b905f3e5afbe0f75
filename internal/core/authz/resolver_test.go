package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/infrastructure/db/memory"
)

type fixture struct {
	store    *memory.Store
	resolver *authz.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Restaurants().Create(ctx, &domain.Restaurant{ID: "R", Name: "Trattoria", OwnerID: "owner"}))
	require.NoError(t, store.Restaurants().Create(ctx, &domain.Restaurant{ID: "S", Name: "Elsewhere", OwnerID: "other"}))

	hire := func(id, user, restaurant string, active bool, perms ...domain.PermissionType) {
		require.NoError(t, store.Employees().Create(ctx, &domain.Employee{
			ID: id, RestaurantID: restaurant, UserID: user, Role: domain.EmployeeRoleStaff, IsActive: active,
		}))
		for _, p := range perms {
			require.NoError(t, store.Permissions().Create(ctx, &domain.Permission{ID: id + "-" + string(p), EmployeeID: id, Type: p}))
		}
	}
	hire("e-manager", "manager", "R", true, domain.PermManageReservations, domain.PermManageMenu)
	hire("e-inactive", "inactive", "R", false, domain.PermManageReservations)
	hire("e-elsewhere", "elsewhere", "S", true, domain.PermManageReservations)

	require.NoError(t, store.Tables().Create(ctx, &domain.Table{ID: "T", RestaurantID: "R", Number: 1, Capacity: 4}))
	require.NoError(t, store.TableReservations().Create(ctx, &domain.TableReservation{
		ID: "tr1", TableID: "T",
		Booking: domain.Booking{RestaurantID: "R", UserID: "guest", Status: domain.StatusConfirmed, Date: time.Now()},
	}))
	require.NoError(t, store.Reservations().Create(ctx, &domain.Reservation{
		ID:      "res1",
		Booking: domain.Booking{RestaurantID: "R", UserID: "guest", Status: domain.StatusPending},
	}))

	menus := store.Menus()
	menus.PutMenu(domain.Menu{ID: "M", RestaurantID: "R"})
	menus.PutCategory(domain.Category{ID: "C", MenuID: "M"})
	menus.PutMenuItem(domain.MenuItem{ID: "I", MenuID: "M", CategoryID: "C"})
	menus.PutMenuItemVariant(domain.MenuItemVariant{ID: "V", MenuItemID: "I"})
	menus.PutMenuItemVariant(domain.MenuItemVariant{ID: "orphan", MenuItemID: "missing"})

	return &fixture{store: store, resolver: authz.NewResolver(stores(store))}
}

func stores(s *memory.Store) authz.Stores {
	return authz.Stores{
		Restaurants:       s.Restaurants(),
		Employees:         s.Employees(),
		Permissions:       s.Permissions(),
		Tables:            s.Tables(),
		Reservations:      s.Reservations(),
		TableReservations: s.TableReservations(),
		Menus:             s.Menus(),
	}
}

func user(id string) domain.Principal {
	return domain.Principal{UserID: id, Authenticated: true, EmailVerified: true}
}

func TestRestaurantOf_WalksOwnershipChain(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		ref  authz.EntityRef
		want string
	}{
		{authz.Ref(authz.KindRestaurant, "R"), "R"},
		{authz.Ref(authz.KindTable, "T"), "R"},
		{authz.Ref(authz.KindTableReservation, "tr1"), "R"},
		{authz.Ref(authz.KindReservation, "res1"), "R"},
		{authz.Ref(authz.KindEmployee, "e-manager"), "R"},
		{authz.Ref(authz.KindPermission, "e-manager-manage_menu"), "R"},
		{authz.Ref(authz.KindMenu, "M"), "R"},
		{authz.Ref(authz.KindCategory, "C"), "R"},
		{authz.Ref(authz.KindMenuItem, "I"), "R"},
		{authz.Ref(authz.KindMenuItemVariant, "V"), "R"},
		{authz.Ref(authz.KindMenuItemVariant, "orphan"), ""},
		{authz.Ref(authz.KindTable, "nope"), ""},
		{authz.Ref(authz.KindRestaurant, "nope"), ""},
		{authz.Ref(authz.KindTable, ""), ""},
	}

	for _, tc := range tests {
		t.Run(string(tc.ref.Kind)+"/"+tc.ref.ID, func(t *testing.T) {
			got, err := f.resolver.RestaurantOf(context.Background(), tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	variant := authz.Ref(authz.KindMenuItemVariant, "V")
	table := authz.Ref(authz.KindTable, "T")

	ok, err := f.resolver.Can(ctx, user("manager"), variant, domain.PermManageMenu)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = f.resolver.Can(ctx, user("manager"), table, domain.PermManageTables)
	assert.False(t, ok, "permission not held")

	ok, _ = f.resolver.Can(ctx, user("elsewhere"), table, domain.PermManageReservations)
	assert.False(t, ok, "employee of another restaurant")

	ok, _ = f.resolver.Can(ctx, user("manager"), authz.Ref(authz.KindMenuItemVariant, "orphan"), domain.PermManageMenu)
	assert.False(t, ok, "broken chain is denied")
}

func TestCan_InactiveEmployeeHasNoAuthority(t *testing.T) {
	f := newFixture(t)

	ok, err := f.resolver.Can(context.Background(), user("inactive"), authz.Ref(authz.KindReservation, "res1"), domain.PermManageReservations)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.resolver.CanInRestaurant(context.Background(), user("inactive"), "R", domain.PermManageReservations)
	require.NoError(t, err)
	assert.False(t, ok)
}

// countingEmployees fails the test if the resolver queries it.
type countingEmployees struct {
	ports.EmployeeRepository
	t *testing.T
}

func (c countingEmployees) GetWithPermissions(context.Context, string, string) (*domain.Employee, error) {
	c.t.Fatalf("store queried for an anonymous principal")
	return nil, nil
}

func TestCan_AnonymousNeverQueriesStore(t *testing.T) {
	f := newFixture(t)
	s := stores(f.store)
	s.Employees = countingEmployees{EmployeeRepository: s.Employees, t: t}
	r := authz.NewResolver(s)

	ok, err := r.CanInRestaurant(context.Background(), domain.Anonymous, "R", domain.PermManageReservations)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Can(context.Background(), domain.Anonymous, authz.Ref(authz.KindTable, "T"), domain.PermManageTables)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, _ := f.resolver.IsSelf(ctx, user("guest"), authz.Ref(authz.KindTableReservation, "tr1"))
	assert.True(t, ok)
	ok, _ = f.resolver.IsSelf(ctx, user("manager"), authz.Ref(authz.KindTableReservation, "tr1"))
	assert.False(t, ok)
	ok, _ = f.resolver.IsSelf(ctx, user("manager"), authz.Ref(authz.KindEmployee, "e-manager"))
	assert.True(t, ok)
	ok, _ = f.resolver.IsSelf(ctx, user("guest"), authz.Ref(authz.KindReservation, "missing"))
	assert.False(t, ok)
	ok, _ = f.resolver.IsSelf(ctx, domain.Principal{UserID: "guest"}, authz.Ref(authz.KindReservation, "res1"))
	assert.False(t, ok, "unauthenticated principal is never self")
}

func TestRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	type req struct{ id string }
	target := func(r req) authz.EntityRef { return authz.Ref(authz.KindReservation, r.id) }

	manage := authz.Require(f.resolver, domain.PermManageReservations, target)
	assert.True(t, manage(ctx, user("manager"), req{"res1"}).IsOk())

	res := manage(ctx, user("guest"), req{"res1"})
	require.False(t, res.IsOk())
	assert.Equal(t, domain.KindForbidden, res.Problem().Kind)

	missing := manage(ctx, user("guest"), req{"missing"})
	assert.Equal(t, res.Problem().Message, missing.Problem().Message, "absence and denial look the same")

	selfOr := authz.SelfOrRequire(f.resolver, domain.PermManageReservations, target)
	assert.True(t, selfOr(ctx, user("guest"), req{"res1"}).IsOk())
	assert.True(t, selfOr(ctx, user("manager"), req{"res1"}).IsOk())
	assert.False(t, selfOr(ctx, user("stranger"), req{"res1"}).IsOk())

	verified := authz.EmailVerified[req]()
	assert.False(t, verified(ctx, domain.Principal{UserID: "u", Authenticated: true}, req{}).IsOk())
	assert.False(t, verified(ctx, domain.Anonymous, req{}).IsOk())
	assert.True(t, verified(ctx, user("u"), req{}).IsOk())

	acting := authz.ActingAs(func(r req) string { return r.id })
	assert.True(t, acting(ctx, user("guest"), req{"guest"}).IsOk())
	assert.False(t, acting(ctx, user("guest"), req{"someone"}).IsOk())
}
