// Package memory is an in-process implementation of every store port, used
// for local development (STORE_DRIVER=memory) and pipeline tests.
//
// All repositories returned by one Store share a single lock so that
// cascading deletes stay consistent. Records are copied on the way in and
// on the way out; callers never alias stored state.
package memory

import (
	"sync"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// Store holds every collection of the in-memory backend.
type Store struct {
	mu sync.RWMutex

	users             map[string]domain.User
	restaurants       map[string]domain.Restaurant
	settings          map[string]domain.ReservationSettings
	employees         map[string]domain.Employee
	permissions       map[string]domain.Permission
	tables            map[string]domain.Table
	reservations      map[string]domain.Reservation
	tableReservations map[string]domain.TableReservation

	menus      map[string]domain.Menu
	categories map[string]domain.Category
	items      map[string]domain.MenuItem
	variants   map[string]domain.MenuItemVariant
}

func NewStore() *Store {
	return &Store{
		users:             make(map[string]domain.User),
		restaurants:       make(map[string]domain.Restaurant),
		settings:          make(map[string]domain.ReservationSettings),
		employees:         make(map[string]domain.Employee),
		permissions:       make(map[string]domain.Permission),
		tables:            make(map[string]domain.Table),
		reservations:      make(map[string]domain.Reservation),
		tableReservations: make(map[string]domain.TableReservation),
		menus:             make(map[string]domain.Menu),
		categories:        make(map[string]domain.Category),
		items:             make(map[string]domain.MenuItem),
		variants:          make(map[string]domain.MenuItemVariant),
	}
}

func (s *Store) Users() *AuthRepository { return &AuthRepository{s: s} }
func (s *Store) Restaurants() *RestaurantRepository { return &RestaurantRepository{s: s} }
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{s: s} }
func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{s: s} }
func (s *Store) Permissions() *PermissionRepository { return &PermissionRepository{s: s} }
func (s *Store) Tables() *TableRepository { return &TableRepository{s: s} }
func (s *Store) Reservations() *ReservationRepository { return &ReservationRepository{s: s} }
func (s *Store) TableReservations() *TableReservationRepository { return &TableReservationRepository{s: s} }
func (s *Store) Menus() *MenuCatalog { return &MenuCatalog{s: s} }
