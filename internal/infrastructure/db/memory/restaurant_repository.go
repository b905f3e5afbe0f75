package memory

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// RestaurantRepository is the in-memory ports.RestaurantRepository.
type RestaurantRepository struct{ s *Store }

func (r *RestaurantRepository) Create(_ context.Context, rest *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.restaurants[rest.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.restaurants[rest.ID] = *rest
	return nil
}

func (r *RestaurantRepository) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rest, ok := r.s.restaurants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rest, nil
}

func (r *RestaurantRepository) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.restaurants[id]
	return ok, nil
}

// Delete removes the restaurant with its settings, employees and their
// permissions.
func (r *RestaurantRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.restaurants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.restaurants, id)
	delete(r.s.settings, id)
	for empID, e := range r.s.employees {
		if e.RestaurantID == id {
			r.s.deleteEmployeeLocked(empID)
		}
	}
	return nil
}

// SettingsRepository is the in-memory ports.SettingsRepository.
type SettingsRepository struct{ s *Store }

func (r *SettingsRepository) ForRestaurant(_ context.Context, restaurantID string) (domain.ReservationSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if st, ok := r.s.settings[restaurantID]; ok {
		return st, nil
	}
	return domain.DefaultSettings(restaurantID), nil
}

func (r *SettingsRepository) Save(_ context.Context, st domain.ReservationSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.settings[st.RestaurantID] = st
	return nil
}

// MenuCatalog is the in-memory ports.MenuCatalog. The Put methods seed it;
// menu CRUD lives outside this service.
type MenuCatalog struct{ s *Store }

func (c *MenuCatalog) PutMenu(m domain.Menu) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.menus[m.ID] = m
}

func (c *MenuCatalog) PutCategory(cat domain.Category) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.categories[cat.ID] = cat
}

func (c *MenuCatalog) PutMenuItem(item domain.MenuItem) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.items[item.ID] = item
}

func (c *MenuCatalog) PutMenuItemVariant(v domain.MenuItemVariant) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.variants[v.ID] = v
}

func (c *MenuCatalog) GetMenu(_ context.Context, id string) (*domain.Menu, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	m, ok := c.s.menus[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (c *MenuCatalog) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	cat, ok := c.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cat, nil
}

func (c *MenuCatalog) GetMenuItem(_ context.Context, id string) (*domain.MenuItem, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	item, ok := c.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (c *MenuCatalog) GetMenuItemVariant(_ context.Context, id string) (*domain.MenuItemVariant, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	v, ok := c.s.variants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

var (
	_ ports.RestaurantRepository = (*RestaurantRepository)(nil)
	_ ports.SettingsRepository   = (*SettingsRepository)(nil)
	_ ports.MenuCatalog          = (*MenuCatalog)(nil)
)
