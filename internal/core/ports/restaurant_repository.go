package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// RestaurantRepository persists restaurants. Delete cascades to the
// restaurant's employees and their permissions.
type RestaurantRepository interface {
	Create(ctx context.Context, r *domain.Restaurant) error
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// SettingsProvider returns per-restaurant reservation settings. Restaurants
// without stored settings get domain.DefaultSettings.
type SettingsProvider interface {
	ForRestaurant(ctx context.Context, restaurantID string) (domain.ReservationSettings, error)
}

// SettingsRepository is the writable side of SettingsProvider.
type SettingsRepository interface {
	SettingsProvider
	Save(ctx context.Context, s domain.ReservationSettings) error
}

// MenuCatalog exposes the read-only "belongs to" links of the menu catalog.
type MenuCatalog interface {
	GetMenu(ctx context.Context, id string) (*domain.Menu, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	GetMenuItemVariant(ctx context.Context, id string) (*domain.MenuItemVariant, error)
}
