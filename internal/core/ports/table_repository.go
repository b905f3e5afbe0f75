package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// TableRepository persists tables. Create and Update return
// domain.ErrDuplicate when the number is taken in the restaurant.
type TableRepository interface {
	Create(ctx context.Context, t *domain.Table) error
	GetByID(ctx context.Context, id string) (*domain.Table, error)
	Update(ctx context.Context, t *domain.Table) error
	Delete(ctx context.Context, id string) error
	NumberTaken(ctx context.Context, restaurantID string, number int, excludeID string) (bool, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Table, error)
}
