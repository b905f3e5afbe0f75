package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

type CreateTableInput struct {
	RestaurantID string `validate:"required"`
	Number       int    `validate:"required,gt=0"`
	Capacity     int    `validate:"required,gt=0,lte=50"`
}

type UpdateTableInput struct {
	Number   int `validate:"required,gt=0"`
	Capacity int `validate:"required,gt=0,lte=50"`
}

// TableService administers restaurant tables.
type TableService interface {
	Create(ctx context.Context, p domain.Principal, in CreateTableInput) domain.Outcome[*domain.Table]
	Update(ctx context.Context, p domain.Principal, id string, in UpdateTableInput) domain.Outcome[*domain.Table]
	Delete(ctx context.Context, p domain.Principal, id string) domain.Result
	List(ctx context.Context, p domain.Principal, restaurantID string) domain.Outcome[[]*domain.Table]
}
