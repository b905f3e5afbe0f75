package ports

import (
	"context"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

type CreateRestaurantInput struct {
	Name string `validate:"required,min=2,max=120"`
}

type UpdateSettingsInput struct {
	ReservationsNeedConfirmation bool
	MinGuests                    int           `validate:"required,gt=0"`
	MaxGuests                    int           `validate:"required,gtefield=MinGuests"`
	MinAdvance                   time.Duration `validate:"gte=0"`
	MaxAdvanceDays               int           `validate:"required,gt=0,lte=365"`
	CancellationWindow           time.Duration `validate:"gte=0"`
}

// RestaurantService manages restaurants and their reservation settings.
type RestaurantService interface {
	Create(ctx context.Context, p domain.Principal, in CreateRestaurantInput) domain.Outcome[*domain.Restaurant]
	Get(ctx context.Context, p domain.Principal, id string) domain.Outcome[*domain.Restaurant]
	Delete(ctx context.Context, p domain.Principal, id string) domain.Result
	GetSettings(ctx context.Context, p domain.Principal, id string) domain.Outcome[domain.ReservationSettings]
	UpdateSettings(ctx context.Context, p domain.Principal, id string, in UpdateSettingsInput) domain.Outcome[domain.ReservationSettings]
}
