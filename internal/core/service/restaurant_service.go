package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// RestaurantService performs restaurant and settings writes.
type RestaurantService struct {
	restaurants ports.RestaurantRepository
	settings    ports.SettingsRepository
	staff       *EmployeeService
	log         zerolog.Logger
}

func NewRestaurantService(
	restaurants ports.RestaurantRepository,
	settings ports.SettingsRepository,
	staff *EmployeeService,
	log zerolog.Logger,
) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, settings: settings, staff: staff, log: log}
}

var _ ports.RestaurantService = (*RestaurantService)(nil)

// Create stores the restaurant and makes the caller its active owner
// employee holding every permission.
func (s *RestaurantService) Create(ctx context.Context, p domain.Principal, in ports.CreateRestaurantInput) domain.Outcome[*domain.Restaurant] {
	now := time.Now().UTC()
	r := &domain.Restaurant{
		ID:        newID(),
		Name:      in.Name,
		OwnerID:   p.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.restaurants.Create(ctx, r); err != nil {
		return domain.Fail[*domain.Restaurant](domain.Unexpected(err))
	}
	if err := s.settings.Save(ctx, domain.DefaultSettings(r.ID)); err != nil {
		return domain.Fail[*domain.Restaurant](domain.Unexpected(err))
	}

	owner := s.staff.Hire(ctx, p, ports.HireEmployeeInput{
		RestaurantID: r.ID,
		UserID:       p.UserID,
		Role:         domain.EmployeeRoleOwner,
		Permissions:  domain.AllPermissions,
	})
	if !owner.IsOk() {
		return domain.Rebind[*domain.Restaurant](owner)
	}

	s.log.Info().Str("restaurant_id", r.ID).Str("owner_id", r.OwnerID).Msg("restaurant created")
	return domain.Ok(r)
}

func (s *RestaurantService) Get(ctx context.Context, _ domain.Principal, id string) domain.Outcome[*domain.Restaurant] {
	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Restaurant](err, "restaurant")
	}
	return domain.Ok(r)
}

// Delete removes the restaurant; the store cascades to its employees and
// their permissions.
func (s *RestaurantService) Delete(ctx context.Context, _ domain.Principal, id string) domain.Result {
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return fail[domain.Unit](err, "restaurant")
	}
	s.log.Info().Str("restaurant_id", id).Msg("restaurant deleted")
	return domain.Done()
}

func (s *RestaurantService) GetSettings(ctx context.Context, _ domain.Principal, id string) domain.Outcome[domain.ReservationSettings] {
	st, err := s.settings.ForRestaurant(ctx, id)
	if err != nil {
		return domain.Fail[domain.ReservationSettings](domain.Unexpected(err))
	}
	return domain.Ok(st)
}

func (s *RestaurantService) UpdateSettings(ctx context.Context, _ domain.Principal, id string, in ports.UpdateSettingsInput) domain.Outcome[domain.ReservationSettings] {
	st := domain.ReservationSettings{
		RestaurantID:                 id,
		ReservationsNeedConfirmation: in.ReservationsNeedConfirmation,
		MinGuests:                    in.MinGuests,
		MaxGuests:                    in.MaxGuests,
		MinAdvance:                   in.MinAdvance,
		MaxAdvanceDays:               in.MaxAdvanceDays,
		CancellationWindow:           in.CancellationWindow,
	}
	if err := s.settings.Save(ctx, st); err != nil {
		return domain.Fail[domain.ReservationSettings](domain.Unexpected(err))
	}
	s.log.Info().Str("restaurant_id", id).Bool("needs_confirmation", st.ReservationsNeedConfirmation).Msg("reservation settings updated")
	return domain.Ok(st)
}
