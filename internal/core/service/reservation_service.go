package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/api/metrics"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// ReservationService performs whole-restaurant reservation writes. It trusts
// its callers to have validated and authorized the request; wrap it with
// guard.Reservations before exposing it. Only the status is re-checked on
// write, against the record as stored at that moment.
type ReservationService struct {
	repo     ports.ReservationRepository
	settings ports.SettingsProvider
	events   ports.EventSink
	log      zerolog.Logger
}

func NewReservationService(
	repo ports.ReservationRepository,
	settings ports.SettingsProvider,
	events ports.EventSink,
	log zerolog.Logger,
) *ReservationService {
	return &ReservationService{repo: repo, settings: settings, events: events, log: log}
}

var _ ports.ReservationService = (*ReservationService)(nil)

func (s *ReservationService) Create(ctx context.Context, p domain.Principal, in ports.CreateReservationInput) domain.Outcome[*domain.Reservation] {
	settings, err := s.settings.ForRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return domain.Fail[*domain.Reservation](domain.Unexpected(err))
	}

	r := &domain.Reservation{
		ID:      newID(),
		Booking: newBooking(in.RestaurantID, p.UserID, in.BookingInput, domain.InitialStatus(settings), time.Now().UTC()),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error().Err(err).Str("restaurant_id", in.RestaurantID).Msg("failed to create reservation")
		return domain.Fail[*domain.Reservation](domain.Unexpected(err))
	}

	metrics.ReservationsCreatedTotal.WithLabelValues(domain.EntityReservation, string(r.Status)).Inc()
	s.publish(domain.ActionCreated, r)
	s.log.Info().Str("reservation_id", r.ID).Str("restaurant_id", r.RestaurantID).Str("status", string(r.Status)).Msg("reservation created")
	return domain.Ok(r)
}

func (s *ReservationService) Update(ctx context.Context, _ domain.Principal, id string, in ports.UpdateReservationInput) domain.Outcome[*domain.Reservation] {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Reservation](err, "reservation")
	}
	if res := validation.Editable(r.Status); !res.IsOk() {
		return domain.Rebind[*domain.Reservation](res)
	}
	applyBooking(&r.Booking, in.BookingInput)
	r.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, r, r.Status); err != nil {
		return fail[*domain.Reservation](err, "reservation")
	}
	s.publish(domain.ActionUpdated, r)
	return domain.Ok(r)
}

func (s *ReservationService) Delete(ctx context.Context, _ domain.Principal, id string) domain.Result {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[domain.Unit](err, "reservation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fail[domain.Unit](err, "reservation")
	}
	s.publish(domain.ActionDeleted, r)
	s.log.Info().Str("reservation_id", id).Msg("reservation deleted")
	return domain.Done()
}

func (s *ReservationService) UpdateStatus(ctx context.Context, _ domain.Principal, id string, status domain.ReservationStatus) domain.Outcome[*domain.Reservation] {
	return s.transition(ctx, id, status)
}

func (s *ReservationService) CancelAsUser(ctx context.Context, _ domain.Principal, _ string, id string) domain.Outcome[*domain.Reservation] {
	return s.transition(ctx, id, domain.StatusCancelled)
}

func (s *ReservationService) transition(ctx context.Context, id string, status domain.ReservationStatus) domain.Outcome[*domain.Reservation] {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Reservation](err, "reservation")
	}
	from := r.Status
	if res := from.CheckTransition(status); !res.IsOk() {
		return domain.Rebind[*domain.Reservation](res)
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, r, from); err != nil {
		return fail[*domain.Reservation](err, "reservation")
	}
	metrics.ReservationTransitionsTotal.WithLabelValues(domain.EntityReservation, string(from), string(status)).Inc()
	s.publish(domain.ActionStatusChanged, r)
	s.log.Info().Str("reservation_id", id).Str("from", string(from)).Str("to", string(status)).Msg("reservation status changed")
	return domain.Ok(r)
}

func (s *ReservationService) Get(ctx context.Context, _ domain.Principal, id string) domain.Outcome[*domain.Reservation] {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Reservation](err, "reservation")
	}
	return domain.Ok(r)
}

func (s *ReservationService) List(ctx context.Context, _ domain.Principal, in ports.ListReservationsInput) domain.Outcome[ports.Page[*domain.Reservation]] {
	f := listFilter(in)
	f.TableID = ""
	return s.list(ctx, f)
}

func (s *ReservationService) ListMine(ctx context.Context, p domain.Principal, page, limit int) domain.Outcome[ports.Page[*domain.Reservation]] {
	page, limit = normalizePage(page, limit)
	return s.list(ctx, ports.ReservationFilter{UserID: p.UserID, Page: page, Limit: limit})
}

func (s *ReservationService) list(ctx context.Context, f ports.ReservationFilter) domain.Outcome[ports.Page[*domain.Reservation]] {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return domain.Fail[ports.Page[*domain.Reservation]](domain.Unexpected(err))
	}
	return domain.Ok(newPage(items, total, f.Page, f.Limit))
}

func (s *ReservationService) publish(action string, r *domain.Reservation) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.ReservationEvent{
		Entity:       domain.EntityReservation,
		Action:       action,
		ResourceID:   r.ID,
		RestaurantID: r.RestaurantID,
		Status:       r.Status,
		OccurredAt:   time.Now().UTC(),
		Data:         *r,
	})
}
