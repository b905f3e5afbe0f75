package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/api/metrics"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// TableReservationService performs table reservation writes.
//
// Writes that claim a slot (create, or an update that moves table, date or
// time) run inside the slot lock and re-run the conflict check there, so two
// concurrent creators can never both commit overlapping bookings: the loser
// gets Conflict.
type TableReservationService struct {
	repo      ports.TableReservationRepository
	tables    ports.TableRepository
	settings  ports.SettingsProvider
	locker    ports.SlotLocker
	conflicts *validation.ConflictDetector
	events    ports.EventSink
	log       zerolog.Logger
}

func NewTableReservationService(
	repo ports.TableReservationRepository,
	tables ports.TableRepository,
	settings ports.SettingsProvider,
	locker ports.SlotLocker,
	events ports.EventSink,
	log zerolog.Logger,
) *TableReservationService {
	return &TableReservationService{
		repo:      repo,
		tables:    tables,
		settings:  settings,
		locker:    locker,
		conflicts: validation.NewConflictDetector(repo),
		events:    events,
		log:       log,
	}
}

var _ ports.TableReservationService = (*TableReservationService)(nil)

func (s *TableReservationService) Create(ctx context.Context, p domain.Principal, in ports.CreateTableReservationInput) domain.Outcome[*domain.TableReservation] {
	table, err := s.tables.GetByID(ctx, in.TableID)
	if err != nil {
		return fail[*domain.TableReservation](err, "table")
	}
	settings, err := s.settings.ForRestaurant(ctx, table.RestaurantID)
	if err != nil {
		return domain.Fail[*domain.TableReservation](domain.Unexpected(err))
	}

	r := &domain.TableReservation{
		ID:      newID(),
		TableID: table.ID,
		Booking: newBooking(table.RestaurantID, p.UserID, in.BookingInput, domain.InitialStatus(settings), time.Now().UTC()),
	}

	err = s.claim(ctx, r, func(ctx context.Context) error { return s.repo.Create(ctx, r) })
	if out, failed := s.claimFailed(err, r); failed {
		return out
	}

	metrics.ReservationsCreatedTotal.WithLabelValues(domain.EntityTableReservation, string(r.Status)).Inc()
	s.publish(domain.ActionCreated, r)
	s.log.Info().
		Str("reservation_id", r.ID).
		Str("table_id", r.TableID).
		Str("date", domain.FormatDate(r.Date)).
		Str("start", r.Start.String()).
		Str("end", r.End.String()).
		Msg("table reservation created")
	return domain.Ok(r)
}

func (s *TableReservationService) Update(ctx context.Context, _ domain.Principal, id string, in ports.UpdateTableReservationInput) domain.Outcome[*domain.TableReservation] {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.TableReservation](err, "table reservation")
	}
	if res := validation.Editable(r.Status); !res.IsOk() {
		return domain.Rebind[*domain.TableReservation](res)
	}

	moved := !r.SameSlot(in.TableID, in.Date, domain.Interval{Start: in.Start, End: in.End})
	if moved && in.TableID != r.TableID {
		table, err := s.tables.GetByID(ctx, in.TableID)
		if err != nil {
			return fail[*domain.TableReservation](err, "table")
		}
		r.RestaurantID = table.RestaurantID
	}
	r.TableID = in.TableID
	applyBooking(&r.Booking, in.BookingInput)
	r.UpdatedAt = time.Now().UTC()

	// The status read above is the write precondition, so a booking
	// cancelled meanwhile is never written back as active.
	write := func(ctx context.Context) error { return s.repo.Update(ctx, r, r.Status) }
	if moved && r.Status.IsActive() {
		err = s.claim(ctx, r, write)
	} else {
		err = write(ctx)
	}
	if out, failed := s.claimFailed(err, r); failed {
		return out
	}

	s.publish(domain.ActionUpdated, r)
	return domain.Ok(r)
}

// claim runs write under the slot lock of r after re-checking for an
// overlapping active booking.
func (s *TableReservationService) claim(ctx context.Context, r *domain.TableReservation, write func(context.Context) error) error {
	started := time.Now()
	return s.locker.WithSlot(ctx, r.TableID, r.Date, func(ctx context.Context) error {
		metrics.SlotLockWaitDuration.Observe(time.Since(started).Seconds())
		conflict, err := s.conflicts.HasConflict(ctx, r.TableID, r.Date, r.Interval(), r.ID)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrSlotOverlap
		}
		return write(ctx)
	})
}

func (s *TableReservationService) claimFailed(err error, r *domain.TableReservation) (domain.Outcome[*domain.TableReservation], bool) {
	switch {
	case err == nil:
		return domain.Outcome[*domain.TableReservation]{}, false
	case errors.Is(err, domain.ErrSlotOverlap):
		metrics.SlotConflictsTotal.WithLabelValues("locked").Inc()
		s.log.Warn().Str("table_id", r.TableID).Str("date", domain.FormatDate(r.Date)).Msg("slot taken by a concurrent booking")
		return domain.Fail[*domain.TableReservation](validation.SlotTaken()), true
	case errors.Is(err, domain.ErrLockTimeout):
		return domain.Fail[*domain.TableReservation](domain.Failure("the table is busy, please retry", http.StatusServiceUnavailable)), true
	case errors.Is(err, domain.ErrNotFound):
		return domain.Fail[*domain.TableReservation](domain.NotFound("table reservation not found")), true
	case errors.Is(err, domain.ErrStaleWrite):
		s.log.Warn().Str("reservation_id", r.ID).Msg("table reservation changed concurrently")
		return domain.Fail[*domain.TableReservation](staleWrite("table reservation")), true
	default:
		s.log.Error().Err(err).Str("table_id", r.TableID).Msg("failed to store table reservation")
		return domain.Fail[*domain.TableReservation](domain.Unexpected(err)), true
	}
}

func (s *TableReservationService) Delete(ctx context.Context, _ domain.Principal, id string) domain.Result {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[domain.Unit](err, "table reservation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fail[domain.Unit](err, "table reservation")
	}
	s.publish(domain.ActionDeleted, r)
	s.log.Info().Str("reservation_id", id).Msg("table reservation deleted")
	return domain.Done()
}

func (s *TableReservationService) UpdateStatus(ctx context.Context, _ domain.Principal, id string, status domain.ReservationStatus) domain.Outcome[*domain.TableReservation] {
	return s.transition(ctx, id, status)
}

func (s *TableReservationService) CancelAsUser(ctx context.Context, _ domain.Principal, _ string, id string) domain.Outcome[*domain.TableReservation] {
	return s.transition(ctx, id, domain.StatusCancelled)
}

// transition never claims a slot: every target state either keeps the
// booking active on the same slot or releases it. The write is conditional
// on the status read here, so of two racing transitions only one lands.
func (s *TableReservationService) transition(ctx context.Context, id string, status domain.ReservationStatus) domain.Outcome[*domain.TableReservation] {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.TableReservation](err, "table reservation")
	}
	from := r.Status
	if res := from.CheckTransition(status); !res.IsOk() {
		return domain.Rebind[*domain.TableReservation](res)
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, r, from); err != nil {
		return fail[*domain.TableReservation](err, "table reservation")
	}
	metrics.ReservationTransitionsTotal.WithLabelValues(domain.EntityTableReservation, string(from), string(status)).Inc()
	s.publish(domain.ActionStatusChanged, r)
	s.log.Info().Str("reservation_id", id).Str("from", string(from)).Str("to", string(status)).Msg("table reservation status changed")
	return domain.Ok(r)
}

func (s *TableReservationService) Get(ctx context.Context, _ domain.Principal, id string) domain.Outcome[*domain.TableReservation] {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.TableReservation](err, "table reservation")
	}
	return domain.Ok(r)
}

func (s *TableReservationService) List(ctx context.Context, _ domain.Principal, in ports.ListReservationsInput) domain.Outcome[ports.Page[*domain.TableReservation]] {
	return s.list(ctx, listFilter(in))
}

func (s *TableReservationService) ListMine(ctx context.Context, p domain.Principal, page, limit int) domain.Outcome[ports.Page[*domain.TableReservation]] {
	page, limit = normalizePage(page, limit)
	return s.list(ctx, ports.ReservationFilter{UserID: p.UserID, Page: page, Limit: limit})
}

func (s *TableReservationService) list(ctx context.Context, f ports.ReservationFilter) domain.Outcome[ports.Page[*domain.TableReservation]] {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return domain.Fail[ports.Page[*domain.TableReservation]](domain.Unexpected(err))
	}
	return domain.Ok(newPage(items, total, f.Page, f.Limit))
}

func (s *TableReservationService) publish(action string, r *domain.TableReservation) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.ReservationEvent{
		Entity:       domain.EntityTableReservation,
		Action:       action,
		ResourceID:   r.ID,
		RestaurantID: r.RestaurantID,
		Status:       r.Status,
		OccurredAt:   time.Now().UTC(),
		Data:         *r,
	})
}
