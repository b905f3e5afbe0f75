package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/infrastructure/db/memory"
)

func newReservationService(t *testing.T) (*ReservationService, *memory.Store, *recordingSink) {
	t.Helper()
	store := memory.NewStore()
	sink := &recordingSink{}
	return NewReservationService(store.Reservations(), store.Settings(), sink, discardLogger), store, sink
}

func TestReservationService_Lifecycle(t *testing.T) {
	svc, _, sink := newReservationService(t)
	ctx := context.Background()

	created := svc.Create(ctx, guest, ports.CreateReservationInput{RestaurantID: "R", BookingInput: booking("2025-06-01", "12:00", "14:00")})
	if !created.IsOk() {
		t.Fatalf("create failed: %v", created.Problem())
	}
	id := created.Value().ID

	in := booking("2025-06-01", "13:00", "15:00")
	in.Guests = 8
	updated := svc.Update(ctx, guest, id, ports.UpdateReservationInput{BookingInput: in})
	if !updated.IsOk() || updated.Value().Guests != 8 || updated.Value().Start != domain.MustClock("13:00") {
		t.Fatalf("update not applied: %+v", updated.Value())
	}
	if updated.Value().Status != domain.StatusConfirmed {
		t.Errorf("update must not touch status, got %q", updated.Value().Status)
	}

	completed := svc.UpdateStatus(ctx, guest, id, domain.StatusCompleted)
	if !completed.IsOk() || completed.Value().Status != domain.StatusCompleted {
		t.Fatalf("status change failed: %+v", completed.Problem())
	}

	if res := svc.Delete(ctx, guest, id); !res.IsOk() {
		t.Fatalf("delete failed: %v", res.Problem())
	}
	if got := svc.Get(ctx, guest, id); got.IsOk() || got.Problem().Kind != domain.KindNotFound {
		t.Fatalf("expected not found after delete, got %+v", got.Problem())
	}

	want := []string{"reservations.created", "reservations.updated", "reservations.status_changed", "reservations.deleted"}
	got := sink.topics()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestReservationService_List_Filters(t *testing.T) {
	svc, _, _ := newReservationService(t)
	ctx := context.Background()

	a := svc.Create(ctx, guest, ports.CreateReservationInput{RestaurantID: "R", BookingInput: booking("2025-06-01", "12:00", "14:00")}).Value()
	_ = svc.Create(ctx, guest, ports.CreateReservationInput{RestaurantID: "R", BookingInput: booking("2025-06-03", "12:00", "14:00")})
	_ = svc.Create(ctx, guest, ports.CreateReservationInput{RestaurantID: "S", BookingInput: booking("2025-06-01", "12:00", "14:00")})
	_ = svc.UpdateStatus(ctx, guest, a.ID, domain.StatusCancelled)

	out := svc.List(ctx, guest, ports.ListReservationsInput{RestaurantID: "R"})
	if !out.IsOk() || out.Value().Total != 2 {
		t.Fatalf("expected 2 reservations at R, got %+v", out.Value())
	}
	if out.Value().Limit != defaultPageLimit || out.Value().Page != 1 {
		t.Errorf("expected default paging, got page=%d limit=%d", out.Value().Page, out.Value().Limit)
	}

	out = svc.List(ctx, guest, ports.ListReservationsInput{RestaurantID: "R", Status: domain.StatusCancelled})
	if out.Value().Total != 1 || out.Value().Items[0].ID != a.ID {
		t.Errorf("status filter failed: %+v", out.Value())
	}

	from, _ := domain.ParseDate("2025-06-02")
	out = svc.List(ctx, guest, ports.ListReservationsInput{RestaurantID: "R", DateFrom: from, Limit: 500})
	if out.Value().Total != 1 || out.Value().Limit != maxPageLimit {
		t.Errorf("date filter or limit clamp failed: %+v", out.Value())
	}
}

type failingSettings struct{}

func (failingSettings) ForRestaurant(context.Context, string) (domain.ReservationSettings, error) {
	return domain.ReservationSettings{}, errors.New("settings store down")
}

func TestReservationService_Create_SettingsFailure(t *testing.T) {
	store := memory.NewStore()
	svc := NewReservationService(store.Reservations(), failingSettings{}, nil, discardLogger)

	out := svc.Create(context.Background(), guest, ports.CreateReservationInput{RestaurantID: "R", BookingInput: booking("2025-06-01", "12:00", "14:00")})
	if out.IsOk() || out.Problem().Kind != domain.KindFailure {
		t.Fatalf("expected failure, got %+v", out.Problem())
	}
	if out.Problem().Unwrap() == nil {
		t.Errorf("cause must be kept for logging")
	}
}

// racedReservations commits a competing write right after the first read.
type racedReservations struct {
	ports.ReservationRepository
	once    sync.Once
	between func()
}

func (r *racedReservations) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := r.ReservationRepository.GetByID(ctx, id)
	r.once.Do(r.between)
	return res, err
}

func TestReservationService_ConfirmLosesToConcurrentCancel(t *testing.T) {
	store := memory.NewStore()
	svc := NewReservationService(store.Reservations(), store.Settings(), nil, discardLogger)
	ctx := context.Background()

	created := svc.Create(ctx, guest, ports.CreateReservationInput{RestaurantID: "R", BookingInput: booking("2025-06-01", "12:00", "14:00")})
	if !created.IsOk() {
		t.Fatalf("create failed: %v", created.Problem())
	}
	id := created.Value().ID

	raced := NewReservationService(&racedReservations{
		ReservationRepository: store.Reservations(),
		between:               func() { _ = svc.CancelAsUser(ctx, guest, "guest", id) },
	}, store.Settings(), nil, discardLogger)

	out := raced.UpdateStatus(ctx, guest, id, domain.StatusCompleted)
	if out.IsOk() || out.Problem().Kind != domain.KindConflict {
		t.Fatalf("expected conflict, got %+v", out.Problem())
	}
	stored, _ := store.Reservations().GetByID(ctx, id)
	if stored.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", stored.Status)
	}

	if again := svc.UpdateStatus(ctx, guest, id, domain.StatusConfirmed); again.IsOk() || again.Problem().Kind != domain.KindValidation {
		t.Errorf("expected validation error from a terminal state, got %+v", again.Problem())
	}
}
