package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type recordingSink struct {
	mu     sync.Mutex
	events []domain.ReservationEvent
}

func (s *recordingSink) Enqueue(e domain.ReservationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Topic()
	}
	return out
}

// countingConflicts wraps a repository and counts ListConflicting calls.
type countingConflicts struct {
	ports.TableReservationRepository
	mu    sync.Mutex
	calls int
}

func (c *countingConflicts) ListConflicting(ctx context.Context, tableID string, date time.Time, excludeID string) ([]*domain.TableReservation, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.TableReservationRepository.ListConflicting(ctx, tableID, date, excludeID)
}

type tableFixture struct {
	store *memory.Store
	repo  *countingConflicts
	sink  *recordingSink
	svc   *TableReservationService
}

func newTableFixture(t *testing.T) *tableFixture {
	t.Helper()
	store := memory.NewStore()
	if err := store.Tables().Create(context.Background(), &domain.Table{ID: "T", RestaurantID: "R", Number: 1, Capacity: 4}); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	if err := store.Tables().Create(context.Background(), &domain.Table{ID: "U", RestaurantID: "R", Number: 2, Capacity: 6}); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	repo := &countingConflicts{TableReservationRepository: store.TableReservations()}
	sink := &recordingSink{}
	svc := NewTableReservationService(repo, store.Tables(), store.Settings(), memory.NewSlotLocker(), sink, discardLogger)
	return &tableFixture{store: store, repo: repo, sink: sink, svc: svc}
}

var guest = domain.Principal{UserID: "guest", Authenticated: true, EmailVerified: true}

func booking(date, start, end string) ports.BookingInput {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return ports.BookingInput{
		Date:          d,
		Start:         domain.MustClock(start),
		End:           domain.MustClock(end),
		Guests:        2,
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTableReservationService_Create_Success(t *testing.T) {
	f := newTableFixture(t)

	out := f.svc.Create(context.Background(), guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:30")})
	if !out.IsOk() {
		t.Fatalf("unexpected problem: %v", out.Problem())
	}
	r := out.Value()
	if r.RestaurantID != "R" {
		t.Errorf("expected restaurant from table, got %q", r.RestaurantID)
	}
	if r.UserID != "guest" {
		t.Errorf("expected user id of principal, got %q", r.UserID)
	}
	if r.Status != domain.StatusConfirmed {
		t.Errorf("expected confirmed without confirmation setting, got %q", r.Status)
	}
	if got := f.sink.topics(); len(got) != 1 || got[0] != "table_reservations.created" {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestTableReservationService_Create_PendingWhenConfirmationRequired(t *testing.T) {
	f := newTableFixture(t)
	settings := domain.DefaultSettings("R")
	settings.ReservationsNeedConfirmation = true
	if err := f.store.Settings().Save(context.Background(), settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	out := f.svc.Create(context.Background(), guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:30")})
	if !out.IsOk() {
		t.Fatalf("unexpected problem: %v", out.Problem())
	}
	if out.Value().Status != domain.StatusPending {
		t.Errorf("expected pending, got %q", out.Value().Status)
	}
}

func TestTableReservationService_Create_ConflictUnderLock(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	if out := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:30")}); !out.IsOk() {
		t.Fatalf("first create failed: %v", out.Problem())
	}

	out := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "19:00", "20:00")})
	if out.IsOk() {
		t.Fatal("expected conflict, got success")
	}
	if out.Problem().Kind != domain.KindConflict || out.Problem().StatusCode() != 409 {
		t.Errorf("expected 409 conflict, got %v (%d)", out.Problem().Kind, out.Problem().StatusCode())
	}
}

func TestTableReservationService_Create_ConcurrentSameSlot(t *testing.T) {
	f := newTableFixture(t)
	const callers = 16

	var wg sync.WaitGroup
	results := make([]domain.Outcome[*domain.TableReservation], callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.svc.Create(context.Background(), guest, ports.CreateTableReservationInput{
				TableID:      "T",
				BookingInput: booking("2025-06-01", "18:00", "19:00"),
			})
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, r := range results {
		switch {
		case r.IsOk():
			ok++
		case r.Problem().Kind == domain.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected problem: %v", r.Problem())
		}
	}
	if ok != 1 || conflicts != callers-1 {
		t.Fatalf("expected exactly one winner, got ok=%d conflicts=%d", ok, conflicts)
	}
}

func TestTableReservationService_Create_UnknownTable(t *testing.T) {
	f := newTableFixture(t)

	out := f.svc.Create(context.Background(), guest, ports.CreateTableReservationInput{TableID: "missing", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	if out.IsOk() || out.Problem().Kind != domain.KindNotFound {
		t.Fatalf("expected not found, got %+v", out.Problem())
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestTableReservationService_Update_NoOpSkipsConflictCheck(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	created := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:30")})
	if !created.IsOk() {
		t.Fatalf("create failed: %v", created.Problem())
	}
	before := f.repo.calls

	in := booking("2025-06-01", "18:00", "19:30")
	in.Guests = 3
	in.Notes = "window seat"
	out := f.svc.Update(ctx, guest, created.Value().ID, ports.UpdateTableReservationInput{TableID: "T", BookingInput: in})
	if !out.IsOk() {
		t.Fatalf("update failed: %v", out.Problem())
	}
	if f.repo.calls != before {
		t.Errorf("no-op slot edit must not run the conflict check (%d calls)", f.repo.calls-before)
	}
	if out.Value().Guests != 3 || out.Value().Notes != "window seat" {
		t.Errorf("fields not applied: %+v", out.Value())
	}
}

func TestTableReservationService_Update_MoveIntoTakenSlot(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	_ = f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "U", BookingInput: booking("2025-06-01", "18:00", "20:00")})
	mine := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})

	out := f.svc.Update(ctx, guest, mine.Value().ID, ports.UpdateTableReservationInput{TableID: "U", BookingInput: booking("2025-06-01", "19:00", "20:30")})
	if out.IsOk() || out.Problem().Kind != domain.KindConflict {
		t.Fatalf("expected conflict moving into a taken slot, got %+v", out.Problem())
	}

	out = f.svc.Update(ctx, guest, mine.Value().ID, ports.UpdateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:30", "19:30")})
	if !out.IsOk() {
		t.Fatalf("shifting within own slot must not conflict with itself: %v", out.Problem())
	}
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

func TestTableReservationService_CancelFreesSlot(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	first := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	cancelled := f.svc.CancelAsUser(ctx, guest, "guest", first.Value().ID)
	if !cancelled.IsOk() || cancelled.Value().Status != domain.StatusCancelled {
		t.Fatalf("cancel failed: %+v", cancelled.Problem())
	}

	again := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	if !again.IsOk() {
		t.Fatalf("cancelled booking must free the slot: %v", again.Problem())
	}

	topics := f.sink.topics()
	if topics[1] != "table_reservations.status_changed" {
		t.Errorf("expected status_changed event, got %v", topics)
	}
}

type failingTableReservations struct {
	ports.TableReservationRepository
}

func (failingTableReservations) GetByID(context.Context, string) (*domain.TableReservation, error) {
	return nil, errors.New("connection reset")
}

func TestTableReservationService_StoreErrorIsUnexpected(t *testing.T) {
	store := memory.NewStore()
	svc := NewTableReservationService(failingTableReservations{store.TableReservations()}, store.Tables(), store.Settings(), memory.NewSlotLocker(), nil, discardLogger)

	out := svc.Get(context.Background(), guest, "any")
	if out.IsOk() {
		t.Fatal("expected failure")
	}
	if out.Problem().Kind != domain.KindFailure || out.Problem().StatusCode() != 500 {
		t.Errorf("expected 500 failure, got %v", out.Problem())
	}
	if out.Problem().Message != "internal server error" {
		t.Errorf("infrastructure detail leaked: %q", out.Problem().Message)
	}
}

func TestTableReservationService_ListMine(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()
	other := domain.Principal{UserID: "other", Authenticated: true, EmailVerified: true}

	_ = f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	_ = f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-02", "18:00", "19:00")})
	_ = f.svc.Create(ctx, other, ports.CreateTableReservationInput{TableID: "U", BookingInput: booking("2025-06-01", "18:00", "19:00")})

	out := f.svc.ListMine(ctx, guest, 1, 1)
	if !out.IsOk() {
		t.Fatalf("list failed: %v", out.Problem())
	}
	page := out.Value()
	if page.Total != 2 || len(page.Items) != 1 || page.TotalPages != 2 {
		t.Fatalf("unexpected page: total=%d items=%d pages=%d", page.Total, len(page.Items), page.TotalPages)
	}
	if page.Items[0].UserID != "guest" {
		t.Errorf("foreign reservation listed: %+v", page.Items[0])
	}
}

// ---------------------------------------------------------------------------
// Concurrent writers
// ---------------------------------------------------------------------------

// interleavedReads runs between once, right after the first GetByID, to
// let another writer commit between a service's read and its write.
type interleavedReads struct {
	ports.TableReservationRepository
	once    sync.Once
	between func()
}

func (r *interleavedReads) GetByID(ctx context.Context, id string) (*domain.TableReservation, error) {
	res, err := r.TableReservationRepository.GetByID(ctx, id)
	r.once.Do(r.between)
	return res, err
}

func (f *tableFixture) interleaved(between func()) *TableReservationService {
	repo := &interleavedReads{TableReservationRepository: f.store.TableReservations(), between: between}
	return NewTableReservationService(repo, f.store.Tables(), f.store.Settings(), memory.NewSlotLocker(), nil, discardLogger)
}

func TestTableReservationService_Update_CancelledMeanwhileIsNotRevived(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()
	bob := domain.Principal{UserID: "bob", Authenticated: true, EmailVerified: true}

	alice := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	if !alice.IsOk() {
		t.Fatalf("create failed: %v", alice.Problem())
	}
	id := alice.Value().ID

	var bobs domain.Outcome[*domain.TableReservation]
	svc := f.interleaved(func() {
		if out := f.svc.CancelAsUser(ctx, guest, "guest", id); !out.IsOk() {
			t.Errorf("cancel failed: %v", out.Problem())
		}
		bobs = f.svc.Create(ctx, bob, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	})

	in := booking("2025-06-01", "18:00", "19:00")
	in.Notes = "window seat"
	out := svc.Update(ctx, guest, id, ports.UpdateTableReservationInput{TableID: "T", BookingInput: in})
	if out.IsOk() || out.Problem().Kind != domain.KindConflict {
		t.Fatalf("expected conflict for an edit of a cancelled booking, got %+v", out.Problem())
	}
	if !bobs.IsOk() {
		t.Fatalf("bob should have taken the freed slot: %v", bobs.Problem())
	}

	active, err := f.store.TableReservations().ListConflicting(ctx, "T", in.Date, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].UserID != "bob" {
		t.Fatalf("expected only bob's booking active, got %d", len(active))
	}
}

func TestTableReservationService_Update_MoveOfCancelledMeanwhileIsRejected(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	created := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	id := created.Value().ID

	svc := f.interleaved(func() { _ = f.svc.CancelAsUser(ctx, guest, "guest", id) })
	out := svc.Update(ctx, guest, id, ports.UpdateTableReservationInput{TableID: "U", BookingInput: booking("2025-06-01", "20:00", "21:00")})
	if out.IsOk() || out.Problem().Kind != domain.KindConflict {
		t.Fatalf("expected conflict, got %+v", out.Problem())
	}

	stored, _ := f.store.TableReservations().GetByID(ctx, id)
	if stored.Status != domain.StatusCancelled || stored.TableID != "T" {
		t.Errorf("cancelled booking was rewritten: %+v", stored)
	}
}

func TestTableReservationService_RacingTransitionsOnlyOneLands(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	created := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	id := created.Value().ID

	svc := f.interleaved(func() { _ = f.svc.CancelAsUser(ctx, guest, "guest", id) })
	out := svc.UpdateStatus(ctx, guest, id, domain.StatusCompleted)
	if out.IsOk() || out.Problem().Kind != domain.KindConflict {
		t.Fatalf("expected conflict, got %+v", out.Problem())
	}

	stored, _ := f.store.TableReservations().GetByID(ctx, id)
	if stored.Status != domain.StatusCancelled {
		t.Errorf("expected the cancel to win, got %s", stored.Status)
	}
}

func TestTableReservationService_TerminalStateChecksFreshRead(t *testing.T) {
	f := newTableFixture(t)
	ctx := context.Background()

	created := f.svc.Create(ctx, guest, ports.CreateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	id := created.Value().ID
	if out := f.svc.CancelAsUser(ctx, guest, "guest", id); !out.IsOk() {
		t.Fatalf("cancel failed: %v", out.Problem())
	}

	if out := f.svc.UpdateStatus(ctx, guest, id, domain.StatusConfirmed); out.IsOk() || out.Problem().Kind != domain.KindValidation {
		t.Errorf("expected validation error reviving a cancelled booking, got %+v", out.Problem())
	}
	edit := f.svc.Update(ctx, guest, id, ports.UpdateTableReservationInput{TableID: "T", BookingInput: booking("2025-06-01", "18:00", "19:00")})
	if edit.IsOk() || edit.Problem().Kind != domain.KindValidation {
		t.Errorf("expected validation error editing a cancelled booking, got %+v", edit.Problem())
	}
}
