package memory

import (
	"context"
	"sort"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

func matches(b domain.Booking, f ports.ReservationFilter) bool {
	if f.RestaurantID != "" && b.RestaurantID != f.RestaurantID {
		return false
	}
	if f.UserID != "" && b.UserID != f.UserID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	day := domain.Day(b.Date)
	if !f.DateFrom.IsZero() && day.Before(domain.Day(f.DateFrom)) {
		return false
	}
	if !f.DateTo.IsZero() && day.After(domain.Day(f.DateTo)) {
		return false
	}
	return true
}

func earlier(a, b domain.Booking, aID, bID string) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return aID < bID
}

// paginate slices a sorted result set. A non-positive limit returns
// everything.
func paginate[T any](rows []T, page, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// ReservationRepository is the in-memory ports.ReservationRepository.
type ReservationRepository struct{ s *Store }

func (r *ReservationRepository) Create(_ context.Context, res *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.reservations[res.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *ReservationRepository) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (r *ReservationRepository) Update(_ context.Context, res *domain.Reservation, from domain.ReservationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.reservations[res.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != from {
		return domain.ErrStaleWrite
	}
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *ReservationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

func (r *ReservationRepository) List(_ context.Context, f ports.ReservationFilter) ([]*domain.Reservation, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.Reservation, 0)
	for _, res := range r.s.reservations {
		if matches(res.Booking, f) {
			all = append(all, &res)
		}
	}
	sort.Slice(all, func(i, j int) bool { return earlier(all[i].Booking, all[j].Booking, all[i].ID, all[j].ID) })
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

// TableReservationRepository is the in-memory ports.TableReservationRepository.
type TableReservationRepository struct{ s *Store }

func (r *TableReservationRepository) Create(_ context.Context, res *domain.TableReservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.tableReservations[res.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.tableReservations[res.ID] = *res
	return nil
}

func (r *TableReservationRepository) GetByID(_ context.Context, id string) (*domain.TableReservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.tableReservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (r *TableReservationRepository) Update(_ context.Context, res *domain.TableReservation, from domain.ReservationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tableReservations[res.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != from {
		return domain.ErrStaleWrite
	}
	r.s.tableReservations[res.ID] = *res
	return nil
}

func (r *TableReservationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tableReservations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.tableReservations, id)
	return nil
}

func (r *TableReservationRepository) List(_ context.Context, f ports.ReservationFilter) ([]*domain.TableReservation, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.TableReservation, 0)
	for _, res := range r.s.tableReservations {
		if f.TableID != "" && res.TableID != f.TableID {
			continue
		}
		if matches(res.Booking, f) {
			all = append(all, &res)
		}
	}
	sort.Slice(all, func(i, j int) bool { return earlier(all[i].Booking, all[j].Booking, all[i].ID, all[j].ID) })
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r *TableReservationRepository) ListConflicting(_ context.Context, tableID string, date time.Time, excludeID string) ([]*domain.TableReservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	day := domain.Day(date)
	out := make([]*domain.TableReservation, 0)
	for id, res := range r.s.tableReservations {
		if id == excludeID || res.TableID != tableID || !res.Status.IsActive() {
			continue
		}
		if domain.Day(res.Date).Equal(day) {
			out = append(out, &res)
		}
	}
	return out, nil
}

var (
	_ ports.ReservationRepository      = (*ReservationRepository)(nil)
	_ ports.TableReservationRepository = (*TableReservationRepository)(nil)
)
