package memory

import (
	"context"
	"sort"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// TableRepository is the in-memory ports.TableRepository.
type TableRepository struct{ s *Store }

func (r *TableRepository) numberTakenLocked(restaurantID string, number int, excludeID string) bool {
	for id, t := range r.s.tables {
		if id != excludeID && t.RestaurantID == restaurantID && t.Number == number {
			return true
		}
	}
	return false
}

func (r *TableRepository) Create(_ context.Context, t *domain.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.tables[t.ID]; exists || r.numberTakenLocked(t.RestaurantID, t.Number, "") {
		return domain.ErrDuplicate
	}
	r.s.tables[t.ID] = *t
	return nil
}

func (r *TableRepository) GetByID(_ context.Context, id string) (*domain.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tables[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *TableRepository) Update(_ context.Context, t *domain.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tables[t.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.numberTakenLocked(t.RestaurantID, t.Number, t.ID) {
		return domain.ErrDuplicate
	}
	r.s.tables[t.ID] = *t
	return nil
}

func (r *TableRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tables[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.tables, id)
	return nil
}

func (r *TableRepository) NumberTaken(_ context.Context, restaurantID string, number int, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.numberTakenLocked(restaurantID, number, excludeID), nil
}

func (r *TableRepository) ListByRestaurant(_ context.Context, restaurantID string) ([]*domain.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Table, 0)
	for _, t := range r.s.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

var _ ports.TableRepository = (*TableRepository)(nil)
