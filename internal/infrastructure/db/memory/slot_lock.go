package memory

import (
	"context"
	"sync"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// SlotLocker serialises writers per (table, date) inside one process. It is
// sufficient only when a single API instance owns the store.
type SlotLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewSlotLocker() *SlotLocker {
	return &SlotLocker{slots: make(map[string]*slot)}
}

func (l *SlotLocker) WithSlot(ctx context.Context, tableID string, date time.Time, fn func(ctx context.Context) error) error {
	key := tableID + ":" + domain.FormatDate(date)

	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		s.refs--
		if s.refs == 0 {
			delete(l.slots, key)
		}
		l.mu.Unlock()
	}()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		return domain.ErrLockTimeout
	}
	defer func() { <-s.ch }()

	return fn(ctx)
}

var _ ports.SlotLocker = (*SlotLocker)(nil)
