package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

const (
	defaultLockTTL = 5 * time.Second
	retryInterval  = 25 * time.Millisecond
)

// release deletes the key only while it still holds our token, so a lock
// that expired and was taken by someone else is left alone.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotLocker serialises table slot writes across API instances.
// Key format: slot:<table_id>:<yyyy-mm-dd>
type SlotLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ ports.SlotLocker = (*SlotLocker)(nil)

// NewSlotLocker creates a SlotLocker. A non-positive ttl uses defaultLockTTL.
func NewSlotLocker(client redis.UniversalClient, ttl time.Duration) *SlotLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SlotLocker{client: client, ttl: ttl}
}

// WithSlot runs fn while holding the (tableID, date) lock. It retries until
// the lock is free, returning domain.ErrLockTimeout if ctx ends or the ttl
// elapses first.
func (l *SlotLocker) WithSlot(ctx context.Context, tableID string, date time.Time, fn func(ctx context.Context) error) error {
	key := l.key(tableID, date)
	token := uuid.NewString()

	acquireCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(acquireCtx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("acquire slot lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-acquireCtx.Done():
			return domain.ErrLockTimeout
		case <-ticker.C:
		}
	}

	defer func() {
		// Release with a fresh context; the caller's may already be done.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		_ = release.Run(releaseCtx, l.client, []string{key}, token).Err()
	}()
	return fn(ctx)
}

func (l *SlotLocker) key(tableID string, date time.Time) string {
	return fmt.Sprintf("slot:%s:%s", tableID, domain.FormatDate(date))
}
