package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	byID   map[string][]string
	failOn string
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.ReservationEvent) error {
	if e.Action == p.failOn {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.byID == nil {
		p.byID = map[string][]string{}
	}
	p.byID[e.ResourceID] = append(p.byID[e.ResourceID], e.Action)
	return nil
}

func (p *recordingPublisher) actions(id string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.byID[id]...)
}

func event(id, action string) domain.ReservationEvent {
	return domain.ReservationEvent{Entity: domain.EntityTableReservation, Action: action, ResourceID: id}
}

func TestDispatcher_PreservesPerResourceOrder(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(4, pub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	ids := []string{"a", "b", "c", "d", "e"}
	order := []string{domain.ActionCreated, domain.ActionUpdated, domain.ActionStatusChanged, domain.ActionDeleted}
	for _, action := range order {
		for _, id := range ids {
			d.Enqueue(event(id, action))
		}
	}

	cancel()
	d.Wait()

	for _, id := range ids {
		got := pub.actions(id)
		if len(got) != len(order) {
			t.Fatalf("resource %s: expected %d events, got %v", id, len(order), got)
		}
		for i := range order {
			if got[i] != order[i] {
				t.Errorf("resource %s: event %d expected %s, got %s", id, i, order[i], got[i])
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingPublisher{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("reservation-42")
	for range 10 {
		if got := d.shardIndex("reservation-42"); got != first {
			t.Fatalf("shard moved from %d to %d", first, got)
		}
	}
}

func TestDispatcher_PublishFailureDoesNotStopWorker(t *testing.T) {
	pub := &recordingPublisher{failOn: domain.ActionUpdated}
	d := NewDispatcher(1, pub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(event("a", domain.ActionCreated))
	d.Enqueue(event("a", domain.ActionUpdated))
	d.Enqueue(event("a", domain.ActionDeleted))

	deadline := time.Now().Add(2 * time.Second)
	for len(pub.actions("a")) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	got := pub.actions("a")
	if len(got) != 2 || got[0] != domain.ActionCreated || got[1] != domain.ActionDeleted {
		t.Fatalf("expected created and deleted after a failed update, got %v", got)
	}
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	d := NewDispatcher(1, &recordingPublisher{}, zerolog.Nop())

	// Workers are not started, so the single queue fills up.
	done := make(chan struct{})
	go func() {
		for range channelBuffer + 10 {
			d.Enqueue(event("a", domain.ActionCreated))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Errorf("expected %d queued events, got %d", channelBuffer, got)
	}
}
