package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/api/metrics"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	publishTimeout = 10 * time.Second
)

// Dispatcher routes reservation events to a fixed set of workers using
// consistent hashing on the resource id, guaranteeing per-reservation event
// ordering.
type Dispatcher struct {
	workers   []chan domain.ReservationEvent
	publisher ports.EventPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

var _ ports.EventSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.ReservationEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ReservationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its resource. A full
// queue drops the event rather than stall the request that produced it.
func (d *Dispatcher) Enqueue(event domain.ReservationEvent) {
	idx := d.shardIndex(event.ResourceID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.EventsErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("topic", event.Topic()).
			Str("resource_id", event.ResourceID).
			Int("worker_id", idx).
			Msg("event queue full, dropping event")
	}
}

// shardIndex maps a resource id deterministically to a worker index.
func (d *Dispatcher) shardIndex(resourceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resourceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ReservationEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.EventsQueueDepth.WithLabelValues(label).Dec()
			d.publish(ctx, id, event)
		}
	}
}

// drain publishes whatever is still queued once shutdown has begun.
func (d *Dispatcher) drain(id int, ch <-chan domain.ReservationEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case event := <-ch:
			metrics.EventsQueueDepth.WithLabelValues(label).Dec()
			d.publish(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, id int, event domain.ReservationEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.publisher.Publish(ctx, event)
	metrics.EventPublishDuration.WithLabelValues(event.Topic()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("publish_failed").Inc()
		d.log.Error().Err(err).
			Str("topic", event.Topic()).
			Str("resource_id", event.ResourceID).
			Int("worker_id", id).
			Msg("event publishing failed")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(event.Topic()).Inc()
}
