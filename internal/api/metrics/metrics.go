// Package metrics defines and registers all custom Prometheus metrics for the
// restaurant API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant"

// ── Policy metrics ────────────────────────────────────────────────────────────

// PolicyRejectionsTotal counts calls rejected by the check pipeline.
// Labels:
//   - entity: the guarded entity (e.g. "table_reservations")
//   - operation: the guarded operation (e.g. "create")
//   - stage: "validation" or "authorization"
//   - kind: the problem kind (e.g. "forbidden", "conflict")
var PolicyRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_rejections_total",
		Help:      "Total number of operations rejected by validation or authorization checks.",
	},
	[]string{"entity", "operation", "stage", "kind"},
)

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationsCreatedTotal counts stored reservations.
// Labels:
//   - entity: "reservations" or "table_reservations"
//   - status: the initial status ("pending" or "confirmed")
var ReservationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations created, by entity and initial status.",
	},
	[]string{"entity", "status"},
)

// ReservationTransitionsTotal counts applied status transitions.
var ReservationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_transitions_total",
		Help:      "Total number of reservation status transitions, by source and target status.",
	},
	[]string{"entity", "from", "to"},
)

// SlotConflictsTotal counts table bookings refused because the slot was taken.
// Label:
//   - phase: "check" when the pipeline caught it, "locked" when the re-check under the slot lock did
var SlotConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of table bookings refused because of an overlapping reservation.",
	},
	[]string{"phase"},
)

// SlotLockWaitDuration measures how long a writer waited for a table slot lock.
var SlotLockWaitDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "slot_lock_wait_seconds",
		Help:      "Time spent acquiring a table slot lock.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts lifecycle events delivered to the broker.
// Label:
//   - topic: "<entity>.<action>"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of reservation lifecycle events published.",
	},
	[]string{"topic"},
)

// EventsErrorsTotal counts events that could not be published.
// Label:
//   - reason: short description of the failure (e.g. "publish_failed", "queue_full")
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of reservation lifecycle events that failed to publish.",
	},
	[]string{"reason"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long a single publish takes.
var EventPublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of event publishing from dequeue to broker acknowledgement.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"topic"},
)
