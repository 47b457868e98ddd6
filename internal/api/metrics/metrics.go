// Package metrics defines and registers all custom Prometheus metrics for
// the Carthage Créance recovery API. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register themselves with the default registry at init via
// promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carthage"

// ── Validation workflow metrics ──────────────────────────────────────────────

// ValidationTransitionsTotal counts workflow transitions applied to dossier
// validations.
// Labels:
//   - decision: "valide", "rejete" or "remise_en_attente"
var ValidationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_transitions_total",
		Help:      "Total number of validation workflow transitions, by decision.",
	},
	[]string{"decision"},
)

// ValidationConflictsTotal counts validate/reject attempts refused because
// the record was not EN_ATTENTE.
var ValidationConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_conflicts_total",
		Help:      "Total number of validation transitions refused for state conflicts.",
	},
)

// ── Tâche metrics ────────────────────────────────────────────────────────────

// TachesCreatedTotal counts newly created urgent tasks.
// Label:
//   - priorite: "BASSE", "MOYENNE", "HAUTE" or "URGENTE"
var TachesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "taches_created_total",
		Help:      "Total number of urgent tasks created, by priority.",
	},
	[]string{"priorite"},
)

// ── Notification metrics ─────────────────────────────────────────────────────

// NotificationsSentTotal counts delivered notifications.
// Label:
//   - type: the notification type (e.g. "TACHE_URGENTE")
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications delivered, by type.",
	},
	[]string{"type"},
)

// UnreadCacheTotal counts unread-count cache decisions.
// Label:
//   - result: "hit" or "miss"
var UnreadCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unread_cache_total",
		Help:      "Total number of unread-count cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Poller metrics ───────────────────────────────────────────────────────────

// PollCyclesTotal counts refresh cycles run by the polling engines.
// Labels:
//   - collection: the refreshed collection ("taches", "notifications")
//   - result: "ok" or "error"
var PollCyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_cycles_total",
		Help:      "Total number of polling refresh cycles, by collection and result.",
	},
	[]string{"collection", "result"},
)

// PollSnapshotSize tracks the size of the last snapshot delivered by each
// polling engine.
var PollSnapshotSize = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "poll_snapshot_size",
		Help:      "Number of records in the last snapshot delivered by each poller.",
	},
	[]string{"collection"},
)
