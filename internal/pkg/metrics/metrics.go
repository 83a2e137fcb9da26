// Package metrics defines and registers the custom Prometheus metrics of
// the portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics register with the default registry at package init via
// promauto; the /metrics endpoint serves them alongside echoprometheus's
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - kind: login_succeeded, login_failed, logout, restored, restore_discarded
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events, by kind.",
	},
	[]string{"kind"},
)

// SessionEventsDroppedTotal counts audit events dropped because the worker
// queue was full.
var SessionEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_dropped_total",
		Help:      "Total number of session audit events dropped on a full queue.",
	},
)

// AuditWriteErrorsTotal counts failed audit trail writes.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of session audit events that failed to persist.",
	},
)

// SessionAuthenticated is 1 while an identity is held, 0 otherwise.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "Whether the process currently holds an authenticated identity.",
	},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - view: the protected path (e.g. "/doctor/dashboard")
//   - decision: allow, redirect_to_signin, redirect_to_default
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by view and decision.",
	},
	[]string{"view", "decision"},
)

// LoginDuration measures sign-in requests end to end, including any
// simulated provider latency.
// Label:
//   - result: "success", "rejected", or "error"
var LoginDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of sign-in requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
