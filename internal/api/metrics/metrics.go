// Package metrics defines the custom Prometheus metrics of the travel site.
// All metrics live in the default registry and are exposed on /metrics next to
// the HTTP metrics recorded by the echoprometheus middleware.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel"

// ── Session metrics ──────────────────────────────────────────────────────────

// AuthActionsTotal counts session store actions triggered over HTTP.
// Labels:
//   - action: "register", "login" or "logout"
//   - result: "ok", "partial" or "error"
var AuthActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_actions_total",
		Help:      "Total number of session actions, by action and result.",
	},
	[]string{"action", "result"},
)

var registerStoresOnce sync.Once

// RegisterSessionStores exposes the number of live per-visitor session stores.
// Only the first call has an effect.
func RegisterSessionStores(count func() int) {
	registerStoresOnce.Do(func() {
		promauto.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "session_stores",
				Help:      "Number of per-visitor session stores held in memory.",
			},
			func() float64 { return float64(count()) },
		)
	})
}

// ── Catalog metrics ──────────────────────────────────────────────────────────

// CatalogQueriesTotal counts catalog list requests.
// Label:
//   - category: the requested region, or "Semua"
var CatalogQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_queries_total",
		Help:      "Total number of catalog list queries, by category.",
	},
	[]string{"category"},
)

// ── Feedback metrics ─────────────────────────────────────────────────────────

// FeedbackProcessedTotal counts contact messages taken off the queue.
// Label:
//   - result: "stored", "duplicate", "invalid" or "error"
var FeedbackProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_processed_total",
		Help:      "Total number of contact messages processed, by result.",
	},
	[]string{"result"},
)

// FeedbackQueueDepth tracks messages waiting in each dispatcher worker channel.
var FeedbackQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feedback_queue_depth",
		Help:      "Current number of contact messages pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// FeedbackProcessingDuration measures dequeue-to-stored time.
var FeedbackProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feedback_processing_duration_seconds",
		Help:      "Duration of contact message processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
