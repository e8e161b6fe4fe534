// Package metrics defines the custom Prometheus metrics of the storefront
// API. Metrics register with the default registry at package init.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const namespace = "storefront"

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsDeliveredTotal counts events handed to a sink.
// Labels:
//   - sink: sink name (e.g. "kafka", "mongo-audit")
//   - type: domain event type (e.g. "order.placed")
//   - result: "ok" or "error"
var EventsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_delivered_total",
		Help:      "Total number of domain events delivered to a sink, by result.",
	},
	[]string{"sink", "type", "result"},
)

// EventDeliveryDuration measures how long a sink takes to handle one event.
var EventDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_delivery_duration_seconds",
		Help:      "Duration of a single event delivery to a sink.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"sink"},
)

// ── Business metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// OrdersPlacedTotal counts checkout responses.
// Label:
//   - replayed: "true" when an Idempotency-Key matched an earlier order
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed, by whether the response was a replay.",
	},
	[]string{"replayed"},
)

// instrumentedSink records delivery metrics around another sink.
type instrumentedSink struct {
	next ports.EventSink
}

// Instrument wraps sink so every delivery is counted and timed.
func Instrument(sink ports.EventSink) ports.EventSink {
	return instrumentedSink{next: sink}
}

func (s instrumentedSink) Name() string { return s.next.Name() }

func (s instrumentedSink) Handle(ctx context.Context, e domain.Event) error {
	start := time.Now()
	err := s.next.Handle(ctx, e)
	EventDeliveryDuration.WithLabelValues(s.next.Name()).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsDeliveredTotal.WithLabelValues(s.next.Name(), string(e.Type), result).Inc()
	return err
}
