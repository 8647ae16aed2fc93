package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/parfold/parfold/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	TicksTotal       prometheus.Counter
	EventsFlushed    *prometheus.CounterVec
	EventsDelivered  *prometheus.CounterVec
	FlushDuration    prometheus.Histogram
	JournalFailures  prometheus.Counter
	WebhookFailures  prometheus.Counter
	EntitiesAlerting prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_ticks_total",
			Help: "Total number of completed fork-join invocations.",
		}),

		EventsFlushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_flushed_total",
			Help: "Events merged from worker buckets into the output queues.",
		}, []string{"kind"}),

		EventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_delivered_total",
			Help: "Events drained from the output queues into the journal.",
		}, []string{"kind"}),

		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flush_duration_seconds",
			Help:    "Time spent draining all worker buckets after the join barrier.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),

		JournalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journal_failures_total",
			Help: "Delivery batches that failed to persist.",
		}),

		WebhookFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webhook_failures_total",
			Help: "Flush summaries the webhook endpoint rejected.",
		}),

		EntitiesAlerting: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "entities_alerting",
			Help: "Entities currently above their alert threshold.",
		}),
	}

	reg.MustRegister(
		m.TicksTotal,
		m.EventsFlushed,
		m.EventsDelivered,
		m.FlushDuration,
		m.JournalFailures,
		m.WebhookFailures,
		m.EntitiesAlerting,
	)

	return m
}

// SimHooks returns the metric callback functions expected by sim.MetricHooks.
// Centralises the prometheus observation calls so the sim package stays
// import-free.
func (m *Metrics) SimHooks() (
	onFlush func(alerts, recoveries, alerting int, d time.Duration),
	onDelivered func(kind domain.Kind, n int),
	onJournalError func(),
	onWebhookError func(),
) {
	onFlush = func(alerts, recoveries, alerting int, d time.Duration) {
		m.TicksTotal.Inc()
		m.EventsFlushed.WithLabelValues(string(domain.KindAlert)).Add(float64(alerts))
		m.EventsFlushed.WithLabelValues(string(domain.KindRecovery)).Add(float64(recoveries))
		m.EntitiesAlerting.Set(float64(alerting))
		m.FlushDuration.Observe(d.Seconds())
	}
	onDelivered = func(kind domain.Kind, n int) {
		m.EventsDelivered.WithLabelValues(string(kind)).Add(float64(n))
	}
	onJournalError = func() { m.JournalFailures.Inc() }
	onWebhookError = func() { m.WebhookFailures.Inc() }
	return
}
