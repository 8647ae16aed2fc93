// Package sim is the reference host for the parfold aggregation core: a
// telemetry simulation that fork-join-iterates an entity population every
// tick, emits alert and recovery events from worker goroutines through
// parfold writers, flushes after the join barrier, and delivers the drained
// events single-threaded to the journal and webhook.
package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parfold/parfold"
	"github.com/parfold/parfold/events"
	"github.com/parfold/parfold/forkjoin"
	"github.com/parfold/parfold/internal/config"
	"github.com/parfold/parfold/internal/domain"
	"github.com/parfold/parfold/internal/journal"
	"github.com/parfold/parfold/internal/provider"
	"github.com/parfold/parfold/internal/ratelimiter"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the constructor signature clean; nil hooks are no-ops.
type MetricHooks struct {
	OnFlush        func(alerts, recoveries, alerting int, d time.Duration)
	OnDelivered    func(kind domain.Kind, n int)
	OnJournalError func()
	OnWebhookError func()
}

func (h *MetricHooks) fillNops() {
	if h.OnFlush == nil {
		h.OnFlush = func(int, int, int, time.Duration) {}
	}
	if h.OnDelivered == nil {
		h.OnDelivered = func(domain.Kind, int) {}
	}
	if h.OnJournalError == nil {
		h.OnJournalError = func() {}
	}
	if h.OnWebhookError == nil {
		h.OnWebhookError = func() {}
	}
}

// Snapshot is a point-in-time view of the simulation for the stats API.
type Snapshot struct {
	Tick           uint64    `json:"tick"`
	Entities       int       `json:"entities"`
	Alerting       int       `json:"alerting"`
	LastAlerts     int       `json:"last_alerts"`
	LastRecoveries int       `json:"last_recoveries"`
	TotalDelivered uint64    `json:"total_delivered"`
	LastFlushAt    time.Time `json:"last_flush_at"`
}

// Simulation owns the full per-tick cycle:
//
//	fork: ForEach over entities, workers write events via parfold writers
//	join: ForEach returns only after every worker has
//	flush: Registry.FlushAll merges all buckets into the output queues
//	deliver: drain queues, rate-limit, persist, notify — single-threaded
//
// The output queues are only ever touched from the tick goroutine, which is
// exactly the single-owner contract they and the flush require.
type Simulation struct {
	cfg    *config.Config
	runner forkjoin.Runner
	logger *zap.Logger
	hooks  MetricHooks

	reg        *parfold.Registry
	alerts     *parfold.Collector[domain.Alert]
	recoveries *parfold.Collector[domain.Recovery]
	alertQ     *events.Queue[domain.Alert]
	recoveryQ  *events.Queue[domain.Recovery]

	journal journal.EventJournal
	limiter *ratelimiter.KindLimiters
	prov    provider.Provider

	entities []*entity
	rngs     []*rand.Rand // one per worker slot; never shared across slots
	tick     uint64       // owned by the tick goroutine

	mu   sync.RWMutex
	snap Snapshot
}

// New builds a Simulation. The journal, limiter and provider are injected so
// tests can substitute the in-memory journal and a local webhook mock.
func New(
	cfg *config.Config,
	j journal.EventJournal,
	limiter *ratelimiter.KindLimiters,
	prov provider.Provider,
	logger *zap.Logger,
	hooks MetricHooks,
) *Simulation {
	hooks.fillNops()

	runner := forkjoin.NewPool(cfg.Workers)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rngs := make([]*rand.Rand, runner.Workers())
	for i := range rngs {
		rngs[i] = rand.New(rand.NewPCG(seed, uint64(i)))
	}

	seedRng := rand.New(rand.NewPCG(seed, uint64(len(rngs))))
	entities := make([]*entity, cfg.Entities)
	for i := range entities {
		entities[i] = &entity{id: i, value: 30 + seedRng.Float64()*40}
	}

	s := &Simulation{
		cfg:       cfg,
		runner:    runner,
		logger:    logger,
		hooks:     hooks,
		reg:       parfold.NewRegistry(),
		alertQ:    events.NewQueue[domain.Alert](),
		recoveryQ: events.NewQueue[domain.Recovery](),
		journal:   j,
		limiter:   limiter,
		prov:      prov,
		entities:  entities,
		rngs:      rngs,
	}
	s.alerts = parfold.Register[domain.Alert](s.reg, s.alertQ)
	s.recoveries = parfold.Register[domain.Recovery](s.reg, s.recoveryQ)
	s.snap = Snapshot{Entities: len(entities)}

	return s
}

// Run executes ticks at the configured interval until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) {
	s.logger.Info("simulation started",
		zap.Int("workers", s.runner.Workers()),
		zap.Int("entities", len(s.entities)),
		zap.Duration("tick_interval", s.cfg.TickInterval),
	)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation stopping", zap.Uint64("ticks", s.tick))
			return
		case <-ticker.C:
			if err := s.Step(ctx); err != nil {
				if ctx.Err() != nil {
					continue // shutdown race; the Done branch will exit
				}
				s.logger.Error("tick failed", zap.Uint64("tick", s.tick), zap.Error(err))
			}
		}
	}
}

// Step runs one full cycle: parallel phase, flush, delivery. Exported so
// tests can drive the simulation tick by tick without the ticker.
func (s *Simulation) Step(ctx context.Context) error {
	s.tick++
	tick := s.tick
	now := time.Now().UTC()

	// Parallel phase. Workers write only through their own slot's handles;
	// ForEach's return is the join barrier that makes the flush below safe.
	err := forkjoin.ForEach(ctx, s.runner, s.entities, func(_ context.Context, worker int, e *entity) error {
		e.step(s.rngs[worker])

		switch {
		case !e.alerting && e.value > s.cfg.AlertThreshold:
			e.alerting = true
			severity := domain.SeverityWarning
			if e.value > s.cfg.CriticalThreshold {
				severity = domain.SeverityCritical
			}
			s.alerts.Writer(worker).Write(domain.Alert{
				ID:        uuid.New().String(),
				EntityID:  e.id,
				Severity:  severity,
				Value:     e.value,
				Threshold: s.cfg.AlertThreshold,
				Tick:      tick,
				EmittedAt: now,
			})
		case e.alerting && e.value <= s.cfg.AlertThreshold:
			e.alerting = false
			s.recoveries.Writer(worker).Write(domain.Recovery{
				ID:        uuid.New().String(),
				EntityID:  e.id,
				Value:     e.value,
				Tick:      tick,
				EmittedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Flush: merge every worker bucket into the single-owner queues.
	flushStart := time.Now()
	s.reg.FlushAll()
	nAlerts := s.alertQ.Len()
	nRecoveries := s.recoveryQ.Len()
	flushDur := time.Since(flushStart)
	flushedAt := time.Now().UTC()

	alerting := 0
	for _, e := range s.entities {
		if e.alerting {
			alerting++
		}
	}
	s.hooks.OnFlush(nAlerts, nRecoveries, alerting, flushDur)

	// Delivery: drain the queues on this goroutine, their sole owner.
	delivered := s.deliver(ctx, tick, nAlerts, nRecoveries)

	s.mu.Lock()
	s.snap.Tick = tick
	s.snap.Alerting = alerting
	s.snap.LastAlerts = nAlerts
	s.snap.LastRecoveries = nRecoveries
	s.snap.TotalDelivered += uint64(delivered)
	s.snap.LastFlushAt = flushedAt
	s.mu.Unlock()

	if nAlerts > 0 || nRecoveries > 0 {
		s.logger.Debug("tick flushed",
			zap.Uint64("tick", tick),
			zap.Int("alerts", nAlerts),
			zap.Int("recoveries", nRecoveries),
			zap.Int("alerting", alerting),
			zap.Duration("flush", flushDur),
		)
	}
	return nil
}

// deliver drains both queues and persists the records, pacing each kind
// through its rate limiter. Journal and webhook failures are logged and
// counted, never retried: the tick loop must not wedge on a slow sink.
func (s *Simulation) deliver(ctx context.Context, tick uint64, nAlerts, nRecoveries int) int {
	delivered := 0

	if alerts := s.alertQ.Drain(); len(alerts) > 0 {
		records := make([]domain.Event, len(alerts))
		for i, a := range alerts {
			records[i] = a.Record()
		}
		delivered += s.persist(ctx, domain.KindAlert, records)
	}

	if recoveries := s.recoveryQ.Drain(); len(recoveries) > 0 {
		records := make([]domain.Event, len(recoveries))
		for i, r := range recoveries {
			records[i] = r.Record()
		}
		delivered += s.persist(ctx, domain.KindRecovery, records)
	}

	if delivered > 0 {
		if err := s.prov.NotifyFlush(ctx, provider.FlushSummary{
			Tick:       tick,
			Alerts:     nAlerts,
			Recoveries: nRecoveries,
			FlushedAt:  time.Now().UTC(),
		}); err != nil {
			s.hooks.OnWebhookError()
			s.logger.Warn("webhook notify failed", zap.Uint64("tick", tick), zap.Error(err))
		}
	}
	return delivered
}

func (s *Simulation) persist(ctx context.Context, kind domain.Kind, records []domain.Event) int {
	if err := s.limiter.WaitBatch(ctx, kind, len(records)); err != nil {
		return 0 // ctx cancelled during shutdown
	}
	if err := s.journal.Insert(ctx, records); err != nil {
		s.hooks.OnJournalError()
		s.logger.Error("journal insert failed",
			zap.String("kind", string(kind)),
			zap.Int("count", len(records)),
			zap.Error(err),
		)
		return 0
	}
	s.hooks.OnDelivered(kind, len(records))
	return len(records)
}

// Snapshot returns the latest per-tick view for the stats endpoint.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
