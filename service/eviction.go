package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// EvictionReport describes one sweep.
type EvictionReport struct {
	Expired    int
	Evicted    int
	Limit      int
	Suppressed bool
}

// Evictor removes expired leases once per EvictionInterval unless self-preservation suppresses it.
// At most size - floor(size*RenewalPercentThreshold) leases go per sweep, picked at random so no single
// application is wiped out first.
type Evictor struct {
	registry *Registry
	cfg      RegistryConfig
	clock    interfaces.TimeProvider
	metrics  *Metrics
	logger   log.Logger

	mu            sync.Mutex
	rnd           *rand.Rand
	lastSweep     time.Time
	lastRecompute time.Time
}

// NewEvictor creates the eviction task for registry. Panics on nil registry, clock or logger.
//
// Parameters: registry: the leases to sweep; clock: time source; seed: feeds the victim selection;
// logger: base logger.
//
// Called from cmd/main (seeded from config) and from tests with a fixed seed.
func NewEvictor(registry *Registry, clock interfaces.TimeProvider, seed int64, logger log.Logger) *Evictor {
	registry = helpers.NilPanic(registry, "service.eviction.go: registry is required")
	clock = helpers.NilPanic(clock, "service.eviction.go: clock is required")
	return &Evictor{
		registry:      registry,
		cfg:           registry.cfg,
		clock:         clock,
		metrics:       registry.metrics,
		logger:        log.With(helpers.NilPanic(logger, "service.eviction.go: logger is required"), "component", "evictor"),
		rnd:           rand.New(rand.NewSource(seed)),
		lastRecompute: clock.Now(),
	}
}

// Run sweeps every EvictionInterval until ctx is done.
//
// Called from cmd/main in its own goroutine.
func (e *Evictor) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.EvictionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Sweep()
		}
	}
}

// Sweep closes the renewal interval, refreshes the expected renewals when due and evicts expired leases.
// The lease deadline is extended by the time the sweep ran late (compensation for a stalled scheduler).
//
// Returns: EvictionReport with the expired count, the per-sweep limit, how many were evicted and whether
// self-preservation suppressed the sweep.
//
// Called from Run on every tick and from tests.
func (e *Evictor) Sweep() EvictionReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	var compensation time.Duration
	if !e.lastSweep.IsZero() {
		if late := now.Sub(e.lastSweep) - e.cfg.EvictionInterval; late > 0 {
			compensation = late
		}
	}
	e.lastSweep = now

	sp := e.registry.selfPres
	observed := sp.EndInterval()
	if now.Sub(e.lastRecompute) >= e.cfg.RenewalThresholdUpdateInterval {
		sp.Recompute(e.registry.Size())
		e.lastRecompute = now
	}

	expired := e.registry.expiredLeases(now.UnixMilli(), compensation.Milliseconds())
	report := EvictionReport{Expired: len(expired)}

	if !sp.IsEvictionEnabled() {
		report.Suppressed = true
		e.metrics.EvictionSweeps.WithLabelValues("suppressed").Inc()
		if len(expired) > 0 {
			level.Warn(e.logger).Log(
				"msg", "self-preservation active, eviction suppressed",
				"expired", len(expired),
				"observed", observed,
				"threshold", sp.Threshold(),
			)
		}
		return report
	}

	size := e.registry.Size()
	report.Limit = size - int(float64(size)*e.cfg.RenewalPercentThreshold)
	toEvict := min(len(expired), report.Limit)

	e.rnd.Shuffle(len(expired), func(i, j int) { expired[i], expired[j] = expired[j], expired[i] })
	for _, key := range expired[:toEvict] {
		if e.registry.evict(key, now.UnixMilli(), compensation.Milliseconds()) {
			report.Evicted++
			e.metrics.Evictions.Inc()
		}
	}
	e.metrics.EvictionSweeps.WithLabelValues("evicted").Inc()
	if len(expired) > 0 {
		level.Info(e.logger).Log(
			"msg", "evicted expired leases",
			"expired", len(expired),
			"evicted", report.Evicted,
			"limit", report.Limit,
			"compensationMs", compensation.Milliseconds(),
		)
	}
	return report
}
