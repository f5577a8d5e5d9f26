package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the registry and replication collectors exposed on /metrics.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	Renewals             *prometheus.CounterVec
	RenewalsNotFound     prometheus.Counter
	Cancellations        *prometheus.CounterVec
	StaleWrites          *prometheus.CounterVec
	Evictions            prometheus.Counter
	EvictionSweeps       *prometheus.CounterVec
	Instances            prometheus.Gauge
	ExpectedRenewals     prometheus.Gauge
	ObservedRenewals     prometheus.Gauge
	ReplicationEnqueued  *prometheus.CounterVec
	ReplicationCompacted *prometheus.CounterVec
	ReplicationDropped   *prometheus.CounterVec
	ReplicationBatches   *prometheus.CounterVec
	ReplicationQueueSize *prometheus.GaugeVec
	CacheHits            *prometheus.CounterVec
	CacheMisses          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
//
// Parameters: reg: the Prometheus registerer served on /metrics. Panics when a collector is registered
// twice.
//
// Called from cmd/main once.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_registrations_total",
			Help: "Registrations applied, by origin.",
		}, []string{"origin"}),
		Renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_renewals_total",
			Help: "Successful lease renewals, by origin.",
		}, []string{"origin"}),
		RenewalsNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_renewals_not_found_total",
			Help: "Renewals for instances with no lease.",
		}),
		Cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_cancellations_total",
			Help: "Leases cancelled, by origin.",
		}, []string{"origin"}),
		StaleWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_stale_writes_total",
			Help: "Writes rejected because the stored lastDirtyTimestamp is newer, by operation.",
		}, []string{"operation"}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_evictions_total",
			Help: "Expired leases evicted.",
		}),
		EvictionSweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_eviction_sweeps_total",
			Help: "Eviction sweeps, by outcome (evicted, suppressed).",
		}, []string{"outcome"}),
		Instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "registry_instances",
			Help: "Leases currently held.",
		}),
		ExpectedRenewals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "registry_expected_renewals",
			Help: "Expected renewals per sweep interval.",
		}),
		ObservedRenewals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "registry_observed_renewals",
			Help: "Renewals observed during the last sweep interval.",
		}),
		ReplicationEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_replication_enqueued_total",
			Help: "Replication tasks enqueued, by peer.",
		}, []string{"peer"}),
		ReplicationCompacted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_replication_compacted_total",
			Help: "Replication tasks absorbed by compaction, by peer.",
		}, []string{"peer"}),
		ReplicationDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_replication_dropped_total",
			Help: "Replication tasks dropped on buffer overflow or failed sends, by peer.",
		}, []string{"peer"}),
		ReplicationBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_replication_batches_total",
			Help: "Replication requests, by peer and outcome.",
		}, []string{"peer", "outcome"}),
		ReplicationQueueSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "registry_replication_queue_size",
			Help: "Pending replication tasks, by peer.",
		}, []string{"peer"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_response_cache_hits_total",
			Help: "Response cache hits, by level.",
		}, []string{"level"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_response_cache_misses_total",
			Help: "Response cache misses (payload generated).",
		}, []string{"level"}),
	}

	reg.MustRegister(
		m.Registrations, m.Renewals, m.RenewalsNotFound, m.Cancellations, m.StaleWrites,
		m.Evictions, m.EvictionSweeps, m.Instances, m.ExpectedRenewals, m.ObservedRenewals,
		m.ReplicationEnqueued, m.ReplicationCompacted, m.ReplicationDropped, m.ReplicationBatches,
		m.ReplicationQueueSize, m.CacheHits, m.CacheMisses,
	)
	return m
}

// NewNopMetrics creates collectors on a private registry that nothing scrapes.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func origin(isReplication bool) string {
	if isReplication {
		return "replication"
	}
	return "client"
}
