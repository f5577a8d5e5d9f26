package service

import (
	"sync"
	"sync/atomic"
)

// SelfPreservation decides whether eviction may run. When the renewals observed during the last sweep
// interval fall below RenewalPercentThreshold of the expected number, the node assumes it is partitioned
// from its clients rather than that they all died, and stops evicting.
type SelfPreservation struct {
	enabled         bool
	percent         float64
	alpha           float64
	renewsPerClient float64

	renews       atomic.Int64
	lastObserved atomic.Int64

	mu       sync.Mutex
	clients  int
	expected float64
	metrics  *Metrics
}

// NewSelfPreservation creates the renewal accounting for cfg.
//
// Called from NewRegistry; the evictor reads it from the registry on every sweep.
func NewSelfPreservation(cfg RegistryConfig, metrics *Metrics) *SelfPreservation {
	perClient := 1.0
	if cfg.ExpectedRenewalInterval > 0 {
		perClient = float64(cfg.EvictionInterval) / float64(cfg.ExpectedRenewalInterval)
	}
	alpha := cfg.ExpectedRenewalSmoothing
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return &SelfPreservation{
		enabled:         cfg.SelfPreservationEnabled,
		percent:         cfg.RenewalPercentThreshold,
		alpha:           alpha,
		renewsPerClient: perClient,
		metrics:         metrics,
	}
}

// RecordRenewal counts one successful renewal in the current interval.
func (s *SelfPreservation) RecordRenewal() {
	s.renews.Add(1)
}

// InstanceRegistered raises the expected renewals by one client.
func (s *SelfPreservation) InstanceRegistered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients++
	s.expected += s.renewsPerClient
	s.publishLocked()
}

// InstanceCancelled lowers the expected renewals by one client.
func (s *SelfPreservation) InstanceCancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients == 0 {
		return
	}
	s.clients--
	s.expected -= s.renewsPerClient
	if s.expected < 0 {
		s.expected = 0
	}
	s.publishLocked()
}

// Recompute moves the expected renewals towards registrySize clients, smoothed with an EWMA.
func (s *SelfPreservation) Recompute(registrySize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = registrySize
	target := float64(registrySize) * s.renewsPerClient
	s.expected = s.alpha*target + (1-s.alpha)*s.expected
	s.publishLocked()
}

// Reset sets the expected renewals for count clients without smoothing. Used when the node opens for traffic.
func (s *SelfPreservation) Reset(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = count
	s.expected = float64(count) * s.renewsPerClient
	s.publishLocked()
}

// EndInterval closes the current renewal interval and returns the renewals it observed.
func (s *SelfPreservation) EndInterval() int64 {
	observed := s.renews.Swap(0)
	s.lastObserved.Store(observed)
	s.metrics.ObservedRenewals.Set(float64(observed))
	return observed
}

// Expected returns the smoothed number of renewals expected per interval.
func (s *SelfPreservation) Expected() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expected
}

// Threshold returns the minimum renewals per interval for eviction to run.
func (s *SelfPreservation) Threshold() float64 {
	return s.Expected() * s.percent
}

// IsEvictionEnabled reports whether the last closed interval observed enough renewals.
// Always true when self-preservation is switched off.
func (s *SelfPreservation) IsEvictionEnabled() bool {
	if !s.enabled {
		return true
	}
	s.mu.Lock()
	expected := s.expected
	s.mu.Unlock()
	return expected > 0 && float64(s.lastObserved.Load()) >= expected*s.percent
}

func (s *SelfPreservation) publishLocked() {
	s.metrics.ExpectedRenewals.Set(s.expected)
}
