package service

import "time"

// RegistryConfig tunes leases, eviction, self-preservation and the delta window.
type RegistryConfig struct {
	DefaultLeaseDuration           time.Duration
	ExpectedRenewalInterval        time.Duration
	EvictionInterval               time.Duration
	RenewalPercentThreshold        float64
	RenewalThresholdUpdateInterval time.Duration
	// ExpectedRenewalSmoothing is the EWMA weight given to a fresh recompute of expected renewals.
	ExpectedRenewalSmoothing float64
	SelfPreservationEnabled  bool
	DeltaRetention           time.Duration
	DeltaRetentionInterval   time.Duration
}

// DefaultRegistryConfig returns the registry defaults.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		DefaultLeaseDuration:           90 * time.Second,
		ExpectedRenewalInterval:        30 * time.Second,
		EvictionInterval:               60 * time.Second,
		RenewalPercentThreshold:        0.85,
		RenewalThresholdUpdateInterval: 15 * time.Minute,
		ExpectedRenewalSmoothing:       0.5,
		SelfPreservationEnabled:        true,
		DeltaRetention:                 3 * time.Minute,
		DeltaRetentionInterval:         30 * time.Second,
	}
}

// ReplicationConfig tunes the per-peer replication queues and membership refresh.
type ReplicationConfig struct {
	BatchSize                int
	MaxBatchingDelay         time.Duration
	MaxBufferSize            int
	RequestTimeout           time.Duration
	FailureThreshold         int
	UnreachableRetryInterval time.Duration
	// MaxBatchesPerSecond limits outbound batches per peer; 0 disables the limit.
	MaxBatchesPerSecond float64
	// Batching sends queued tasks as one batch request; when false each task is sent on its own.
	Batching                  bool
	MembershipRefreshInterval time.Duration
}

// DefaultReplicationConfig returns the replication defaults.
func DefaultReplicationConfig() ReplicationConfig {
	return ReplicationConfig{
		BatchSize:                 250,
		MaxBatchingDelay:          500 * time.Millisecond,
		MaxBufferSize:             10000,
		RequestTimeout:            5 * time.Second,
		FailureThreshold:          3,
		UnreachableRetryInterval:  30 * time.Second,
		MaxBatchesPerSecond:       0,
		Batching:                  true,
		MembershipRefreshInterval: 10 * time.Minute,
	}
}

// ResponseCacheConfig tunes the two-level payload cache of the read endpoints.
type ResponseCacheConfig struct {
	AutoExpiration         time.Duration
	UseReadOnlyCache       bool
	ReadOnlyUpdateInterval time.Duration
}

// DefaultResponseCacheConfig returns the response cache defaults.
func DefaultResponseCacheConfig() ResponseCacheConfig {
	return ResponseCacheConfig{
		AutoExpiration:         180 * time.Second,
		UseReadOnlyCache:       true,
		ReadOnlyUpdateInterval: 30 * time.Second,
	}
}
