package service

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/domain"
)

// lease is the registry record of one instance. info is guarded by the owning shard lock;
// renewal and eviction timestamps are atomics so renewals only take the shard read lock.
type lease struct {
	info         domain.InstanceInfo
	duration     time.Duration
	registeredAt int64
	serviceUpAt  int64
	lastRenewal  atomic.Int64
	evictedAt    atomic.Int64
}

func newLease(info domain.InstanceInfo, duration time.Duration, nowMs int64) *lease {
	l := &lease{info: info, duration: duration, registeredAt: nowMs}
	l.lastRenewal.Store(nowMs)
	if info.Status == domain.StatusUp {
		l.serviceUpAt = nowMs
	}
	return l
}

func (l *lease) renew(nowMs int64) {
	l.lastRenewal.Store(nowMs)
}

// isExpired reports whether the lease deadline passed. additionalMs extends the deadline to
// compensate for late eviction sweeps.
func (l *lease) isExpired(nowMs, additionalMs int64) bool {
	if l.evictedAt.Load() > 0 {
		return true
	}
	return nowMs > l.lastRenewal.Load()+l.duration.Milliseconds()+additionalMs
}

func (l *lease) leaseInfo() domain.LeaseInfo {
	return domain.LeaseInfo{
		RenewalIntervalInSecs: l.info.LeaseInfo.RenewalIntervalInSecs,
		DurationInSecs:        int(l.duration / time.Second),
		RegistrationTimestamp: l.registeredAt,
		LastRenewalTimestamp:  l.lastRenewal.Load(),
		EvictionTimestamp:     l.evictedAt.Load(),
		ServiceUpTimestamp:    l.serviceUpAt,
	}
}

type appShard struct {
	mu     sync.RWMutex
	leases map[string]*lease
}

// leaseStore is the two-level map app -> id -> lease. Each application has its own lock so
// mutations of one application never block readers of another.
type leaseStore struct {
	mu     sync.RWMutex
	shards map[string]*appShard
	size   atomic.Int64
}

func newLeaseStore() *leaseStore {
	return &leaseStore{shards: make(map[string]*appShard)}
}

func (s *leaseStore) shard(appName string, create bool) *appShard {
	s.mu.RLock()
	sh := s.shards[appName]
	s.mu.RUnlock()
	if sh != nil || !create {
		return sh
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sh = s.shards[appName]; sh == nil {
		sh = &appShard{leases: make(map[string]*lease)}
		s.shards[appName] = sh
	}
	return sh
}

// write runs fn under the write lock of the application shard. With create the shard is added when
// missing; otherwise write returns false for an unknown application without calling fn.
func (s *leaseStore) write(appName string, create bool, fn func(leases map[string]*lease)) bool {
	sh := s.shard(appName, create)
	if sh == nil {
		return false
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fn(sh.leases)
	return true
}

// read runs fn under the read lock of the application shard. Returns false when the application is unknown.
func (s *leaseStore) read(appName string, fn func(leases map[string]*lease)) bool {
	sh := s.shard(appName, false)
	if sh == nil {
		return false
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	fn(sh.leases)
	return true
}

// appNames returns the known application names in sorted order.
func (s *leaseStore) appNames() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.shards))
	for name := range s.shards {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// each calls fn for every lease, one shard at a time under its read lock.
func (s *leaseStore) each(fn func(appName string, l *lease)) {
	for _, name := range s.appNames() {
		s.read(name, func(leases map[string]*lease) {
			for _, l := range leases {
				fn(name, l)
			}
		})
	}
}

func (s *leaseStore) len() int {
	return int(s.size.Load())
}
