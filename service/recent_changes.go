package service

import (
	"sync"
	"time"

	"myregistry/domain"
)

type recentChange struct {
	at   int64
	info domain.InstanceInfo
}

// recentChanges is the delta queue: instance views in change order, kept for the retention window.
type recentChanges struct {
	mu        sync.Mutex
	retention time.Duration
	entries   []recentChange
}

func newRecentChanges(retention time.Duration) *recentChanges {
	return &recentChanges{retention: retention}
}

func (q *recentChanges) add(info domain.InstanceInfo, nowMs int64) {
	q.mu.Lock()
	q.entries = append(q.entries, recentChange{at: nowMs, info: info})
	q.mu.Unlock()
}

// prune drops entries older than the retention window and returns how many were dropped.
func (q *recentChanges) prune(nowMs int64) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pruneLocked(nowMs)
}

func (q *recentChanges) pruneLocked(nowMs int64) int {
	cutoff := nowMs - q.retention.Milliseconds()
	n := 0
	for n < len(q.entries) && q.entries[n].at < cutoff {
		n++
	}
	if n > 0 {
		q.entries = append([]recentChange(nil), q.entries[n:]...)
	}
	return n
}

// snapshot returns the retained changes, oldest first.
func (q *recentChanges) snapshot(nowMs int64) []domain.InstanceInfo {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pruneLocked(nowMs)
	out := make([]domain.InstanceInfo, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.info.Clone())
	}
	return out
}

func (q *recentChanges) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
