package service

import (
	"sync"

	"myregistry/domain"
)

type queuedTask struct {
	task    domain.ReplicationTask
	removed bool
}

// taskQueue is the pending work of one peer. Tasks for the same (app, id) are compacted on enqueue:
//   - Register supersedes every pending task of the key;
//   - Cancel supersedes every pending task; after a pending Register that created the lease both go;
//   - Heartbeat is absorbed by a pending Register and replaces a pending Heartbeat, moving to the tail so
//     it is never sent ahead of a status change queued after the old one;
//   - StatusUpdate and DeleteStatusOverride supersede each other.
//
// When more than maxSize tasks are pending the oldest is dropped. Removed tasks stay in entries as
// tombstones until take passes them or they outnumber the live tasks.
type taskQueue struct {
	mu        sync.Mutex
	entries   []*queuedTask
	pending   map[domain.InstanceKey][]*queuedTask
	live      int
	maxSize   int
	batchSize int
	ready     chan struct{}
}

// enqueueResult reports what compaction did with one task.
type enqueueResult struct {
	Compacted int
	Dropped   int
}

func newTaskQueue(maxSize, batchSize int) *taskQueue {
	return &taskQueue{
		pending:   make(map[domain.InstanceKey][]*queuedTask),
		maxSize:   maxSize,
		batchSize: batchSize,
		ready:     make(chan struct{}, 1),
	}
}

func (q *taskQueue) enqueue(task domain.ReplicationTask) enqueueResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	var res enqueueResult
	key := task.Key()
	pend := q.pending[key]

	switch task.Action {
	case domain.ActionRegister:
		res.Compacted += q.removeLocked(key, nil)
		q.appendLocked(key, task)

	case domain.ActionCancel:
		newLeasePending := false
		for _, p := range pend {
			if p.task.Action == domain.ActionRegister && p.task.NewLease {
				newLeasePending = true
			}
		}
		res.Compacted += q.removeLocked(key, nil)
		if newLeasePending {
			res.Compacted++
		} else {
			q.appendLocked(key, task)
		}

	case domain.ActionHeartbeat:
		for _, p := range pend {
			if p.task.Action == domain.ActionRegister {
				res.Compacted++
				return res
			}
		}
		res.Compacted += q.removeLocked(key, func(a domain.ReplicationAction) bool {
			return a == domain.ActionHeartbeat
		})
		q.appendLocked(key, task)

	case domain.ActionStatusUpdate, domain.ActionDeleteStatusOverride:
		res.Compacted += q.removeLocked(key, func(a domain.ReplicationAction) bool {
			return a == domain.ActionStatusUpdate || a == domain.ActionDeleteStatusOverride
		})
		q.appendLocked(key, task)

	default:
		q.appendLocked(key, task)
	}

	for q.live > q.maxSize {
		q.dropOldestLocked()
		res.Dropped++
	}
	q.compactLocked()
	if q.live >= q.batchSize {
		select {
		case q.ready <- struct{}{}:
		default:
		}
	}
	return res
}

func (q *taskQueue) appendLocked(key domain.InstanceKey, task domain.ReplicationTask) {
	e := &queuedTask{task: task}
	q.entries = append(q.entries, e)
	q.pending[key] = append(q.pending[key], e)
	q.live++
}

// removeLocked marks the pending tasks of key matching the filter (all when nil) as removed.
func (q *taskQueue) removeLocked(key domain.InstanceKey, match func(domain.ReplicationAction) bool) int {
	pend := q.pending[key]
	kept := pend[:0]
	n := 0
	for _, p := range pend {
		if match == nil || match(p.task.Action) {
			p.removed = true
			q.live--
			n++
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		delete(q.pending, key)
	} else {
		q.pending[key] = kept
	}
	return n
}

// compactLocked drops tombstones from entries once they outnumber the live tasks.
func (q *taskQueue) compactLocked() {
	if len(q.entries)-q.live <= q.live {
		return
	}
	kept := make([]*queuedTask, 0, q.live)
	for _, e := range q.entries {
		if !e.removed {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

func (q *taskQueue) dropOldestLocked() {
	for i, e := range q.entries {
		if e.removed {
			continue
		}
		q.detachLocked(e)
		q.entries = q.entries[i+1:]
		return
	}
}

// detachLocked removes one entry from the pending index.
func (q *taskQueue) detachLocked(e *queuedTask) {
	e.removed = true
	q.live--
	key := e.task.Key()
	pend := q.pending[key]
	for i, p := range pend {
		if p == e {
			pend = append(pend[:i], pend[i+1:]...)
			break
		}
	}
	if len(pend) == 0 {
		delete(q.pending, key)
	} else {
		q.pending[key] = pend
	}
}

// take removes and returns up to n tasks in enqueue order.
func (q *taskQueue) take(n int) []domain.ReplicationTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.ReplicationTask, 0, min(n, q.live))
	i := 0
	for ; i < len(q.entries) && len(out) < n; i++ {
		e := q.entries[i]
		if e.removed {
			continue
		}
		out = append(out, e.task)
		q.detachLocked(e)
	}
	q.entries = append([]*queuedTask(nil), q.entries[i:]...)
	return out
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.live
}

// clear drops every pending task and returns how many were dropped.
func (q *taskQueue) clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.live
	q.entries = nil
	q.pending = make(map[domain.InstanceKey][]*queuedTask)
	q.live = 0
	return n
}
