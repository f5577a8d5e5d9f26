package service

import (
	"fmt"
	"testing"

	"myregistry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func task(action domain.ReplicationAction, id string) domain.ReplicationTask {
	return domain.ReplicationTask{Action: action, AppName: "ORDERS", InstanceID: id}
}

func actions(tasks []domain.ReplicationTask) []domain.ReplicationAction {
	out := make([]domain.ReplicationAction, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Action)
	}
	return out
}

func TestTaskQueue_Compaction(t *testing.T) {
	newLease := task(domain.ActionRegister, "o-1")
	newLease.NewLease = true

	cases := []struct {
		name      string
		in        []domain.ReplicationTask
		want      []domain.ReplicationAction
		compacted int
	}{
		{
			name: "register_supersedes_pending",
			in: []domain.ReplicationTask{
				task(domain.ActionHeartbeat, "o-1"),
				task(domain.ActionStatusUpdate, "o-1"),
				task(domain.ActionRegister, "o-1"),
			},
			want:      []domain.ReplicationAction{domain.ActionRegister},
			compacted: 2,
		},
		{
			name: "cancel_after_new_lease_removes_both",
			in: []domain.ReplicationTask{
				newLease,
				task(domain.ActionHeartbeat, "o-1"),
				task(domain.ActionCancel, "o-1"),
			},
			want:      []domain.ReplicationAction{},
			compacted: 3,
		},
		{
			name: "cancel_after_reregistration_is_kept",
			in: []domain.ReplicationTask{
				task(domain.ActionRegister, "o-1"),
				task(domain.ActionCancel, "o-1"),
			},
			want:      []domain.ReplicationAction{domain.ActionCancel},
			compacted: 1,
		},
		{
			name: "heartbeats_collapse",
			in: []domain.ReplicationTask{
				task(domain.ActionHeartbeat, "o-1"),
				task(domain.ActionHeartbeat, "o-1"),
				task(domain.ActionHeartbeat, "o-1"),
			},
			want:      []domain.ReplicationAction{domain.ActionHeartbeat},
			compacted: 2,
		},
		{
			name: "heartbeat_absorbed_by_register",
			in: []domain.ReplicationTask{
				task(domain.ActionRegister, "o-1"),
				task(domain.ActionHeartbeat, "o-1"),
			},
			want:      []domain.ReplicationAction{domain.ActionRegister},
			compacted: 1,
		},
		{
			name: "status_changes_supersede_each_other",
			in: []domain.ReplicationTask{
				task(domain.ActionStatusUpdate, "o-1"),
				task(domain.ActionHeartbeat, "o-1"),
				task(domain.ActionDeleteStatusOverride, "o-1"),
			},
			want:      []domain.ReplicationAction{domain.ActionHeartbeat, domain.ActionDeleteStatusOverride},
			compacted: 1,
		},
		{
			name: "different_keys_never_compact",
			in: []domain.ReplicationTask{
				task(domain.ActionRegister, "o-1"),
				task(domain.ActionRegister, "o-2"),
				task(domain.ActionCancel, "o-3"),
			},
			want:      []domain.ReplicationAction{domain.ActionRegister, domain.ActionRegister, domain.ActionCancel},
			compacted: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := newTaskQueue(100, 10)
			compacted := 0
			for _, in := range tc.in {
				compacted += q.enqueue(in).Compacted
			}
			assert.Equal(t, tc.compacted, compacted)
			assert.Equal(t, len(tc.want), q.len())
			assert.Equal(t, tc.want, actions(q.take(100)))
			assert.Equal(t, 0, q.len())
		})
	}
}

func TestTaskQueue_HeartbeatTakesNewestPayload(t *testing.T) {
	q := newTaskQueue(100, 10)
	first := task(domain.ActionHeartbeat, "o-1")
	first.LastDirtyTimestamp = 1
	second := task(domain.ActionHeartbeat, "o-1")
	second.LastDirtyTimestamp = 2

	q.enqueue(first)
	q.enqueue(second)

	got := q.take(10)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].LastDirtyTimestamp)
}

func TestTaskQueue_MergedHeartbeatFollowsStatusChange(t *testing.T) {
	q := newTaskQueue(100, 10)
	first := task(domain.ActionHeartbeat, "o-1")
	first.LastDirtyTimestamp = 100
	status := task(domain.ActionStatusUpdate, "o-1")
	status.LastDirtyTimestamp = 200
	second := task(domain.ActionHeartbeat, "o-1")
	second.LastDirtyTimestamp = 200

	q.enqueue(first)
	q.enqueue(status)
	res := q.enqueue(second)
	assert.Equal(t, 1, res.Compacted)

	got := q.take(10)
	assert.Equal(t, []domain.ReplicationAction{domain.ActionStatusUpdate, domain.ActionHeartbeat}, actions(got))
	assert.Equal(t, int64(200), got[1].LastDirtyTimestamp)
}

func TestTaskQueue_ChurnKeepsEntriesBounded(t *testing.T) {
	q := newTaskQueue(100, 1000)
	for i := 0; i < 10000; i++ {
		reg := task(domain.ActionRegister, "o-1")
		reg.LastDirtyTimestamp = int64(i)
		q.enqueue(reg)
		q.enqueue(task(domain.ActionStatusUpdate, "o-1"))
		q.enqueue(task(domain.ActionHeartbeat, "o-2"))

		q.mu.Lock()
		entries, live := len(q.entries), q.live
		q.mu.Unlock()
		require.LessOrEqual(t, entries, 2*live+1, "iteration %d", i)
	}

	got := q.take(10)
	assert.Equal(t, []domain.ReplicationAction{domain.ActionRegister, domain.ActionStatusUpdate, domain.ActionHeartbeat}, actions(got))
	assert.Equal(t, int64(9999), got[0].LastDirtyTimestamp)
}

func TestTaskQueue_OverflowDropsOldest(t *testing.T) {
	q := newTaskQueue(2, 10)
	q.enqueue(task(domain.ActionRegister, "o-1"))
	q.enqueue(task(domain.ActionRegister, "o-2"))
	res := q.enqueue(task(domain.ActionRegister, "o-3"))

	assert.Equal(t, 1, res.Dropped)
	got := q.take(10)
	require.Len(t, got, 2)
	assert.Equal(t, "o-2", got[0].InstanceID)
	assert.Equal(t, "o-3", got[1].InstanceID)
}

func TestTaskQueue_TakeKeepsOrderAcrossCalls(t *testing.T) {
	q := newTaskQueue(100, 2)
	for i := 0; i < 5; i++ {
		q.enqueue(task(domain.ActionRegister, fmt.Sprintf("o-%d", i)))
	}
	select {
	case <-q.ready:
	default:
		t.Fatal("full batch pending but queue not signalled")
	}

	assert.Len(t, q.take(2), 2)
	rest := q.take(10)
	require.Len(t, rest, 3)
	assert.Equal(t, "o-2", rest[0].InstanceID)

	q.enqueue(task(domain.ActionRegister, "o-9"))
	assert.Equal(t, 1, q.clear())
	assert.Empty(t, q.take(10))
}

func TestTaskQueue_CompactionProperty(t *testing.T) {
	allActions := []domain.ReplicationAction{
		domain.ActionRegister,
		domain.ActionHeartbeat,
		domain.ActionCancel,
		domain.ActionStatusUpdate,
		domain.ActionDeleteStatusOverride,
	}
	rapid.Check(t, func(rt *rapid.T) {
		maxSize := rapid.IntRange(1, 20).Draw(rt, "maxSize")
		q := newTaskQueue(maxSize, 5)
		n := rapid.IntRange(0, 60).Draw(rt, "n")
		for i := 0; i < n; i++ {
			tk := task(
				rapid.SampledFrom(allActions).Draw(rt, "action"),
				fmt.Sprintf("o-%d", rapid.IntRange(0, 3).Draw(rt, "id")),
			)
			tk.NewLease = rapid.Bool().Draw(rt, "newLease")
			q.enqueue(tk)
			assert.LessOrEqual(rt, q.len(), maxSize)
		}

		pending := q.len()
		got := q.take(1000)
		assert.Len(rt, got, pending)

		perKey := make(map[string]map[string]int)
		for _, tk := range got {
			class := string(tk.Action)
			if tk.Action == domain.ActionDeleteStatusOverride {
				class = string(domain.ActionStatusUpdate)
			}
			if perKey[tk.InstanceID] == nil {
				perKey[tk.InstanceID] = make(map[string]int)
			}
			perKey[tk.InstanceID][class]++
		}
		for id, classes := range perKey {
			for class, count := range classes {
				assert.LessOrEqual(rt, count, 1, "%s has %d pending %s tasks", id, count, class)
			}
			assert.False(rt, classes[string(domain.ActionRegister)] > 0 && classes[string(domain.ActionHeartbeat)] > 0,
				"%s has both a register and a heartbeat pending", id)
		}
	})
}
