package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"
)

// ErrPeerNodeClosed is returned by PeerNode.Shutdown when the node has already been shut down.
var ErrPeerNodeClosed = errors.New("peer node is closed")

// PeerReconciler is the registry side of replication feedback: a 404 on a replicated heartbeat is
// answered with a Register built from CurrentInstance, a 409 hands the peer's newer copy to
// ReconcileWithPeerCopy.
//
// Implemented by *Registry.
type PeerReconciler interface {
	CurrentInstance(appName, id string) (domain.InstanceInfo, bool)
	ReconcileWithPeerCopy(peer domain.InstanceInfo)
}

// PeerNode replicates to one peer. Local mutations are compacted in a bounded queue and drained by a
// single goroutine, either as batches (Batching) or one call per task. After FailureThreshold consecutive
// transport failures the peer is marked unreachable and only one attempt per UnreachableRetryInterval is
// made until a request succeeds again. Tasks of a failed request are dropped; the next heartbeat of each
// instance re-converges the peer.
type PeerNode struct {
	url        string
	client     interfaces.PeerClient
	reconciler PeerReconciler
	cfg        ReplicationConfig
	clock      interfaces.TimeProvider
	metrics    *Metrics
	logger     log.Logger
	limiter    *rate.Limiter
	queue      *taskQueue

	drainMu     sync.Mutex
	lastAttempt time.Time

	reachable     atomic.Bool
	failures      atomic.Int32
	batchesSent   atomic.Int64
	batchesFailed atomic.Int64
	dropped       atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
	done   chan struct{}
}

// NewPeerNode creates the replication node for peerURL and starts its drain goroutine.
// Panics on empty peerURL or nil client, reconciler, clock, metrics or logger.
//
// Parameters: peerURL: normalized peer base URL, also the metrics label; client: wire client for the
// peer; reconciler: usually the local *Registry; cfg: batching, backoff and queue limits.
//
// Called from PeerNodeSet when a peer joins the membership.
func NewPeerNode(
	peerURL string,
	client interfaces.PeerClient,
	reconciler PeerReconciler,
	cfg ReplicationConfig,
	clock interfaces.TimeProvider,
	metrics *Metrics,
	logger log.Logger,
) *PeerNode {
	n := newPeerNode(peerURL, client, reconciler, cfg, clock, metrics, logger)
	go n.run()
	return n
}

func newPeerNode(
	peerURL string,
	client interfaces.PeerClient,
	reconciler PeerReconciler,
	cfg ReplicationConfig,
	clock interfaces.TimeProvider,
	metrics *Metrics,
	logger log.Logger,
) *PeerNode {
	peerURL = helpers.StrPanic(peerURL, "service.peer_node.go: peerURL is required")
	ctx, cancel := context.WithCancel(context.Background())
	n := &PeerNode{
		url:        peerURL,
		client:     helpers.NilPanic(client, "service.peer_node.go: client is required"),
		reconciler: helpers.NilPanic(reconciler, "service.peer_node.go: reconciler is required"),
		cfg:        cfg,
		clock:      helpers.NilPanic(clock, "service.peer_node.go: clock is required"),
		metrics:    helpers.NilPanic(metrics, "service.peer_node.go: metrics is required"),
		logger:     log.With(helpers.NilPanic(logger, "service.peer_node.go: logger is required"), "component", "peer_node", "peer", peerURL),
		queue:      newTaskQueue(cfg.MaxBufferSize, cfg.BatchSize),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	if cfg.MaxBatchesPerSecond > 0 {
		n.limiter = rate.NewLimiter(rate.Limit(cfg.MaxBatchesPerSecond), 1)
	}
	n.reachable.Store(true)
	return n
}

// URL returns the peer base URL.
func (n *PeerNode) URL() string {
	return n.url
}

// Client returns the wire client of the peer.
func (n *PeerNode) Client() interfaces.PeerClient {
	return n.client
}

// Enqueue adds a task to the peer queue, compacting it against pending tasks of the same instance.
// Never blocks on the network; a no-op after Shutdown.
//
// Called from PeerNodeSet.Replicate for every local mutation.
func (n *PeerNode) Enqueue(task domain.ReplicationTask) {
	if n.closed.Load() {
		return
	}
	res := n.queue.enqueue(task)
	n.metrics.ReplicationEnqueued.WithLabelValues(n.url).Inc()
	if res.Compacted > 0 {
		n.metrics.ReplicationCompacted.WithLabelValues(n.url).Add(float64(res.Compacted))
	}
	if res.Dropped > 0 {
		n.dropped.Add(int64(res.Dropped))
		n.metrics.ReplicationDropped.WithLabelValues(n.url).Add(float64(res.Dropped))
		level.Warn(n.logger).Log("msg", "replication buffer full, dropped oldest tasks", "dropped", res.Dropped)
	}
	n.metrics.ReplicationQueueSize.WithLabelValues(n.url).Set(float64(n.queue.len()))
}

// Status returns the diagnostic view of the node.
func (n *PeerNode) Status() domain.PeerStatus {
	return domain.PeerStatus{
		URL:                 n.url,
		Reachable:           n.reachable.Load(),
		PendingTasks:        n.queue.len(),
		ConsecutiveFailures: int(n.failures.Load()),
		BatchesSent:         n.batchesSent.Load(),
		BatchesFailed:       n.batchesFailed.Load(),
		DroppedTasks:        n.dropped.Load(),
	}
}

// Shutdown stops the drain goroutine, drops pending tasks and closes the client.
//
// Returns: nil; ErrPeerNodeClosed on a second call.
//
// Called from PeerNodeSet when the peer leaves the membership or the set shuts down.
func (n *PeerNode) Shutdown() error {
	if !n.closed.CompareAndSwap(false, true) {
		return ErrPeerNodeClosed
	}
	n.cancel()
	<-n.done
	if dropped := n.queue.clear(); dropped > 0 {
		level.Info(n.logger).Log("msg", "peer removed with pending tasks", "dropped", dropped)
	}
	n.metrics.ReplicationQueueSize.DeleteLabelValues(n.url)
	n.client.Close()
	return nil
}

// run drains the queue every MaxBatchingDelay, or as soon as a full batch is pending.
func (n *PeerNode) run() {
	defer close(n.done)
	ticker := time.NewTicker(n.cfg.MaxBatchingDelay)
	defer ticker.Stop()
	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
		case <-n.queue.ready:
		}
		n.drain()
	}
}

// drain sends pending work while full batches are available. One drain runs at a time per peer.
func (n *PeerNode) drain() {
	n.drainMu.Lock()
	defer n.drainMu.Unlock()
	for {
		if n.ctx.Err() != nil || !n.shouldAttempt() {
			return
		}
		batch := n.queue.take(n.cfg.BatchSize)
		if len(batch) == 0 {
			return
		}
		n.lastAttempt = n.clock.Now()
		n.process(batch)
		n.metrics.ReplicationQueueSize.WithLabelValues(n.url).Set(float64(n.queue.len()))
		if n.queue.len() < n.cfg.BatchSize {
			return
		}
	}
}

func (n *PeerNode) shouldAttempt() bool {
	if n.reachable.Load() {
		return true
	}
	return n.clock.Now().Sub(n.lastAttempt) >= n.cfg.UnreachableRetryInterval
}

func (n *PeerNode) process(batch []domain.ReplicationTask) {
	if n.limiter != nil {
		if err := n.limiter.Wait(n.ctx); err != nil {
			return
		}
	}
	if n.cfg.Batching {
		n.sendBatch(batch)
		return
	}
	n.sendEach(batch)
}

func (n *PeerNode) sendBatch(batch []domain.ReplicationTask) {
	ctx, cancel := context.WithTimeout(n.ctx, n.cfg.RequestTimeout)
	defer cancel()

	status, resp, err := n.client.SubmitBatchUpdates(ctx, ToReplicationList(batch))
	if err == nil && (status < 200 || status >= 300 || resp == nil) {
		err = fmt.Errorf("batch rejected with status %d", status)
	}
	if err != nil {
		n.onFailure(err, len(batch))
		return
	}
	n.onSuccess()
	for i, task := range batch {
		if i >= len(resp.ResponseList) {
			level.Warn(n.logger).Log("msg", "batch response shorter than request", "sent", len(batch), "received", len(resp.ResponseList))
			break
		}
		item := resp.ResponseList[i]
		n.handleResult(task, item.StatusCode, item.ResponseEntity)
	}
}

func (n *PeerNode) sendEach(batch []domain.ReplicationTask) {
	for i, task := range batch {
		ctx, cancel := context.WithTimeout(n.ctx, n.cfg.RequestTimeout)
		status, entity, err := n.sendSingle(ctx, task)
		cancel()
		if err == nil && status >= http.StatusInternalServerError {
			err = fmt.Errorf("%s rejected with status %d", task.Action, status)
		}
		if err != nil {
			n.onFailure(err, len(batch)-i)
			return
		}
		n.onSuccess()
		n.handleResult(task, status, entity)
	}
}

func (n *PeerNode) sendSingle(ctx context.Context, task domain.ReplicationTask) (int, *domain.InstanceInfo, error) {
	switch task.Action {
	case domain.ActionRegister:
		status, err := n.client.Register(ctx, task.Info)
		return status, nil, err
	case domain.ActionHeartbeat:
		return n.client.SendHeartbeat(ctx, task.AppName, task.InstanceID, task.Info, task.Status)
	case domain.ActionCancel:
		status, err := n.client.Cancel(ctx, task.AppName, task.InstanceID)
		return status, nil, err
	case domain.ActionStatusUpdate:
		status, err := n.client.StatusUpdate(ctx, task.AppName, task.InstanceID, task.Status, task.Info)
		return status, nil, err
	case domain.ActionDeleteStatusOverride:
		status, err := n.client.DeleteStatusOverride(ctx, task.AppName, task.InstanceID, task.Info)
		return status, nil, err
	default:
		return 0, nil, fmt.Errorf("unknown replication action %q", task.Action)
	}
}

// handleResult applies the peer's answer for one task.
func (n *PeerNode) handleResult(task domain.ReplicationTask, status int, entity *domain.InstanceInfo) {
	switch {
	case status >= 200 && status < 300:
		return

	case task.Action == domain.ActionHeartbeat && status == http.StatusNotFound:
		current, ok := n.reconciler.CurrentInstance(task.AppName, task.InstanceID)
		if !ok {
			return
		}
		level.Debug(n.logger).Log("msg", "peer lacks instance, re-registering", "instance", task.Key())
		n.Enqueue(domain.ReplicationTask{
			Action:             domain.ActionRegister,
			AppName:            current.AppName,
			InstanceID:         current.InstanceID,
			Info:               current,
			Status:             current.Status,
			LastDirtyTimestamp: current.LastDirtyTimestamp,
			EnqueuedAt:         n.clock.Now().UnixMilli(),
		})

	case task.Action == domain.ActionHeartbeat && status == http.StatusConflict:
		if entity == nil {
			return
		}
		level.Debug(n.logger).Log("msg", "peer holds newer record", "instance", task.Key(), "lastDirtyTimestamp", entity.LastDirtyTimestamp)
		n.reconciler.ReconcileWithPeerCopy(*entity)

	case task.Action == domain.ActionCancel && status == http.StatusNotFound:
		return

	default:
		level.Warn(n.logger).Log("msg", "replication rejected by peer", "instance", task.Key(), "action", task.Action, "status", status)
	}
}

func (n *PeerNode) onFailure(err error, lost int) {
	n.batchesFailed.Add(1)
	n.dropped.Add(int64(lost))
	n.metrics.ReplicationBatches.WithLabelValues(n.url, "failure").Inc()
	n.metrics.ReplicationDropped.WithLabelValues(n.url).Add(float64(lost))

	failures := n.failures.Add(1)
	level.Warn(n.logger).Log("msg", "replication request failed", "tasks", lost, "consecutiveFailures", failures, "err", err)
	if int(failures) >= n.cfg.FailureThreshold && n.reachable.CompareAndSwap(true, false) {
		level.Error(n.logger).Log("msg", "peer marked unreachable", "retryInterval", n.cfg.UnreachableRetryInterval)
	}
}

func (n *PeerNode) onSuccess() {
	n.batchesSent.Add(1)
	n.metrics.ReplicationBatches.WithLabelValues(n.url, "success").Inc()
	n.failures.Store(0)
	if n.reachable.CompareAndSwap(false, true) {
		level.Info(n.logger).Log("msg", "peer reachable again")
	}
}

// ToReplicationList converts queued tasks to the batch wire form.
func ToReplicationList(tasks []domain.ReplicationTask) domain.ReplicationList {
	list := domain.ReplicationList{ReplicationList: make([]domain.ReplicationInstance, 0, len(tasks))}
	for _, t := range tasks {
		item := domain.ReplicationInstance{
			AppName:            t.AppName,
			ID:                 t.InstanceID,
			LastDirtyTimestamp: t.LastDirtyTimestamp,
			Status:             t.Status,
			OverriddenStatus:   t.Info.OverriddenStatus,
			Action:             t.Action,
		}
		if t.Action == domain.ActionRegister || t.Action == domain.ActionHeartbeat {
			item.InstanceInfo = Ptr(t.Info)
		}
		if t.Action == domain.ActionHeartbeat {
			item.Status = t.Info.Status
			item.OverriddenStatus = t.Status
		}
		list.ReplicationList = append(list.ReplicationList, item)
	}
	return list
}
