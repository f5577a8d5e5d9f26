package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/multierr"
)

// PeerClientFactory builds the wire client of one peer base URL.
type PeerClientFactory func(peerURL string) interfaces.PeerClient

// PeerNodeSet implements interfaces.Replicator and interfaces.PeerDirectory. It keeps one PeerNode per
// peer URL, never one for this node's own URL, and follows the membership reported by a PeerSource: nodes
// of removed peers are shut down (their pending tasks dropped), nodes of new peers start empty.
type PeerNodeSet struct {
	selfURL    string
	source     interfaces.PeerSource
	newClient  PeerClientFactory
	reconciler PeerReconciler
	cfg        ReplicationConfig
	clock      interfaces.TimeProvider
	metrics    *Metrics
	logger     log.Logger

	mu     sync.RWMutex
	nodes  map[string]*PeerNode
	closed bool
}

var (
	_ interfaces.Replicator    = (*PeerNodeSet)(nil)
	_ interfaces.PeerDirectory = (*PeerNodeSet)(nil)
)

// NewPeerNodeSet creates an empty set. Call Refresh (or Run) to load the membership. Panics on empty
// selfURL or nil dependencies.
//
// Parameters: selfURL: this node's base URL, never replicated to; source: membership (static list, peers
// file or etcd); newClient: builds one wire client per peer; reconciler: the local registry.
//
// Called from cmd/main; the registry then gets the set with Registry.SetReplicator.
func NewPeerNodeSet(
	selfURL string,
	source interfaces.PeerSource,
	newClient PeerClientFactory,
	reconciler PeerReconciler,
	cfg ReplicationConfig,
	clock interfaces.TimeProvider,
	metrics *Metrics,
	logger log.Logger,
) *PeerNodeSet {
	return &PeerNodeSet{
		selfURL:    NormalizePeerURL(helpers.StrPanic(selfURL, "service.peer_node_set.go: selfURL is required")),
		source:     helpers.NilPanic(source, "service.peer_node_set.go: source is required"),
		newClient:  helpers.NilPanic(newClient, "service.peer_node_set.go: newClient is required"),
		reconciler: helpers.NilPanic(reconciler, "service.peer_node_set.go: reconciler is required"),
		cfg:        cfg,
		clock:      helpers.NilPanic(clock, "service.peer_node_set.go: clock is required"),
		metrics:    helpers.NilPanic(metrics, "service.peer_node_set.go: metrics is required"),
		logger:     log.With(helpers.NilPanic(logger, "service.peer_node_set.go: logger is required"), "component", "peer_node_set"),
		nodes:      make(map[string]*PeerNode),
	}
}

// NormalizePeerURL trims blanks and guarantees one trailing slash, so membership lists compare equal
// however the URLs were written.
func NormalizePeerURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	return strings.TrimRight(u, "/") + "/"
}

// Refresh reads the membership from the source and applies it.
//
// Returns: internal_server_error wrapping the source error; the current membership is kept in that case.
//
// Called from cmd/main before SyncUp and from Run.
func (s *PeerNodeSet) Refresh(ctx context.Context) error {
	urls, err := s.source.Peers(ctx)
	if err != nil {
		return NewInternalServerError("read peer membership", err)
	}
	s.UpdatePeers(urls)
	return nil
}

// UpdatePeers replaces the membership with urls. This node's own URL and duplicates are ignored. Nodes of
// departed peers are shut down, new peers get a fresh PeerNode.
//
// Called from Refresh and from tests.
func (s *PeerNodeSet) UpdatePeers(urls []string) {
	want := make(map[string]bool, len(urls))
	for _, u := range urls {
		u = NormalizePeerURL(u)
		if u == "" || u == s.selfURL {
			continue
		}
		want[u] = true
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	var removed []*PeerNode
	for u, node := range s.nodes {
		if !want[u] {
			removed = append(removed, node)
			delete(s.nodes, u)
		}
	}
	var added []string
	for u := range want {
		if _, ok := s.nodes[u]; ok {
			continue
		}
		s.nodes[u] = NewPeerNode(u, s.newClient(u), s.reconciler, s.cfg, s.clock, s.metrics, s.logger)
		added = append(added, u)
	}
	s.mu.Unlock()

	for _, node := range removed {
		_ = node.Shutdown()
	}
	if len(added) > 0 || len(removed) > 0 {
		sort.Strings(added)
		level.Info(s.logger).Log("msg", "peer membership changed", "added", strings.Join(added, ","), "removed", len(removed), "peers", len(want))
	}
}

// Run refreshes the membership every MembershipRefreshInterval and whenever the source signals a change,
// until ctx is done.
//
// Called from cmd/main in its own goroutine.
func (s *PeerNodeSet) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.MembershipRefreshInterval)
	defer ticker.Stop()
	changes := s.source.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
		}
		if err := s.Refresh(ctx); err != nil {
			level.Warn(s.logger).Log("msg", "refresh peer membership", "err", err)
		}
	}
}

// Replicate hands task to every peer queue.
//
// Called from Registry for every local mutation (interfaces.Replicator).
func (s *PeerNodeSet) Replicate(task domain.ReplicationTask) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, node := range s.nodes {
		node.Enqueue(task)
	}
}

// ReplicateASGStatus sends the ASG flag to every peer right away, bypassing the batch queues.
// Failures are logged only.
func (s *PeerNodeSet) ReplicateASGStatus(asgName string, status domain.ASGStatus) {
	for _, node := range s.Nodes() {
		go func(node *PeerNode) {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
			defer cancel()
			code, err := node.Client().StatusUpdateASG(ctx, asgName, status)
			if err != nil || code >= 300 {
				level.Warn(s.logger).Log("msg", "replicate asg status", "peer", node.URL(), "asg", asgName, "status", code, "err", err)
			}
		}(node)
	}
}

// Nodes returns the current peer nodes ordered by URL.
func (s *PeerNodeSet) Nodes() []*PeerNode {
	s.mu.RLock()
	nodes := make([]*PeerNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		nodes = append(nodes, node)
	}
	s.mu.RUnlock()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].URL() < nodes[j].URL() })
	return nodes
}

// Clients returns the wire client of every peer keyed by URL. Used for the startup sync.
func (s *PeerNodeSet) Clients() map[string]interfaces.PeerClient {
	out := make(map[string]interfaces.PeerClient)
	for _, node := range s.Nodes() {
		out[node.URL()] = node.Client()
	}
	return out
}

// Statuses returns the diagnostic view of every peer ordered by URL.
func (s *PeerNodeSet) Statuses() []domain.PeerStatus {
	nodes := s.Nodes()
	out := make([]domain.PeerStatus, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Status())
	}
	return out
}

// Shutdown stops every peer node. Later membership updates are ignored.
//
// Returns: the shutdown errors of all nodes combined with multierr.
//
// Called from cmd/main during graceful shutdown.
func (s *PeerNodeSet) Shutdown() error {
	s.mu.Lock()
	s.closed = true
	nodes := s.nodes
	s.nodes = make(map[string]*PeerNode)
	s.mu.Unlock()

	var err error
	for _, node := range nodes {
		err = multierr.Append(err, node.Shutdown())
	}
	return err
}

// StaticPeers is a PeerSource over a fixed URL list.
type StaticPeers []string

// Peers returns a copy of the list.
func (p StaticPeers) Peers(context.Context) ([]string, error) {
	return append([]string(nil), p...), nil
}

// Changes returns nil: a static list never changes.
func (p StaticPeers) Changes() <-chan struct{} {
	return nil
}
