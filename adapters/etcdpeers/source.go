// Package etcdpeers keeps registry cluster membership in etcd. Each node announces its base URL under
//
//	{prefix}{nodeID} = {baseURL}
//
// attached to a TTL lease, so a crashed node drops out of the membership once the lease expires.
package etcdpeers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// DefaultPrefix is the key prefix of the membership.
const DefaultPrefix = "/myregistry/peers/"

// Source implements interfaces.PeerSource over an etcd prefix.
type Source struct {
	client *clientv3.Client
	prefix string
	logger log.Logger

	onChange chan struct{}

	mu      sync.Mutex
	leaseID clientv3.LeaseID
	cancel  context.CancelFunc
}

var _ interfaces.PeerSource = (*Source)(nil)

// New connects to etcd. An empty prefix selects DefaultPrefix. Panics on nil logger.
func New(endpoints []string, prefix string, dialTimeout time.Duration, logger log.Logger) (*Source, error) {
	if len(endpoints) == 0 {
		return nil, service.NewBadParameterError("etcd endpoints are required", nil)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	logger = log.With(helpers.NilPanic(logger, "adapters.etcdpeers.source.go: logger is required"), "component", "etcdpeers")
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect etcd: %w", err)
	}
	return &Source{
		client:   c,
		prefix:   prefix,
		logger:   logger,
		onChange: make(chan struct{}, 1),
	}, nil
}

// Announce publishes selfURL under nodeID with a lease of ttlSecs and keeps the lease alive until ctx is
// done or Withdraw is called.
func (s *Source) Announce(ctx context.Context, nodeID, selfURL string, ttlSecs int64) error {
	lease, err := s.client.Grant(ctx, ttlSecs)
	if err != nil {
		return fmt.Errorf("grant etcd lease: %w", err)
	}
	key := s.prefix + helpers.StrPanic(nodeID, "adapters.etcdpeers.source.go: nodeID is required")
	if _, err := s.client.Put(ctx, key, service.NormalizePeerURL(selfURL), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	ch, err := s.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("keep etcd lease alive: %w", err)
	}

	s.mu.Lock()
	s.leaseID = lease.ID
	s.mu.Unlock()

	go func() {
		for range ch {
		}
		level.Debug(s.logger).Log("msg", "etcd lease keepalive stopped", "key", key)
	}()
	level.Info(s.logger).Log("msg", "announced node", "key", key, "url", selfURL, "ttl", ttlSecs)
	return nil
}

// Withdraw revokes the announcement lease, removing this node from the membership right away.
func (s *Source) Withdraw(ctx context.Context) error {
	s.mu.Lock()
	id := s.leaseID
	s.leaseID = 0
	s.mu.Unlock()
	if id == 0 {
		return nil
	}
	if _, err := s.client.Revoke(ctx, id); err != nil {
		return fmt.Errorf("revoke etcd lease: %w", err)
	}
	return nil
}

// Peers lists the announced base URLs, sorted.
func (s *Source) Peers(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.prefix, err)
	}
	values := make([][]byte, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		values = append(values, kv.Value)
	}
	return peerURLs(values), nil
}

// Changes signals after any key under the prefix changed, including lease expiry.
func (s *Source) Changes() <-chan struct{} {
	return s.onChange
}

// Start watches the prefix until Close.
func (s *Source) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		for resp := range s.client.Watch(clientv3.WithRequireLeader(ctx), s.prefix, clientv3.WithPrefix()) {
			if err := resp.Err(); err != nil {
				level.Warn(s.logger).Log("msg", "etcd watch error", "prefix", s.prefix, "err", err)
				continue
			}
			select {
			case s.onChange <- struct{}{}:
			default:
			}
		}
	}()
}

// Close stops the watch and the client.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	return s.client.Close()
}

// peerURLs normalizes, deduplicates and sorts announced values.
func peerURLs(values [][]byte) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		u := service.NormalizePeerURL(string(v))
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
