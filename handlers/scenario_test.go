package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myregistry/adapters/peerhttp"
	"myregistry/api"
	"myregistry/domain"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	url      string
	registry *service.Registry
	peers    *service.PeerNodeSet
}

// startCluster runs n registry nodes over real HTTP, each replicating to all the others.
func startCluster(t *testing.T, n int) []*testNode {
	t.Helper()
	validator, err := OpenAPIValidator(context.Background(), api.OpenAPISpec)
	require.NoError(t, err)
	factory, err := peerhttp.NewFactory(peerhttp.Options{Timeout: 2 * time.Second, MaxConnsPerHost: 4, CompressBatches: true})
	require.NoError(t, err)

	clock := service.NewTimeProvider(time.Now)
	replication := service.DefaultReplicationConfig()
	replication.MaxBatchingDelay = 10 * time.Millisecond
	replication.RequestTimeout = 2 * time.Second
	cacheCfg := service.DefaultResponseCacheConfig()
	cacheCfg.UseReadOnlyCache = false

	nodes := make([]*testNode, n)
	urls := make([]string, n)
	for i := range nodes {
		e := echo.New()
		srv := httptest.NewServer(e)
		t.Cleanup(srv.Close)

		registry := service.NewRegistry(service.DefaultRegistryConfig(), clock, service.NewNopMetrics(), log.NewNopLogger())
		cache := service.NewResponseCache(registry, cacheCfg, service.NewNopMetrics(), log.NewNopLogger())
		registry.SetResponseCache(cache)

		url := srv.URL + BaseURL
		peers := service.NewPeerNodeSet(url, service.StaticPeers(nil), factory, registry, replication, clock, service.NewNopMetrics(), log.NewNopLogger())
		registry.SetReplicator(peers)
		t.Cleanup(func() { _ = peers.Shutdown() })

		e.JSONSerializer = JSONSerializer{}
		UseDefaultMiddleware(e, validator, nil)
		RegisterHandlers(e, NewHTTPServer(registry, cache, peers, log.NewNopLogger()))
		service.RegisterErrorHandler(e, log.NewNopLogger())

		nodes[i] = &testNode{url: url, registry: registry, peers: peers}
		urls[i] = url
	}
	for _, node := range nodes {
		node.peers.UpdatePeers(urls)
	}
	return nodes
}

func call(t *testing.T, method, target, body string) int {
	t.Helper()
	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, target, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req, err = http.NewRequest(method, target, nil)
		require.NoError(t, err)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestScenario_TwoNodeReplication(t *testing.T) {
	nodes := startCluster(t, 2)
	a, b := nodes[0], nodes[1]
	require.Len(t, a.peers.Nodes(), 1, "a node never replicates to itself")

	body := `{"instanceId":"i-1","app":"ORDERS","hostName":"host-1","ipAddr":"10.0.0.1","port":8080}`
	require.Equal(t, http.StatusNoContent, call(t, http.MethodPost, a.url+"/apps/ORDERS", body))

	require.Eventually(t, func() bool {
		_, ok := b.registry.GetInstance("ORDERS", "i-1")
		return ok
	}, 3*time.Second, 10*time.Millisecond, "registration reaches the peer")
	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, b.url+"/apps/ORDERS/i-1", ""))

	onA, _ := a.registry.GetInstance("ORDERS", "i-1")
	onB, _ := b.registry.GetInstance("ORDERS", "i-1")
	assert.Equal(t, onA.LastDirtyTimestamp, onB.LastDirtyTimestamp)

	// Replicated writes are never forwarded back.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, b.peers.Statuses()[0].PendingTasks)
	assert.Equal(t, int64(0), b.peers.Statuses()[0].BatchesSent)

	require.Equal(t, http.StatusOK, call(t, http.MethodPut, a.url+"/apps/ORDERS/i-1/status?value=OUT_OF_SERVICE", ""))
	require.Eventually(t, func() bool {
		info, ok := b.registry.GetInstance("ORDERS", "i-1")
		return ok && info.Status == domain.StatusOutOfService
	}, 3*time.Second, 10*time.Millisecond, "status override reaches the peer")

	require.Equal(t, http.StatusOK, call(t, http.MethodPut, a.url+"/apps/ORDERS/i-1", ""))

	require.Equal(t, http.StatusOK, call(t, http.MethodDelete, a.url+"/apps/ORDERS/i-1", ""))
	require.Eventually(t, func() bool {
		_, ok := b.registry.GetInstance("ORDERS", "i-1")
		return !ok
	}, 3*time.Second, 10*time.Millisecond, "cancel reaches the peer")
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, b.url+"/apps/ORDERS/i-1", ""))
	assert.True(t, a.peers.Statuses()[0].Reachable)
}

func TestScenario_HeartbeatRecreatesMissingPeerCopy(t *testing.T) {
	nodes := startCluster(t, 2)
	a, b := nodes[0], nodes[1]

	body := `{"instanceId":"i-1","app":"ORDERS","hostName":"host-1"}`
	require.Equal(t, http.StatusNoContent, call(t, http.MethodPost, a.url+"/apps/ORDERS", body))
	require.Eventually(t, func() bool {
		_, ok := b.registry.GetInstance("ORDERS", "i-1")
		return ok
	}, 3*time.Second, 10*time.Millisecond)

	// The peer loses the instance without telling anyone.
	require.True(t, b.registry.Cancel("ORDERS", "i-1", true))

	require.Equal(t, http.StatusOK, call(t, http.MethodPut, a.url+"/apps/ORDERS/i-1", ""))
	require.Eventually(t, func() bool {
		_, ok := b.registry.GetInstance("ORDERS", "i-1")
		return ok
	}, 3*time.Second, 10*time.Millisecond, "a heartbeat answered 404 is followed by a register")
}

func TestScenario_SyncUpFromPeers(t *testing.T) {
	nodes := startCluster(t, 2)
	a, b := nodes[0], nodes[1]

	for _, id := range []string{"i-1", "i-2", "i-3"} {
		b.registry.Register(domain.InstanceInfo{InstanceID: id, AppName: "ORDERS", HostName: "h"}, 0, true)
	}

	count := a.registry.SyncUp(context.Background(), a.peers.Clients())
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, a.registry.Size())
}

func TestScenario_ConflictKeepsOwnStatusAcrossPeers(t *testing.T) {
	nodes := startCluster(t, 2)
	a, b := nodes[0], nodes[1]

	info := domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", HostName: "h", Status: domain.StatusUp, LastDirtyTimestamp: 100}
	a.registry.Register(info, 0, true)
	b.registry.Register(info, 0, true)
	require.True(t, b.registry.StatusUpdate("ORDERS", "i-1", domain.StatusOutOfService, 200, true))

	// a's heartbeat carries lastDirtyTimestamp=100, b answers 409 with its stored copy.
	require.Equal(t, http.StatusOK, call(t, http.MethodPut, a.url+"/apps/ORDERS/i-1", ""))
	require.Eventually(t, func() bool {
		stored, ok := a.registry.CurrentInstance("ORDERS", "i-1")
		return ok && stored.LastDirtyTimestamp == 200
	}, 3*time.Second, 10*time.Millisecond, "a adopts the newer copy")

	stored, _ := a.registry.CurrentInstance("ORDERS", "i-1")
	assert.Equal(t, domain.StatusUp, stored.Status)
	assert.Equal(t, domain.StatusOutOfService, stored.OverriddenStatus)

	require.True(t, a.registry.DeleteStatusOverride("ORDERS", "i-1", 300, true))
	require.True(t, b.registry.DeleteStatusOverride("ORDERS", "i-1", 300, true))
	onA, _ := a.registry.GetInstance("ORDERS", "i-1")
	onB, _ := b.registry.GetInstance("ORDERS", "i-1")
	assert.Equal(t, domain.StatusUp, onA.Status)
	assert.Equal(t, domain.StatusUp, onB.Status)
}

func TestScenario_SyncUpKeepsOwnStatus(t *testing.T) {
	nodes := startCluster(t, 2)
	a, b := nodes[0], nodes[1]

	grouped := domain.InstanceInfo{InstanceID: "i-2", AppName: "ORDERS", HostName: "h", ASGName: "orders-v1", LastDirtyTimestamp: 100}
	b.registry.Register(domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", HostName: "h", LastDirtyTimestamp: 100}, 0, true)
	b.registry.Register(grouped, 0, true)
	require.True(t, b.registry.StatusUpdate("ORDERS", "i-1", domain.StatusOutOfService, 200, true))
	b.registry.ASGStatusUpdate("orders-v1", domain.ASGDisabled, true)

	require.Equal(t, 2, a.registry.SyncUp(context.Background(), a.peers.Clients()))

	for _, id := range []string{"i-1", "i-2"} {
		stored, ok := a.registry.CurrentInstance("ORDERS", id)
		require.True(t, ok)
		assert.Equal(t, domain.StatusUp, stored.Status, id)
	}
	onA, _ := a.registry.GetInstance("ORDERS", "i-1")
	assert.Equal(t, domain.StatusOutOfService, onA.Status, "the override travels with the record")

	require.True(t, a.registry.DeleteStatusOverride("ORDERS", "i-1", 300, true))
	require.True(t, b.registry.DeleteStatusOverride("ORDERS", "i-1", 300, true))
	onA, _ = a.registry.GetInstance("ORDERS", "i-1")
	onB, _ := b.registry.GetInstance("ORDERS", "i-1")
	assert.Equal(t, domain.StatusUp, onA.Status)
	assert.Equal(t, domain.StatusUp, onB.Status)
}
