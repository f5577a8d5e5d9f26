package peerhttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"myregistry/domain"
	"myregistry/helpers"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method  string
	Path    string
	Query   map[string]string
	Header  http.Header
	Body    []byte
	Gzipped bool
}

func newPeer(t *testing.T, status int, response any) (*Client, *[]recordedRequest) {
	t.Helper()
	var got []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  map[string]string{},
			Header: r.Header.Clone(),
		}
		for k := range r.URL.Query() {
			rec.Query[k] = r.URL.Query().Get(k)
		}
		var body io.Reader = r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(r.Body)
			require.NoError(t, err)
			body = zr
			rec.Gzipped = true
		}
		rec.Body, _ = io.ReadAll(body)
		got = append(got, rec)

		if response != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(response)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	factory, err := NewFactory(Options{Timeout: 2e9, MaxConnsPerHost: 4, MaxIdleConns: 4, Identity: "node-a", CompressBatches: true})
	require.NoError(t, err)
	return factory(srv.URL + "/eureka/v2").(*Client), &got
}

func TestNewClient_Panics(t *testing.T) {
	assert.Panics(t, func() { NewClient("", http.DefaultClient, "", false) })
	assert.Panics(t, func() { NewClient("http://node-b/eureka/v2/", nil, "", false) })
}

func TestClient_Register(t *testing.T) {
	c, got := newPeer(t, http.StatusNoContent, nil)
	info := domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", HostName: "h1", Status: domain.StatusUp}

	status, err := c.Register(context.Background(), info)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	require.Len(t, *got, 1)
	req := (*got)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/eureka/v2/apps/ORDERS", req.Path)
	assert.Equal(t, "true", req.Header.Get(helpers.HeaderReplication))
	assert.Equal(t, "node-a", req.Header.Get(helpers.HeaderIdentity))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.False(t, req.Gzipped)

	var sent domain.InstanceInfo
	require.NoError(t, json.Unmarshal(req.Body, &sent))
	assert.Equal(t, info, sent)
}

func TestClient_SendHeartbeat(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c, got := newPeer(t, http.StatusOK, nil)
		info := domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", Status: domain.StatusUp, LastDirtyTimestamp: 1234}

		status, peerCopy, err := c.SendHeartbeat(context.Background(), "ORDERS", "i-1", info, domain.StatusOutOfService)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, peerCopy)

		req := (*got)[0]
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "/eureka/v2/apps/ORDERS/i-1", req.Path)
		assert.Equal(t, map[string]string{
			"status":             "UP",
			"lastDirtyTimestamp": "1234",
			"overriddenstatus":   "OUT_OF_SERVICE",
		}, req.Query)
	})

	t.Run("conflict returns the peer copy", func(t *testing.T) {
		newer := domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", Status: domain.StatusDown, LastDirtyTimestamp: 9999}
		c, _ := newPeer(t, http.StatusConflict, newer)

		status, peerCopy, err := c.SendHeartbeat(context.Background(), "ORDERS", "i-1", domain.InstanceInfo{LastDirtyTimestamp: 1}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, peerCopy)
		assert.Equal(t, int64(9999), peerCopy.LastDirtyTimestamp)
	})

	t.Run("not found", func(t *testing.T) {
		c, got := newPeer(t, http.StatusNotFound, map[string]any{"error": map[string]string{"code": "entity_not_found"}})

		status, peerCopy, err := c.SendHeartbeat(context.Background(), "ORDERS", "i-1", domain.InstanceInfo{}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Nil(t, peerCopy)
		_, hasOverride := (*got)[0].Query["overriddenstatus"]
		assert.False(t, hasOverride)
	})
}

func TestClient_SingleOperations(t *testing.T) {
	info := domain.InstanceInfo{InstanceID: "i 1", AppName: "ORDERS", LastDirtyTimestamp: 77}
	tests := []struct {
		name       string
		call       func(c *Client) (int, error)
		wantMethod string
		wantPath   string
		wantQuery  map[string]string
	}{
		{
			name:       "cancel",
			call:       func(c *Client) (int, error) { return c.Cancel(context.Background(), "ORDERS", "i 1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/eureka/v2/apps/ORDERS/i 1",
			wantQuery:  map[string]string{},
		},
		{
			name: "status update",
			call: func(c *Client) (int, error) {
				return c.StatusUpdate(context.Background(), "ORDERS", "i 1", domain.StatusOutOfService, info)
			},
			wantMethod: http.MethodPut,
			wantPath:   "/eureka/v2/apps/ORDERS/i 1/status",
			wantQuery:  map[string]string{"value": "OUT_OF_SERVICE", "lastDirtyTimestamp": "77"},
		},
		{
			name: "delete status override",
			call: func(c *Client) (int, error) {
				return c.DeleteStatusOverride(context.Background(), "ORDERS", "i 1", info)
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/eureka/v2/apps/ORDERS/i 1/status",
			wantQuery:  map[string]string{"value": "UNKNOWN", "lastDirtyTimestamp": "77"},
		},
		{
			name: "asg status",
			call: func(c *Client) (int, error) {
				return c.StatusUpdateASG(context.Background(), "orders-v1", domain.ASGDisabled)
			},
			wantMethod: http.MethodPut,
			wantPath:   "/eureka/v2/asg/orders-v1/status",
			wantQuery:  map[string]string{"value": "DISABLED"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newPeer(t, http.StatusOK, nil)
			status, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, status)

			require.Len(t, *got, 1)
			assert.Equal(t, tt.wantMethod, (*got)[0].Method)
			assert.Equal(t, tt.wantPath, (*got)[0].Path)
			assert.Equal(t, tt.wantQuery, (*got)[0].Query)
		})
	}
}

func TestClient_SubmitBatchUpdates(t *testing.T) {
	t.Run("gzipped request and decoded response", func(t *testing.T) {
		want := domain.ReplicationListResponse{ResponseList: []domain.ReplicationInstanceResponse{
			{StatusCode: http.StatusOK},
			{StatusCode: http.StatusNotFound},
		}}
		c, got := newPeer(t, http.StatusOK, want)
		list := domain.ReplicationList{ReplicationList: []domain.ReplicationInstance{
			{AppName: "ORDERS", ID: "i-1", Action: domain.ActionHeartbeat},
			{AppName: "ORDERS", ID: "i-2", Action: domain.ActionCancel},
		}}

		status, resp, err := c.SubmitBatchUpdates(context.Background(), list)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, resp)
		assert.Equal(t, want, *resp)

		req := (*got)[0]
		assert.Equal(t, "/eureka/v2/peerreplication/batch/", req.Path)
		assert.True(t, req.Gzipped)
		var sent domain.ReplicationList
		require.NoError(t, json.Unmarshal(req.Body, &sent))
		assert.Equal(t, list, sent)
	})

	t.Run("non-2xx gives nil response", func(t *testing.T) {
		c, _ := newPeer(t, http.StatusServiceUnavailable, nil)
		status, resp, err := c.SubmitBatchUpdates(context.Background(), domain.ReplicationList{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Nil(t, resp)
	})

	t.Run("undecodable body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}))
		defer srv.Close()
		c := NewClient(srv.URL, srv.Client(), "", false)
		_, resp, err := c.SubmitBatchUpdates(context.Background(), domain.ReplicationList{})
		require.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestClient_Reads(t *testing.T) {
	apps := domain.Applications{
		VersionDelta: 3,
		AppsHashCode: "UP_1_",
		Applications: []domain.Application{{Name: "ORDERS", Instances: []domain.InstanceInfo{{InstanceID: "i-1", AppName: "ORDERS"}}}},
	}

	c, got := newPeer(t, http.StatusOK, apps)
	status, full, err := c.GetApplications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, full)
	assert.Equal(t, 1, full.Size())
	assert.Equal(t, "/eureka/v2/apps/", (*got)[0].Path)

	_, delta, err := c.GetDelta(context.Background())
	require.NoError(t, err)
	require.NotNil(t, delta)
	assert.Equal(t, "/eureka/v2/apps/delta", (*got)[1].Path)

	c404, _ := newPeer(t, http.StatusNotFound, nil)
	status, inst, err := c404.GetInstance(context.Background(), "ORDERS", "i-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Nil(t, inst)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	factory, err := NewFactory(DefaultOptions())
	require.NoError(t, err)
	c := factory(url)
	_, err = c.Register(context.Background(), domain.InstanceInfo{AppName: "ORDERS"})
	require.Error(t, err)
	c.Close()
}

func TestNewFactory_Options(t *testing.T) {
	dir := t.TempDir()
	badCA := filepath.Join(dir, "bad.pem")
	require.NoError(t, os.WriteFile(badCA, []byte("not a certificate"), 0o600))

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "defaults", opts: DefaultOptions()},
		{name: "system tls", opts: Options{TLSMode: TLSSystem}},
		{name: "proxy", opts: Options{ProxyURL: "http://proxy:3128"}},
		{name: "bad proxy", opts: Options{ProxyURL: "://proxy"}, wantErr: true},
		{name: "unknown tls mode", opts: Options{TLSMode: "mutual"}, wantErr: true},
		{name: "missing ca file", opts: Options{TLSMode: TLSCustomCA, CAFile: filepath.Join(dir, "missing.pem")}, wantErr: true},
		{name: "ca file without certificates", opts: Options{TLSMode: TLSCustomCA, CAFile: badCA}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := NewFactory(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, factory)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, factory("http://node-b:8761/eureka/v2"))
		})
	}
}

func TestTransportFactory_Settings(t *testing.T) {
	f, err := newTransportFactory(Options{
		TLSMode:         TLSSystem,
		ProxyURL:        "http://proxy:3128",
		MaxConnsPerHost: 7,
		MaxIdleConns:    9,
	})
	require.NoError(t, err)

	hc := f.newHTTPClient()
	tr, ok := hc.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 7, tr.MaxConnsPerHost)
	assert.Equal(t, 9, tr.MaxIdleConns)
	require.NotNil(t, tr.TLSClientConfig)

	req, _ := http.NewRequest(http.MethodGet, "http://node-b/", nil)
	proxy, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy:3128", proxy.Host)
}
