// Package peerhttp is the HTTP client one registry node uses to replicate to, and bootstrap from, its
// peers.
package peerhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	gjson "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// Client implements interfaces.PeerClient against one peer base URL (for example
// http://node-b:8761/eureka/v2/). Every request carries the replication header.
type Client struct {
	baseURL  string
	client   *http.Client
	identity string
	compress bool
}

var _ interfaces.PeerClient = (*Client)(nil)

// NewClient creates a client for baseURL. Panics on empty baseURL or nil client.
func NewClient(baseURL string, client *http.Client, identity string, compress bool) *Client {
	return &Client{
		baseURL:  service.NormalizePeerURL(helpers.StrPanic(baseURL, "adapters.peerhttp.client.go: baseURL is required")),
		client:   helpers.NilPanic(client, "adapters.peerhttp.client.go: http client is required"),
		identity: identity,
		compress: compress,
	}
}

// NewFactory validates opts and returns a service.PeerClientFactory giving every peer its own
// connection pool built from opts.
func NewFactory(opts Options) (service.PeerClientFactory, error) {
	f, err := newTransportFactory(opts)
	if err != nil {
		return nil, err
	}
	return func(peerURL string) interfaces.PeerClient {
		return NewClient(peerURL, f.newHTTPClient(), opts.Identity, opts.CompressBatches)
	}, nil
}

// Register performs POST apps/{app} with the instance as body.
func (c *Client) Register(ctx context.Context, info domain.InstanceInfo) (int, error) {
	status, _, err := c.do(ctx, http.MethodPost, c.instancePath(info.AppName, ""), nil, info, nil)
	return status, err
}

// Cancel performs DELETE apps/{app}/{id}.
func (c *Client) Cancel(ctx context.Context, appName, id string) (int, error) {
	status, _, err := c.do(ctx, http.MethodDelete, c.instancePath(appName, id), nil, nil, nil)
	return status, err
}

// SendHeartbeat performs PUT apps/{app}/{id}?status&lastDirtyTimestamp[&overriddenstatus]. On 409 the
// peer's copy of the instance is decoded and returned.
func (c *Client) SendHeartbeat(
	ctx context.Context,
	appName, id string,
	info domain.InstanceInfo,
	overridden domain.InstanceStatus,
) (int, *domain.InstanceInfo, error) {
	q := url.Values{}
	if info.Status != "" {
		q.Set("status", string(info.Status))
	}
	q.Set("lastDirtyTimestamp", strconv.FormatInt(info.LastDirtyTimestamp, 10))
	if overridden != "" {
		q.Set("overriddenstatus", string(overridden))
	}

	var peerCopy domain.InstanceInfo
	status, decoded, err := c.do(ctx, http.MethodPut, c.instancePath(appName, id), q, nil, &peerCopy)
	if err != nil {
		return status, nil, err
	}
	if status == http.StatusConflict && decoded {
		return status, &peerCopy, nil
	}
	return status, nil, nil
}

// StatusUpdate performs PUT apps/{app}/{id}/status?value&lastDirtyTimestamp.
func (c *Client) StatusUpdate(ctx context.Context, appName, id string, status domain.InstanceStatus, info domain.InstanceInfo) (int, error) {
	q := url.Values{}
	q.Set("value", string(status))
	q.Set("lastDirtyTimestamp", strconv.FormatInt(info.LastDirtyTimestamp, 10))
	code, _, err := c.do(ctx, http.MethodPut, c.instancePath(appName, id)+"/status", q, nil, nil)
	return code, err
}

// DeleteStatusOverride performs DELETE apps/{app}/{id}/status?lastDirtyTimestamp.
func (c *Client) DeleteStatusOverride(ctx context.Context, appName, id string, info domain.InstanceInfo) (int, error) {
	q := url.Values{}
	q.Set("value", string(domain.StatusUnknown))
	q.Set("lastDirtyTimestamp", strconv.FormatInt(info.LastDirtyTimestamp, 10))
	code, _, err := c.do(ctx, http.MethodDelete, c.instancePath(appName, id)+"/status", q, nil, nil)
	return code, err
}

// StatusUpdateASG performs PUT asg/{asgName}/status?value.
func (c *Client) StatusUpdateASG(ctx context.Context, asgName string, status domain.ASGStatus) (int, error) {
	q := url.Values{}
	q.Set("value", string(status))
	code, _, err := c.do(ctx, http.MethodPut, "asg/"+url.PathEscape(asgName)+"/status", q, nil, nil)
	return code, err
}

// SubmitBatchUpdates performs POST peerreplication/batch/.
func (c *Client) SubmitBatchUpdates(ctx context.Context, list domain.ReplicationList) (int, *domain.ReplicationListResponse, error) {
	var resp domain.ReplicationListResponse
	status, decoded, err := c.do(ctx, http.MethodPost, "peerreplication/batch/", nil, list, &resp)
	if err != nil || status < 200 || status >= 300 || !decoded {
		return status, nil, err
	}
	return status, &resp, nil
}

// GetApplications performs GET apps/. Being replication traffic, it is answered with the peer's stored
// records rather than its cached read view.
func (c *Client) GetApplications(ctx context.Context) (int, *domain.Applications, error) {
	return c.getApplications(ctx, "apps/")
}

// GetDelta performs GET apps/delta.
func (c *Client) GetDelta(ctx context.Context) (int, *domain.Applications, error) {
	return c.getApplications(ctx, "apps/delta")
}

func (c *Client) getApplications(ctx context.Context, path string) (int, *domain.Applications, error) {
	var apps domain.Applications
	status, decoded, err := c.do(ctx, http.MethodGet, path, nil, nil, &apps)
	if err != nil || status != http.StatusOK || !decoded {
		return status, nil, err
	}
	return status, &apps, nil
}

// GetInstance performs GET apps/{app}/{id}.
func (c *Client) GetInstance(ctx context.Context, appName, id string) (int, *domain.InstanceInfo, error) {
	var info domain.InstanceInfo
	status, decoded, err := c.do(ctx, http.MethodGet, c.instancePath(appName, id), nil, nil, &info)
	if err != nil || status != http.StatusOK || !decoded {
		return status, nil, err
	}
	return status, &info, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

func (c *Client) instancePath(appName, id string) string {
	p := "apps/" + url.PathEscape(appName)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// do sends one request. A JSON response body is decoded into out when out is non-nil and the body is not
// empty; decoded reports whether that happened. Error bodies of non-2xx answers other than 409 are
// discarded.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (status int, decoded bool, err error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	gzipped := false
	if in != nil {
		payload, err := gjson.Marshal(in)
		if err != nil {
			return 0, false, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		if c.compress && path == "peerreplication/batch/" {
			if payload, err = gzipBytes(payload); err != nil {
				return 0, false, fmt.Errorf("compress %s %s body: %w", method, path, err)
			}
			gzipped = true
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, false, err
	}
	helpers.SetReplication(req, c.identity)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if gzipped {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	accept := resp.StatusCode >= 200 && resp.StatusCode < 300 || resp.StatusCode == http.StatusConflict
	if out == nil || !accept {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, false, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, false, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, false, nil
	}
	if err := gjson.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, false, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, true, nil
}

func gzipBytes(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
