// Package handlers contains http handlers for myregistry.
package handlers

import (
	"fmt"
	"net/http"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// HTTPServer implements ServerInterface.
type HTTPServer struct {
	registry interfaces.InstanceRegistry
	cache    interfaces.ResponseCache
	peers    interfaces.PeerDirectory
	logger   log.Logger
}

var _ ServerInterface = (*HTTPServer)(nil)

// NewHTTPServer creates a new HTTPServer.
func NewHTTPServer(
	registry interfaces.InstanceRegistry,
	cache interfaces.ResponseCache,
	peers interfaces.PeerDirectory,
	logger log.Logger,
) *HTTPServer {
	logger = log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "HTTPServer")
	return &HTTPServer{
		registry: helpers.NilPanic(registry, "handlers.http.go: registry is required"),
		cache:    helpers.NilPanic(cache, "handlers.http.go: cache is required"),
		peers:    helpers.NilPanic(peers, "handlers.http.go: peers is required"),
		logger:   logger,
	}
}

// GetApplications (GET /apps/) serves the cached full snapshot. A peer syncing on startup gets the
// stored records instead, uncached.
func (h *HTTPServer) GetApplications(ectx echo.Context, params GetApplicationsParams) error {
	if helpers.IsReplication(ectx.Request()) {
		return ectx.JSON(http.StatusOK, h.registry.GetStoredApplications())
	}
	key := service.KeyAllApps
	if service.Value(params.Regions) != "" {
		key = service.KeyAllAppsRemote
	}
	return h.writeCached(ectx, key)
}

// GetApplicationDeltas (GET /apps/delta) serves the cached delta.
func (h *HTTPServer) GetApplicationDeltas(ectx echo.Context, _ GetApplicationsParams) error {
	return h.writeCached(ectx, service.KeyDelta)
}

// GetApplication (GET /apps/{app}) serves one cached application. 404 when it has no instances.
func (h *HTTPServer) GetApplication(ectx echo.Context, app string) error {
	return h.writeCached(ectx, service.AppCacheKey(app))
}

// RegisterInstance (POST /apps/{app}) registers the posted instance. Returns 204 on success, 400 on
// parse/validation error.
func (h *HTTPServer) RegisterInstance(ectx echo.Context, app string) error {
	var body domain.InstanceInfo
	if err := ectx.Bind(&body); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	info, err := fromRegisterRequest(app, body)
	if err != nil {
		return err
	}

	h.registry.Register(info, info.LeaseInfo.DurationInSecs, helpers.IsReplication(ectx.Request()))
	return ectx.NoContent(http.StatusNoContent)
}

// GetInstance (GET /apps/{app}/{id}) returns one instance or 404.
func (h *HTTPServer) GetInstance(ectx echo.Context, app string, id string) error {
	info, ok := h.registry.GetInstance(app, id)
	if !ok {
		return service.NewEntityNotFoundError(fmt.Sprintf("instance %s/%s is not registered", app, id), nil)
	}
	return ectx.JSON(http.StatusOK, info)
}

// RenewLease (PUT /apps/{app}/{id}) is the heartbeat. 404 tells the caller to re-register; 409 carries
// the newer stored copy back to a replicating peer.
func (h *HTTPServer) RenewLease(ectx echo.Context, app string, id string, params RenewLeaseParams) error {
	isReplication := helpers.IsReplication(ectx.Request())
	code, stored := h.renew(app, id, toOverriddenStatus(params.OverriddenStatus), params.LastDirtyTimestamp, isReplication)
	switch code {
	case http.StatusOK:
		return ectx.NoContent(http.StatusOK)
	case http.StatusConflict:
		return ectx.JSON(http.StatusConflict, stored)
	default:
		return service.NewEntityNotFoundError(fmt.Sprintf("instance %s/%s is not registered", app, id), nil)
	}
}

// CancelLease (DELETE /apps/{app}/{id}) removes the lease. Returns 200, or 404 when absent.
func (h *HTTPServer) CancelLease(ectx echo.Context, app string, id string) error {
	if !h.registry.Cancel(app, id, helpers.IsReplication(ectx.Request())) {
		return service.NewEntityNotFoundError(fmt.Sprintf("instance %s/%s is not registered", app, id), nil)
	}
	return ectx.NoContent(http.StatusOK)
}

// StatusUpdate (PUT /apps/{app}/{id}/status) sets the overridden status. A stale write is ignored and
// still answered with 200.
func (h *HTTPServer) StatusUpdate(ectx echo.Context, app string, id string, params StatusUpdateParams) error {
	st, err := toInstanceStatus(params.Value, "value")
	if err != nil {
		return err
	}
	lastDirty := service.Value(params.LastDirtyTimestamp)
	if code := h.statusUpdate(app, id, st, lastDirty, helpers.IsReplication(ectx.Request())); code != http.StatusOK {
		return service.NewEntityNotFoundError(fmt.Sprintf("instance %s/%s is not registered", app, id), nil)
	}
	return ectx.NoContent(http.StatusOK)
}

// DeleteStatusOverride (DELETE /apps/{app}/{id}/status) clears the overridden status.
func (h *HTTPServer) DeleteStatusOverride(ectx echo.Context, app string, id string, params DeleteStatusOverrideParams) error {
	lastDirty := service.Value(params.LastDirtyTimestamp)
	if code := h.deleteStatusOverride(app, id, lastDirty, helpers.IsReplication(ectx.Request())); code != http.StatusOK {
		return service.NewEntityNotFoundError(fmt.Sprintf("instance %s/%s is not registered", app, id), nil)
	}
	return ectx.NoContent(http.StatusOK)
}

// ASGStatusUpdate (PUT /asg/{asgName}/status) records the enable flag of an autoscaling group.
func (h *HTTPServer) ASGStatusUpdate(ectx echo.Context, asgName string, params ASGStatusUpdateParams) error {
	if asgName == "" {
		return service.NewBadParameterError("asgName is required", nil)
	}
	st, err := toASGStatus(params.Value)
	if err != nil {
		return err
	}
	h.registry.ASGStatusUpdate(asgName, st, helpers.IsReplication(ectx.Request()))
	return ectx.NoContent(http.StatusOK)
}

// GetPeers (GET /peers) lists replication peer status.
func (h *HTTPServer) GetPeers(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, h.peers.Statuses())
}

func (h *HTTPServer) writeCached(ectx echo.Context, key string) error {
	payload, err := h.cache.Get(key)
	if err != nil {
		if service.ToMyError(err) != nil {
			return err
		}
		return fmt.Errorf("writeCached failed to read key %s, err: %w", key, err)
	}
	return ectx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, payload)
}

// renew applies a heartbeat and, when the caller sent its lastDirtyTimestamp, compares it with the stored
// one: stored older gives 404 so the sender re-registers; stored newer gives 409 with the stored copy for
// replicated heartbeats and 200 otherwise. A replicated heartbeat also carries the sender's override.
func (h *HTTPServer) renew(
	app, id string,
	overridden domain.InstanceStatus,
	lastDirty *int64,
	isReplication bool,
) (int, *domain.InstanceInfo) {
	if !h.registry.Renew(app, id, isReplication) {
		return http.StatusNotFound, nil
	}
	if lastDirty == nil || *lastDirty == 0 {
		return http.StatusOK, nil
	}
	stored, ok := h.registry.CurrentInstance(app, id)
	if !ok {
		return http.StatusNotFound, nil
	}

	code := http.StatusOK
	switch {
	case *lastDirty > stored.LastDirtyTimestamp:
		level.Debug(h.logger).Log("msg", "heartbeat carries newer record", "app", app, "id", id,
			"incoming", *lastDirty, "stored", stored.LastDirtyTimestamp)
		code = http.StatusNotFound
	case *lastDirty < stored.LastDirtyTimestamp && isReplication:
		level.Debug(h.logger).Log("msg", "heartbeat carries older record", "app", app, "id", id,
			"incoming", *lastDirty, "stored", stored.LastDirtyTimestamp)
		return http.StatusConflict, &stored
	}

	if isReplication && overridden != "" && overridden != stored.OverriddenStatus {
		h.registry.StoreOverriddenStatus(app, id, overridden)
	}
	return code, nil
}

// statusUpdate returns 404 when the instance is absent and 200 otherwise, stale writes included.
func (h *HTTPServer) statusUpdate(app, id string, st domain.InstanceStatus, lastDirty int64, isReplication bool) int {
	if h.registry.StatusUpdate(app, id, st, lastDirty, isReplication) {
		return http.StatusOK
	}
	return h.staleOrMissing(app, id, "statusUpdate")
}

func (h *HTTPServer) deleteStatusOverride(app, id string, lastDirty int64, isReplication bool) int {
	if h.registry.DeleteStatusOverride(app, id, lastDirty, isReplication) {
		return http.StatusOK
	}
	return h.staleOrMissing(app, id, "deleteStatusOverride")
}

func (h *HTTPServer) staleOrMissing(app, id, op string) int {
	if _, ok := h.registry.GetInstance(app, id); !ok {
		return http.StatusNotFound
	}
	level.Debug(h.logger).Log("msg", "stale write ignored", "op", op, "app", app, "id", id)
	return http.StatusOK
}
