package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Registry implements interfaces.InstanceRegistry. It holds the leases of one node, applies
// last-writer-wins on lastDirtyTimestamp, records every visible change in the delta queue and hands
// local mutations to the Replicator.
//
// Fields: cfg, clock, metrics, logger; store (app -> id -> lease); selfPres (renewal accounting);
// recent (delta queue); asg (disabled autoscaling groups); version (bumped on every visible change);
// under hooksMu: replicator and cache, set once during wiring.
type Registry struct {
	cfg      RegistryConfig
	clock    interfaces.TimeProvider
	metrics  *Metrics
	logger   log.Logger
	store    *leaseStore
	selfPres *SelfPreservation
	recent   *recentChanges
	asg      *asgRegistry
	version  atomic.Int64

	hooksMu    sync.RWMutex
	replicator interfaces.Replicator
	cache      interfaces.ResponseCache
}

var _ interfaces.InstanceRegistry = (*Registry)(nil)

// NewRegistry creates an empty registry. Panics on nil clock, metrics or logger.
//
// Parameters: cfg: lease, delta and self-preservation settings (DefaultRegistryConfig unless tuned); clock: time
// source for every lease timestamp; metrics: collectors (NewNopMetrics in tests); logger: base logger.
//
// Called from cmd/main; replicator and response cache are attached afterwards with SetReplicator and
// SetResponseCache because both of them need the registry first.
func NewRegistry(cfg RegistryConfig, clock interfaces.TimeProvider, metrics *Metrics, logger log.Logger) *Registry {
	metrics = helpers.NilPanic(metrics, "service.registry.go: metrics is required")
	return &Registry{
		cfg:      cfg,
		clock:    helpers.NilPanic(clock, "service.registry.go: clock is required"),
		metrics:  metrics,
		logger:   log.With(helpers.NilPanic(logger, "service.registry.go: logger is required"), "component", "registry"),
		store:    newLeaseStore(),
		selfPres: NewSelfPreservation(cfg, metrics),
		recent:   newRecentChanges(cfg.DeltaRetention),
		asg:      newASGRegistry(),
	}
}

// SetReplicator attaches the peer fan-out. Local mutations made before it is set are not replicated.
func (r *Registry) SetReplicator(replicator interfaces.Replicator) {
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.replicator = replicator
}

// SetResponseCache attaches the cache invalidated on every visible change.
func (r *Registry) SetResponseCache(cache interfaces.ResponseCache) {
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.cache = cache
}

// SelfPreservation returns the renewal accounting used by the evictor.
func (r *Registry) SelfPreservation() *SelfPreservation {
	return r.selfPres
}

// Register creates or overwrites a lease. An incoming lastDirtyTimestamp that is not newer than the
// stored one keeps the stored record and only renews it. An override already in effect survives a
// registration that does not carry one.
//
// Parameters: info: the record (empty Status means UP, zero lastDirtyTimestamp means now);
// leaseDurationSecs: <= 0 falls back to info.LeaseInfo, then to the default; isReplication: true for peer
// traffic, which is never forwarded.
//
// Called from HTTPServer.RegisterInstance, the batch endpoint, SyncUp, SnapshotPersister.Restore and
// ReconcileWithPeerCopy.
func (r *Registry) Register(info domain.InstanceInfo, leaseDurationSecs int, isReplication bool) {
	now := r.clock.Now().UnixMilli()
	info = info.Clone()
	info.AppName = domain.NormalizeAppName(info.AppName)
	if info.Status == "" {
		info.Status = domain.StatusUp
	}
	if info.LastDirtyTimestamp == 0 {
		info.LastDirtyTimestamp = now
	}
	if info.LeaseInfo.RenewalIntervalInSecs <= 0 {
		info.LeaseInfo.RenewalIntervalInSecs = int(r.cfg.ExpectedRenewalInterval / time.Second)
	}
	duration := r.leaseDuration(leaseDurationSecs, info)
	key := info.Key()

	var (
		raw, view        domain.InstanceInfo
		created, changed bool
	)
	r.store.write(key.AppName, true, func(leases map[string]*lease) {
		existing := leases[key.InstanceID]
		if existing != nil && info.LastDirtyTimestamp <= existing.info.LastDirtyTimestamp {
			existing.renew(now)
			raw = r.raw(existing)
			return
		}

		if existing != nil && !info.HasOverride() && existing.info.HasOverride() {
			info.OverriddenStatus = existing.info.OverriddenStatus
		}
		l := newLease(info, duration, now)
		if existing != nil {
			if existing.serviceUpAt > 0 {
				l.serviceUpAt = existing.serviceUpAt
			}
			l.info.ActionType = domain.ActionModified
		} else {
			created = true
			l.info.ActionType = domain.ActionAdded
		}
		l.info.LastUpdatedTimestamp = now
		leases[key.InstanceID] = l
		changed = true
		raw = r.raw(l)
		view = r.view(l)
	})

	if created {
		r.store.size.Add(1)
		r.selfPres.InstanceRegistered()
		r.metrics.Instances.Inc()
	}
	if changed {
		r.metrics.Registrations.WithLabelValues(origin(isReplication)).Inc()
		r.recordChange(view, now)
		level.Debug(r.logger).Log("msg", "registered", "instance", key, "status", view.Status, "replication", isReplication)
	} else {
		r.metrics.StaleWrites.WithLabelValues("register").Inc()
		level.Debug(r.logger).Log("msg", "registration kept newer record", "instance", key, "replication", isReplication)
	}

	if !isReplication {
		r.replicate(domain.ReplicationTask{
			Action:             domain.ActionRegister,
			AppName:            key.AppName,
			InstanceID:         key.InstanceID,
			Info:               raw,
			Status:             raw.Status,
			LastDirtyTimestamp: raw.LastDirtyTimestamp,
			NewLease:           created,
			EnqueuedAt:         now,
		})
	}
}

// Renew resets the lease deadline and counts the renewal for self-preservation.
//
// Returns: false when no lease exists, telling the caller to register again.
//
// Called from HTTPServer.RenewLease and the batch endpoint for heartbeats.
func (r *Registry) Renew(appName, id string, isReplication bool) bool {
	now := r.clock.Now().UnixMilli()
	key := domain.InstanceKey{AppName: domain.NormalizeAppName(appName), InstanceID: id}

	var (
		raw   domain.InstanceInfo
		found bool
	)
	r.store.read(key.AppName, func(leases map[string]*lease) {
		l := leases[key.InstanceID]
		if l == nil {
			return
		}
		l.renew(now)
		found = true
		if !isReplication {
			raw = r.raw(l)
		}
	})
	if !found {
		r.metrics.RenewalsNotFound.Inc()
		level.Debug(r.logger).Log("msg", "renewal for unknown instance", "instance", key, "replication", isReplication)
		return false
	}

	r.selfPres.RecordRenewal()
	r.metrics.Renewals.WithLabelValues(origin(isReplication)).Inc()
	if !isReplication {
		r.replicate(domain.ReplicationTask{
			Action:             domain.ActionHeartbeat,
			AppName:            key.AppName,
			InstanceID:         key.InstanceID,
			Info:               raw,
			Status:             raw.OverriddenStatus,
			LastDirtyTimestamp: raw.LastDirtyTimestamp,
			EnqueuedAt:         now,
		})
	}
	return true
}

// Cancel removes a lease and records the deletion in the delta queue.
//
// Returns: false when no lease exists.
//
// Called from HTTPServer.CancelLease and the batch endpoint.
func (r *Registry) Cancel(appName, id string, isReplication bool) bool {
	key := domain.InstanceKey{AppName: domain.NormalizeAppName(appName), InstanceID: id}
	return r.cancel(key, origin(isReplication), !isReplication, nil)
}

// evict removes a lease that is still expired at nowMs (deadline extended by additionalMs) without
// replicating: every peer runs its own eviction. A lease renewed or re-registered since it was found
// expired is kept.
func (r *Registry) evict(key domain.InstanceKey, nowMs, additionalMs int64) bool {
	return r.cancel(key, "eviction", false, func(l *lease) bool { return l.isExpired(nowMs, additionalMs) })
}

// cancel removes the lease of key when it exists and, if remove is set, remove approves it under the
// shard write lock.
func (r *Registry) cancel(key domain.InstanceKey, reason string, replicate bool, remove func(*lease) bool) bool {
	now := r.clock.Now().UnixMilli()

	var (
		view        domain.InstanceInfo
		found, kept bool
	)
	r.store.write(key.AppName, false, func(leases map[string]*lease) {
		l := leases[key.InstanceID]
		if l == nil {
			return
		}
		if remove != nil && !remove(l) {
			kept = true
			return
		}
		delete(leases, key.InstanceID)
		l.evictedAt.Store(now)
		view = r.view(l)
		view.ActionType = domain.ActionDeleted
		view.LastUpdatedTimestamp = now
		found = true
	})
	if kept {
		level.Debug(r.logger).Log("msg", "lease renewed before removal, kept", "instance", key, "reason", reason)
		return false
	}
	if !found {
		level.Debug(r.logger).Log("msg", "cancel for unknown instance", "instance", key, "reason", reason)
		return false
	}

	r.store.size.Add(-1)
	r.selfPres.InstanceCancelled()
	r.metrics.Instances.Dec()
	r.metrics.Cancellations.WithLabelValues(reason).Inc()
	r.recordChange(view, now)
	level.Debug(r.logger).Log("msg", "cancelled", "instance", key, "reason", reason)

	if replicate {
		r.replicate(domain.ReplicationTask{
			Action:             domain.ActionCancel,
			AppName:            key.AppName,
			InstanceID:         key.InstanceID,
			Info:               view,
			LastDirtyTimestamp: view.LastDirtyTimestamp,
			EnqueuedAt:         now,
		})
	}
	return true
}

// StatusUpdate sets the overridden status. A zero lastDirtyTimestamp means "now".
//
// Returns: false when no lease exists or the stored lastDirtyTimestamp is newer; the handler tells the two
// apart with GetInstance.
//
// Called from HTTPServer.StatusUpdate and the batch endpoint.
func (r *Registry) StatusUpdate(appName, id string, newStatus domain.InstanceStatus, lastDirtyTimestamp int64, isReplication bool) bool {
	return r.setOverride(appName, id, newStatus, lastDirtyTimestamp, isReplication, domain.ActionStatusUpdate)
}

// DeleteStatusOverride clears the overridden status so the instance's own status is visible again.
// Same return contract as StatusUpdate.
func (r *Registry) DeleteStatusOverride(appName, id string, lastDirtyTimestamp int64, isReplication bool) bool {
	return r.setOverride(appName, id, domain.StatusUnknown, lastDirtyTimestamp, isReplication, domain.ActionDeleteStatusOverride)
}

func (r *Registry) setOverride(
	appName, id string,
	status domain.InstanceStatus,
	lastDirtyTimestamp int64,
	isReplication bool,
	action domain.ReplicationAction,
) bool {
	now := r.clock.Now().UnixMilli()
	key := domain.InstanceKey{AppName: domain.NormalizeAppName(appName), InstanceID: id}

	var (
		raw, view      domain.InstanceInfo
		applied, stale bool
	)
	r.store.write(key.AppName, false, func(leases map[string]*lease) {
		l := leases[key.InstanceID]
		if l == nil {
			return
		}
		ts := lastDirtyTimestamp
		if ts == 0 {
			ts = max(now, l.info.LastDirtyTimestamp)
		}
		if ts < l.info.LastDirtyTimestamp {
			stale = true
			return
		}
		l.info.OverriddenStatus = status
		l.info.LastDirtyTimestamp = ts
		l.info.LastUpdatedTimestamp = now
		l.info.ActionType = domain.ActionModified
		if status == domain.StatusUp && l.serviceUpAt == 0 {
			l.serviceUpAt = now
		}
		applied = true
		raw = r.raw(l)
		view = r.view(l)
	})
	if stale {
		r.metrics.StaleWrites.WithLabelValues(string(action)).Inc()
		level.Debug(r.logger).Log("msg", "status change older than stored record", "instance", key, "action", action)
	}
	if !applied {
		return false
	}

	r.recordChange(view, now)
	level.Debug(r.logger).Log("msg", "status override changed", "instance", key, "overridden", status, "replication", isReplication)
	if !isReplication {
		r.replicate(domain.ReplicationTask{
			Action:             action,
			AppName:            key.AppName,
			InstanceID:         key.InstanceID,
			Info:               raw,
			Status:             status,
			LastDirtyTimestamp: raw.LastDirtyTimestamp,
			EnqueuedAt:         now,
		})
	}
	return true
}

// StoreOverriddenStatus records an override carried by a replicated heartbeat. lastDirtyTimestamp is left
// untouched.
func (r *Registry) StoreOverriddenStatus(appName, id string, status domain.InstanceStatus) {
	now := r.clock.Now().UnixMilli()
	key := domain.InstanceKey{AppName: domain.NormalizeAppName(appName), InstanceID: id}

	var (
		view    domain.InstanceInfo
		changed bool
	)
	r.store.write(key.AppName, false, func(leases map[string]*lease) {
		l := leases[key.InstanceID]
		if l == nil || l.info.OverriddenStatus == status {
			return
		}
		l.info.OverriddenStatus = status
		l.info.LastUpdatedTimestamp = now
		l.info.ActionType = domain.ActionModified
		view = r.view(l)
		changed = true
	})
	if changed {
		r.recordChange(view, now)
	}
}

// ASGStatusUpdate records the enable flag of an autoscaling group. UP instances of a disabled group are
// shown as OUT_OF_SERVICE.
func (r *Registry) ASGStatusUpdate(asgName string, status domain.ASGStatus, isReplication bool) {
	r.asg.set(asgName, status)
	r.version.Add(1)
	r.invalidate("")
	level.Info(r.logger).Log("msg", "asg status changed", "asg", asgName, "status", status, "replication", isReplication)

	if !isReplication {
		r.hooksMu.RLock()
		replicator := r.replicator
		r.hooksMu.RUnlock()
		if replicator != nil {
			replicator.ReplicateASGStatus(asgName, status)
		}
	}
}

// GetApplications returns a full snapshot. There are no remote regions, so includeRemoteRegions only
// matters to the response cache key.
func (r *Registry) GetApplications(_ bool) domain.Applications {
	version := r.version.Load()
	apps := r.snapshot()
	return domain.Applications{
		VersionDelta: version,
		AppsHashCode: domain.ReconcileHashCode(apps),
		Applications: apps,
	}
}

// GetStoredApplications returns every stored record grouped by application, with each instance's own
// status instead of the effective one. Served to peers running SyncUp.
func (r *Registry) GetStoredApplications() domain.Applications {
	version := r.version.Load()
	byApp := make(map[string][]domain.InstanceInfo)
	for _, info := range r.rawSnapshot() {
		byApp[info.AppName] = append(byApp[info.AppName], info)
	}
	out := domain.Applications{VersionDelta: version}
	for name, instances := range byApp {
		out.Applications = append(out.Applications, domain.Application{Name: name, Instances: instances})
	}
	out.Sort()
	out.AppsHashCode = domain.ReconcileHashCode(out.Applications)
	return out
}

// GetApplicationDeltas returns the changes within the retention window grouped by application, with the
// hash code of the full registry so clients can verify the delta they applied.
func (r *Registry) GetApplicationDeltas() domain.Applications {
	version := r.version.Load()
	changes := r.recent.snapshot(r.clock.Now().UnixMilli())

	byApp := make(map[string][]domain.InstanceInfo)
	for _, c := range changes {
		byApp[c.AppName] = append(byApp[c.AppName], c)
	}
	names := make([]string, 0, len(byApp))
	for name := range byApp {
		names = append(names, name)
	}
	sort.Strings(names)

	deltas := make([]domain.Application, 0, len(names))
	for _, name := range names {
		deltas = append(deltas, domain.Application{Name: name, Instances: byApp[name]})
	}
	return domain.Applications{
		VersionDelta: version,
		AppsHashCode: domain.ReconcileHashCode(r.snapshot()),
		Applications: deltas,
	}
}

// GetApplication returns one application. ok is false when it has no instances.
func (r *Registry) GetApplication(appName string) (domain.Application, bool) {
	appName = domain.NormalizeAppName(appName)
	app := domain.Application{Name: appName}
	r.store.read(appName, func(leases map[string]*lease) {
		for _, l := range leases {
			app.Instances = append(app.Instances, r.view(l))
		}
	})
	if len(app.Instances) == 0 {
		return domain.Application{}, false
	}
	sort.Slice(app.Instances, func(i, j int) bool { return app.Instances[i].InstanceID < app.Instances[j].InstanceID })
	return app, true
}

// GetInstance returns the read view of one instance.
func (r *Registry) GetInstance(appName, id string) (domain.InstanceInfo, bool) {
	return r.lookup(appName, id, r.view)
}

// CurrentInstance returns the stored record without applying overrides or ASG state to the status.
// Used to build compensating registrations for peers and the stored copy of a 409 answer.
func (r *Registry) CurrentInstance(appName, id string) (domain.InstanceInfo, bool) {
	return r.lookup(appName, id, r.raw)
}

func (r *Registry) lookup(appName, id string, project func(*lease) domain.InstanceInfo) (domain.InstanceInfo, bool) {
	var (
		out   domain.InstanceInfo
		found bool
	)
	r.store.read(domain.NormalizeAppName(appName), func(leases map[string]*lease) {
		if l := leases[id]; l != nil {
			out = project(l)
			found = true
		}
	})
	return out, found
}

// ReconcileWithPeerCopy adopts the copy a peer returned with a 409 when it is newer than the local record
// (or the local record is gone). The adopted copy is not replicated again.
//
// Parameters: peer: the peer's stored record (CurrentInstance on the peer), so its Status is the instance's
// own status and any override travels in OverriddenStatus.
//
// Called from PeerNode when a replicated heartbeat is answered with 409.
func (r *Registry) ReconcileWithPeerCopy(peer domain.InstanceInfo) {
	local, ok := r.CurrentInstance(peer.AppName, peer.InstanceID)
	if ok && peer.LastDirtyTimestamp <= local.LastDirtyTimestamp {
		level.Debug(r.logger).Log("msg", "peer copy is not newer, keeping local record", "instance", peer.Key())
		return
	}
	r.Register(peer, peer.LeaseInfo.DurationInSecs, true)
	if peer.HasOverride() {
		r.StoreOverriddenStatus(peer.AppName, peer.InstanceID, peer.OverriddenStatus)
	}
	level.Info(r.logger).Log("msg", "adopted newer peer copy", "instance", peer.Key(), "lastDirtyTimestamp", peer.LastDirtyTimestamp)
}

// Size returns the number of leases held.
func (r *Registry) Size() int {
	return r.store.len()
}

// Version returns the counter bumped on every visible change.
func (r *Registry) Version() int64 {
	return r.version.Load()
}

// OpenForTraffic sets the expected renewals for count instances without smoothing.
//
// Parameters: count: the number of instances obtained by SyncUp or a snapshot restore.
//
// Called from cmd/main once, before the HTTP server starts.
func (r *Registry) OpenForTraffic(count int) {
	r.selfPres.Reset(count)
	level.Info(r.logger).Log("msg", "open for traffic", "instances", count, "expectedRenewals", r.selfPres.Expected())
}

// Run prunes the delta queue every DeltaRetentionInterval until ctx is done.
//
// Called from cmd/main in its own goroutine.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.DeltaRetentionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.recent.prune(r.clock.Now().UnixMilli()); n > 0 {
				level.Debug(r.logger).Log("msg", "pruned delta queue", "removed", n)
			}
		}
	}
}

// expiredLeases returns the keys whose deadline (extended by additionalMs) has passed.
func (r *Registry) expiredLeases(nowMs, additionalMs int64) []domain.InstanceKey {
	var out []domain.InstanceKey
	r.store.each(func(appName string, l *lease) {
		if l.isExpired(nowMs, additionalMs) {
			out = append(out, domain.InstanceKey{AppName: appName, InstanceID: l.info.InstanceID})
		}
	})
	return out
}

func (r *Registry) leaseDuration(secs int, info domain.InstanceInfo) time.Duration {
	if secs <= 0 {
		secs = info.LeaseInfo.DurationInSecs
	}
	if secs <= 0 {
		return r.cfg.DefaultLeaseDuration
	}
	return time.Duration(secs) * time.Second
}

// raw copies the stored record with the current lease timestamps. Caller must hold the shard lock.
func (r *Registry) raw(l *lease) domain.InstanceInfo {
	out := l.info.Clone()
	out.LeaseInfo = l.leaseInfo()
	return out
}

// view is raw with the effective status: the override when one is set, OUT_OF_SERVICE for an UP instance
// of a disabled ASG, otherwise the instance's own status. Caller must hold the shard lock.
func (r *Registry) view(l *lease) domain.InstanceInfo {
	out := r.raw(l)
	switch {
	case l.info.HasOverride():
		out.Status = l.info.OverriddenStatus
	case l.info.Status == domain.StatusUp && !r.asg.isEnabled(l.info.ASGName):
		out.Status = domain.StatusOutOfService
	}
	return out
}

func (r *Registry) snapshot() []domain.Application {
	var apps []domain.Application
	for _, name := range r.store.appNames() {
		app := domain.Application{Name: name}
		r.store.read(name, func(leases map[string]*lease) {
			for _, l := range leases {
				app.Instances = append(app.Instances, r.view(l))
			}
		})
		if len(app.Instances) == 0 {
			continue
		}
		sort.Slice(app.Instances, func(i, j int) bool { return app.Instances[i].InstanceID < app.Instances[j].InstanceID })
		apps = append(apps, app)
	}
	return apps
}

// rawSnapshot returns the stored record of every lease.
func (r *Registry) rawSnapshot() []domain.InstanceInfo {
	var out []domain.InstanceInfo
	r.store.each(func(_ string, l *lease) {
		out = append(out, r.raw(l))
	})
	return out
}

func (r *Registry) recordChange(view domain.InstanceInfo, nowMs int64) {
	r.version.Add(1)
	r.recent.add(view, nowMs)
	r.invalidate(view.AppName)
}

func (r *Registry) invalidate(appName string) {
	r.hooksMu.RLock()
	cache := r.cache
	r.hooksMu.RUnlock()
	if cache != nil {
		cache.Invalidate(appName)
	}
}

func (r *Registry) replicate(task domain.ReplicationTask) {
	r.hooksMu.RLock()
	replicator := r.replicator
	r.hooksMu.RUnlock()
	if replicator != nil {
		replicator.Replicate(task)
	}
}
