package service

import (
	"context"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SnapshotPersister mirrors the registry into an external cache so a node restarting without reachable
// peers can warm up from it. Each instance is written with a TTL equal to its lease duration; keys of
// instances no longer registered are deleted on the next persist.
type SnapshotPersister struct {
	registry *Registry
	cache    interfaces.Cache[domain.InstanceInfo]
	interval time.Duration
	logger   log.Logger
}

// NewSnapshotPersister creates the persister. Panics on nil registry, cache or logger.
//
// Parameters: registry: source of the stored records; cache: snapshot store; interval: time between two
// Persist runs.
//
// Called from cmd/main when REDIS_ADDR is set, with adapters/myredis as cache.
func NewSnapshotPersister(registry *Registry, cache interfaces.Cache[domain.InstanceInfo], interval time.Duration, logger log.Logger) *SnapshotPersister {
	return &SnapshotPersister{
		registry: helpers.NilPanic(registry, "service.snapshot_persister.go: registry is required"),
		cache:    helpers.NilPanic(cache, "service.snapshot_persister.go: cache is required"),
		interval: interval,
		logger:   log.With(helpers.NilPanic(logger, "service.snapshot_persister.go: logger is required"), "component", "snapshot_persister"),
	}
}

// SnapshotKey returns the cache key of one instance.
func SnapshotKey(appName, id string) string {
	return domain.NormalizeAppName(appName) + ":" + id
}

// Persist writes every current instance and deletes the keys of instances that are gone.
//
// Returns: nil on success; internal_server_error on the first write or delete failure.
func (p *SnapshotPersister) Persist(ctx context.Context) error {
	current := make(map[string]bool)
	for _, raw := range p.registry.rawSnapshot() {
		key := SnapshotKey(raw.AppName, raw.InstanceID)
		ttl := raw.LeaseInfo.DurationInSecs * 1000
		if err := p.cache.WriteValue(ctx, key, raw, ttl); err != nil {
			return err
		}
		current[key] = true
	}

	stored, err := p.cache.ListAllValues(ctx)
	if err != nil && !IsEntityNotFoundError(err) {
		return err
	}
	for _, inst := range stored {
		key := SnapshotKey(inst.AppName, inst.InstanceID)
		if current[key] {
			continue
		}
		if err := p.cache.DeleteValue(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Restore registers every persisted instance as replication traffic and returns how many were loaded.
//
// Returns: (0, nil) when the cache is empty; (0, internal_server_error) when listing fails.
//
// Called from cmd/main when SyncUp found no instance on any peer.
func (p *SnapshotPersister) Restore(ctx context.Context) (int, error) {
	stored, err := p.cache.ListAllValues(ctx)
	if err != nil {
		if IsEntityNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}
	for _, inst := range stored {
		p.registry.Register(inst, inst.LeaseInfo.DurationInSecs, true)
	}
	level.Info(p.logger).Log("msg", "restored registry snapshot", "instances", len(stored))
	return len(stored), nil
}

// Run persists every interval until ctx is done.
//
// Called from cmd/main in its own goroutine; cmd/main runs Persist once more on shutdown.
func (p *SnapshotPersister) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Persist(ctx); err != nil {
				level.Warn(p.logger).Log("msg", "persist registry snapshot", "err", err)
			}
		}
	}
}
