package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	gjson "github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	// KeyAllApps is the cache key of the full registry payload.
	KeyAllApps = "ALL_APPS"
	// KeyAllAppsRemote is the cache key of the full payload with remote regions requested.
	KeyAllAppsRemote = "ALL_APPS_REMOTE"
	// KeyDelta is the cache key of the delta payload.
	KeyDelta = "ALL_APPS_DELTA"

	appKeyPrefix = "APP:"
)

// AppCacheKey returns the cache key of one application payload.
func AppCacheKey(appName string) string {
	return appKeyPrefix + domain.NormalizeAppName(appName)
}

// ResponseCache implements interfaces.ResponseCache with two levels: a read-write go-cache level that is
// invalidated on every change and expires entries after AutoExpiration, and an optional read-only map
// served to readers and refreshed from the read-write level every ReadOnlyUpdateInterval. Readers of the
// read-only level may observe a payload up to one refresh interval old.
//
// Every Invalidate bumps generation. A payload is stored in either level only if no Invalidate ran
// since its generation started; storeMu orders that check against Invalidate.
type ResponseCache struct {
	registry interfaces.InstanceRegistry
	cfg      ResponseCacheConfig
	metrics  *Metrics
	logger   log.Logger

	readWrite *gocache.Cache
	readOnly  sync.Map
	group     singleflight.Group

	storeMu    sync.Mutex
	generation atomic.Uint64
}

// NewResponseCache creates the payload cache over registry. Panics on nil registry, metrics or logger.
//
// Parameters: registry: source of the read views; cfg: expiry, read-only level and its refresh interval.
//
// Called from cmd/main; the registry is then given the cache with Registry.SetResponseCache.
func NewResponseCache(
	registry interfaces.InstanceRegistry,
	cfg ResponseCacheConfig,
	metrics *Metrics,
	logger log.Logger,
) *ResponseCache {
	return &ResponseCache{
		registry:  helpers.NilPanic(registry, "service.response_cache.go: registry is required"),
		cfg:       cfg,
		metrics:   helpers.NilPanic(metrics, "service.response_cache.go: metrics is required"),
		logger:    log.With(helpers.NilPanic(logger, "service.response_cache.go: logger is required"), "component", "response_cache"),
		readWrite: gocache.New(cfg.AutoExpiration, cfg.AutoExpiration),
	}
}

// Get returns the encoded payload for key.
//
// Returns: (payload, nil) on success; (nil, entity_not_found) for an application key with no instances;
// (nil, internal_server_error) when encoding fails.
func (c *ResponseCache) Get(key string) ([]byte, error) {
	if c.cfg.UseReadOnlyCache {
		if v, ok := c.readOnly.Load(key); ok {
			c.metrics.CacheHits.WithLabelValues("read_only").Inc()
			return v.([]byte), nil
		}
	}
	gen := c.generation.Load()
	payload, err := c.getReadWrite(key)
	if err != nil {
		return nil, err
	}
	if c.cfg.UseReadOnlyCache {
		c.storeIfCurrent(gen, func() { c.readOnly.Store(key, payload) })
	}
	return payload, nil
}

func (c *ResponseCache) getReadWrite(key string) ([]byte, error) {
	if v, ok := c.readWrite.Get(key); ok {
		c.metrics.CacheHits.WithLabelValues("read_write").Inc()
		return v.([]byte), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.metrics.CacheMisses.WithLabelValues("read_write").Inc()
		gen := c.generation.Load()
		payload, err := c.generate(key)
		if err != nil {
			return nil, err
		}
		if !c.storeIfCurrent(gen, func() { c.readWrite.SetDefault(key, payload) }) {
			level.Debug(c.logger).Log("msg", "registry changed while encoding, payload not cached", "key", key)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *ResponseCache) generate(key string) ([]byte, error) {
	var value any
	switch {
	case key == KeyAllApps:
		value = c.registry.GetApplications(false)
	case key == KeyAllAppsRemote:
		value = c.registry.GetApplications(true)
	case key == KeyDelta:
		value = c.registry.GetApplicationDeltas()
	case strings.HasPrefix(key, appKeyPrefix):
		name := strings.TrimPrefix(key, appKeyPrefix)
		app, ok := c.registry.GetApplication(name)
		if !ok {
			return nil, NewEntityNotFoundError("application not found: "+name, nil)
		}
		value = app
	default:
		return nil, NewBadParameterError("unknown cache key: "+key, nil)
	}

	payload, err := gjson.Marshal(value)
	if err != nil {
		return nil, NewInternalServerError("encode registry payload", err)
	}
	return payload, nil
}

// Invalidate drops the full, delta and application payloads for appName from the read-write level.
// Payloads being generated concurrently are returned to their callers but never stored. The read-only
// level catches up on its next refresh.
//
// Parameters: appName: the changed application; "" flushes everything (ASG changes).
//
// Called from Registry on every visible change.
func (c *ResponseCache) Invalidate(appName string) {
	keys := []string{KeyAllApps, KeyAllAppsRemote, KeyDelta}
	if appName != "" {
		keys = append(keys, AppCacheKey(appName))
	}

	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	c.generation.Add(1)
	if appName == "" {
		c.readWrite.Flush()
	} else {
		for _, key := range keys {
			c.readWrite.Delete(key)
		}
	}
	for _, key := range keys {
		c.group.Forget(key)
	}
}

// storeIfCurrent runs store unless Invalidate ran after gen was read. Reports whether store ran.
func (c *ResponseCache) storeIfCurrent(gen uint64, store func()) bool {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.generation.Load() != gen {
		return false
	}
	store()
	return true
}

// Run refreshes the read-only level every ReadOnlyUpdateInterval until ctx is done. A no-op when the
// read-only level is disabled.
//
// Called from cmd/main in its own goroutine.
func (c *ResponseCache) Run(ctx context.Context) {
	if !c.cfg.UseReadOnlyCache {
		return
	}
	ticker := time.NewTicker(c.cfg.ReadOnlyUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshReadOnly()
		}
	}
}

// refreshReadOnly copies every key held by the read-only level from the read-write level. Keys that can
// no longer be generated (an application that lost its last instance) are dropped.
func (c *ResponseCache) refreshReadOnly() {
	c.readOnly.Range(func(k, v any) bool {
		key := k.(string)
		gen := c.generation.Load()
		payload, err := c.getReadWrite(key)
		if err != nil {
			c.readOnly.Delete(key)
			if !IsEntityNotFoundError(err) {
				level.Warn(c.logger).Log("msg", "refresh read-only payload", "key", key, "err", err)
			}
			return true
		}
		if !bytes.Equal(payload, v.([]byte)) {
			c.storeIfCurrent(gen, func() { c.readOnly.Store(key, payload) })
		}
		return true
	})
}
