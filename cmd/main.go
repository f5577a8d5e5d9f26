package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"myregistry/adapters/etcdpeers"
	"myregistry/adapters/myredis"
	"myregistry/adapters/peerfile"
	"myregistry/adapters/peerhttp"
	"myregistry/api"
	"myregistry/domain"
	"myregistry/handlers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting MyRegistry service")

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"node_id", config.NodeID,
		"node_url", config.NodeURL,
		"peer_source", config.PeerSource,
		"redis_addr", config.Redis.Addr,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(promRegistry)
	clock := service.NewTimeProvider(time.Now)

	// Registry and the response cache in front of its read views
	registry := service.NewRegistry(config.Registry, clock, metrics, logger)
	cache := service.NewResponseCache(registry, config.ResponseCache, metrics, logger)
	registry.SetResponseCache(cache)

	// Peer membership source
	var (
		source     interfaces.PeerSource
		fileSource *peerfile.Source
		etcdSource *etcdpeers.Source
	)
	{
		switch config.PeerSource {
		case peerSourceFile:
			fileSource, err = peerfile.New(config.PeersFile, peerfile.DefaultDebounce, logger)
			if err != nil {
				level.Error(logger).Log("msg", "Failed to create peers file source", "err", err)
				os.Exit(1)
			}
			if err := fileSource.Start(); err != nil {
				level.Error(logger).Log("msg", "Failed to watch peers file", "path", config.PeersFile, "err", err)
				os.Exit(1)
			}
			source = fileSource
		case peerSourceEtcd:
			etcdSource, err = etcdpeers.New(config.EtcdEndpoints, config.EtcdPrefix, config.EtcdDialTimeout, logger)
			if err != nil {
				level.Error(logger).Log("msg", "Failed to connect to etcd", "err", err)
				os.Exit(1)
			}
			announceCtx, cancel := context.WithTimeout(ctx, config.EtcdDialTimeout)
			err = etcdSource.Announce(announceCtx, config.NodeID, config.NodeURL, config.EtcdLeaseTTL)
			cancel()
			if err != nil {
				level.Error(logger).Log("msg", "Failed to announce node in etcd", "err", err)
				os.Exit(1)
			}
			etcdSource.Start()
			source = etcdSource
		default:
			source = service.StaticPeers(config.PeerURLs)
		}
	}

	// Peer replication
	var peers *service.PeerNodeSet
	{
		factory, err := peerhttp.NewFactory(config.PeerClient)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to create peer client factory", "err", err)
			os.Exit(1)
		}
		peers = service.NewPeerNodeSet(config.NodeURL, source, factory, registry, config.Replication, clock, metrics, logger)
		registry.SetReplicator(peers)
		if err := peers.Refresh(ctx); err != nil {
			level.Warn(logger).Log("msg", "Initial peer membership load failed", "err", err)
		}
	}

	// Optional Redis snapshot of the leases
	var (
		redisClient redis.UniversalClient
		persister   *service.SnapshotPersister
	)
	if config.Redis.Addr != "" {
		redisClient, err = myredis.NewRedisUniversalClient(config.Redis.Addr, myredis.WithTimeouts(5*time.Second, 3*time.Second))
		if err != nil {
			level.Error(logger).Log("msg", "Failed to create Redis client", "err", err)
			os.Exit(1)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			level.Error(logger).Log("msg", "Failed to connect to Redis", "err", err)
			os.Exit(1)
		}
		level.Info(logger).Log("msg", "Connected to Redis")

		snapshots := myredis.NewJSONStore[domain.InstanceInfo](redisClient, "instance")
		persister = service.NewSnapshotPersister(registry, snapshots, config.SnapshotInterval, logger)
	}

	// Warm up from peers, then from the snapshot when no peer had data
	{
		count := registry.SyncUp(ctx, peers.Clients())
		if count == 0 && persister != nil {
			restored, err := persister.Restore(ctx)
			if err != nil {
				level.Warn(logger).Log("msg", "Snapshot restore failed", "err", err)
			}
			count = restored
		}
		registry.OpenForTraffic(count)
		level.Info(logger).Log("msg", "Registry open for traffic", "instances", count)
	}

	// Background loops
	evictor := service.NewEvictor(registry, clock, config.EvictionSeed, logger)
	go registry.Run(ctx)
	go evictor.Run(ctx)
	go cache.Run(ctx)
	go peers.Run(ctx)
	if persister != nil {
		go persister.Run(ctx)
	}

	// Create HTTP server (Echo)
	var e *echo.Echo
	{
		validator, err := handlers.OpenAPIValidator(ctx, api.OpenAPISpec)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to load OpenAPI document", "err", err)
			os.Exit(1)
		}
		var limiter *rate.Limiter
		if config.FetchRateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(config.FetchRateLimit), config.FetchBurst)
		}

		e = echo.New()
		e.HideBanner = true
		e.JSONSerializer = handlers.JSONSerializer{}
		handlers.UseDefaultMiddleware(e, validator, limiter)
		service.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, handlers.NewHTTPServer(registry, cache, peers, logger))
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr, "base_url", strings.TrimSuffix(config.NodeURL, "/"))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	level.Info(logger).Log("msg", "Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var errs error
	errs = multierr.Append(errs, e.Shutdown(shutdownCtx))
	stop()
	if persister != nil {
		errs = multierr.Append(errs, persister.Persist(shutdownCtx))
	}
	errs = multierr.Append(errs, peers.Shutdown())
	if fileSource != nil {
		errs = multierr.Append(errs, fileSource.Stop())
	}
	if etcdSource != nil {
		errs = multierr.Append(errs, etcdSource.Withdraw(shutdownCtx))
		errs = multierr.Append(errs, etcdSource.Close())
	}
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	for _, err := range multierr.Errors(errs) {
		level.Error(logger).Log("msg", "Error during shutdown", "err", err)
	}

	level.Info(logger).Log("msg", "Server stopped")
}
