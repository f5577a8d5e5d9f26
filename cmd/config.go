package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"myregistry/adapters/etcdpeers"
	"myregistry/adapters/myredis"
	"myregistry/adapters/peerhttp"
	"myregistry/handlers"
	"myregistry/service"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envHTTPPort      = "SERVICE_PORT_HTTP"
	envNodeURL       = "NODE_URL"
	envNodeID        = "NODE_ID"
	envPeerSource    = "PEER_SOURCE"
	envPeerURLs      = "PEER_URLS"
	envPeersFile     = "PEERS_FILE"
	envEtcdEndpoints = "ETCD_ENDPOINTS"
	envRedisAddr     = "REDIS_ADDR"
	envConfigPath    = "CONFIG_PATH"
)

// Peer membership sources selected by PEER_SOURCE.
const (
	peerSourceStatic = "static"
	peerSourceFile   = "file"
	peerSourceEtcd   = "etcd"
)

// Config holds the node configuration loaded by LoadConfig from environment variables and the optional
// YAML tuning file. Redis.Addr empty disables snapshot persistence.
type Config struct {
	HTTPPort   int
	NodeID     string
	NodeURL    string
	PeerSource string
	PeerURLs   []string
	PeersFile  string

	EtcdEndpoints   []string
	EtcdPrefix      string
	EtcdDialTimeout time.Duration
	EtcdLeaseTTL    int64

	Redis            myredis.RedisConfig
	SnapshotInterval time.Duration

	FetchRateLimit float64
	FetchBurst     int
	EvictionSeed   int64

	Registry      service.RegistryConfig
	Replication   service.ReplicationConfig
	ResponseCache service.ResponseCacheConfig
	PeerClient    peerhttp.Options
}

// yamlConfig is the root struct of the tuning file. Zero values keep the defaults.
type yamlConfig struct {
	Registry      yamlRegistry      `yaml:"registry"`
	Replication   yamlReplication   `yaml:"replication"`
	PeerClient    yamlPeerClient    `yaml:"peer_client"`
	ResponseCache yamlResponseCache `yaml:"response_cache"`
	RateLimit     yamlRateLimit     `yaml:"rate_limit"`
	Snapshot      yamlSnapshot      `yaml:"snapshot"`
	Etcd          yamlEtcd          `yaml:"etcd"`
}

type yamlRegistry struct {
	LeaseDurationMs                  int      `yaml:"lease_duration_ms"`
	RenewalIntervalMs                int      `yaml:"renewal_interval_ms"`
	EvictionIntervalMs               int      `yaml:"eviction_interval_ms"`
	RenewalPercentThreshold          float64  `yaml:"renewal_percent_threshold"`
	RenewalThresholdUpdateIntervalMs int      `yaml:"renewal_threshold_update_interval_ms"`
	SelfPreservation                 *bool    `yaml:"self_preservation"`
	DeltaRetentionMs                 int      `yaml:"delta_retention_ms"`
	ExpectedRenewalSmoothing         *float64 `yaml:"expected_renewal_smoothing"`
}

type yamlReplication struct {
	BatchSize                   int     `yaml:"batch_size"`
	MaxBatchingDelayMs          int     `yaml:"max_batching_delay_ms"`
	MaxBufferSize               int     `yaml:"max_buffer_size"`
	RequestTimeoutMs            int     `yaml:"request_timeout_ms"`
	FailureThreshold            int     `yaml:"failure_threshold"`
	UnreachableRetryIntervalMs  int     `yaml:"unreachable_retry_interval_ms"`
	MaxBatchesPerSecond         float64 `yaml:"max_batches_per_second"`
	Batching                    *bool   `yaml:"batching"`
	MembershipRefreshIntervalMs int     `yaml:"membership_refresh_interval_ms"`
}

type yamlPeerClient struct {
	TimeoutMs         int    `yaml:"timeout_ms"`
	MaxConnsPerHost   int    `yaml:"max_conns_per_host"`
	MaxIdleConns      int    `yaml:"max_idle_conns"`
	IdleConnTimeoutMs int    `yaml:"idle_conn_timeout_ms"`
	TLSMode           string `yaml:"tls_mode"`
	CAFile            string `yaml:"ca_file"`
	ProxyURL          string `yaml:"proxy_url"`
	CompressBatches   *bool  `yaml:"compress_batches"`
}

type yamlResponseCache struct {
	AutoExpirationMs         int   `yaml:"auto_expiration_ms"`
	UseReadOnly              *bool `yaml:"use_read_only"`
	ReadOnlyUpdateIntervalMs int   `yaml:"read_only_update_interval_ms"`
}

type yamlRateLimit struct {
	FetchPerSecond float64 `yaml:"fetch_per_second"`
	FetchBurst     int     `yaml:"fetch_burst"`
}

type yamlSnapshot struct {
	IntervalMs int `yaml:"interval_ms"`
}

type yamlEtcd struct {
	Prefix        string `yaml:"prefix"`
	DialTimeoutMs int    `yaml:"dial_timeout_ms"`
	LeaseTTLSecs  int64  `yaml:"lease_ttl_secs"`
}

// loadYAMLConfig reads the YAML file at path and unmarshals it into yamlConfig.
//
// Called only from LoadConfig.
func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfig builds the node config. SERVICE_PORT_HTTP is required (1-65535). NODE_URL defaults to
// http://localhost:<port>/eureka/v2/ and NODE_ID to a random UUID. PEER_SOURCE picks the membership
// source: static (PEER_URLS, comma separated), file (PEERS_FILE) or etcd (ETCD_ENDPOINTS). CONFIG_PATH,
// when set, points to the YAML tuning file.
//
// Returns: (*Config, nil) on success; (nil, error) on an invalid port, a source without its settings,
// an unreadable YAML file or out-of-range tuning values.
func LoadConfig() (*Config, error) {
	httpPortStr := strings.TrimSpace(os.Getenv(envHTTPPort))
	httpPort, err := strconv.Atoi(httpPortStr)
	if err != nil || httpPortStr == "" {
		return nil, fmt.Errorf("%s must be a valid port (1-65535)", envHTTPPort)
	}
	if httpPort <= 0 || httpPort > 65535 {
		return nil, fmt.Errorf("%s must be 1-65535, got %d", envHTTPPort, httpPort)
	}

	cfg := &Config{
		HTTPPort:         httpPort,
		NodeID:           strings.TrimSpace(os.Getenv(envNodeID)),
		NodeURL:          strings.TrimSpace(os.Getenv(envNodeURL)),
		PeerSource:       strings.TrimSpace(os.Getenv(envPeerSource)),
		PeerURLs:         splitList(os.Getenv(envPeerURLs)),
		PeersFile:        strings.TrimSpace(os.Getenv(envPeersFile)),
		EtcdEndpoints:    splitList(os.Getenv(envEtcdEndpoints)),
		EtcdPrefix:       etcdpeers.DefaultPrefix,
		EtcdDialTimeout:  5 * time.Second,
		EtcdLeaseTTL:     30,
		Redis:            myredis.RedisConfig{Addr: strings.TrimSpace(os.Getenv(envRedisAddr))},
		SnapshotInterval: 30 * time.Second,
		EvictionSeed:     time.Now().UnixNano(),
		Registry:         service.DefaultRegistryConfig(),
		Replication:      service.DefaultReplicationConfig(),
		ResponseCache:    service.DefaultResponseCacheConfig(),
		PeerClient:       peerhttp.DefaultOptions(),
	}
	if cfg.NodeID == "" {
		cfg.NodeID = uuid.NewString()
	}
	if cfg.NodeURL == "" {
		cfg.NodeURL = fmt.Sprintf("http://localhost:%d%s/", httpPort, handlers.BaseURL)
	}
	cfg.PeerClient.Identity = cfg.NodeID

	switch cfg.PeerSource {
	case "":
		cfg.PeerSource = peerSourceStatic
	case peerSourceStatic:
	case peerSourceFile:
		if cfg.PeersFile == "" {
			return nil, fmt.Errorf("%s is required when %s=%s", envPeersFile, envPeerSource, peerSourceFile)
		}
	case peerSourceEtcd:
		if len(cfg.EtcdEndpoints) == 0 {
			return nil, fmt.Errorf("%s is required when %s=%s", envEtcdEndpoints, envPeerSource, peerSourceEtcd)
		}
	default:
		return nil, fmt.Errorf("%s must be static|file|etcd", envPeerSource)
	}

	configPath := strings.TrimSpace(os.Getenv(envConfigPath))
	if configPath == "" {
		return cfg, nil
	}
	if !filepath.IsAbs(configPath) {
		abs, absErr := filepath.Abs(configPath)
		if absErr != nil {
			return nil, absErr
		}
		configPath = abs
	}
	raw, err := loadYAMLConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	if err := cfg.apply(raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}
	return cfg, nil
}

// apply overrides the defaults with every non-zero value of raw.
func (c *Config) apply(raw *yamlConfig) error {
	reg := raw.Registry
	setDuration(&c.Registry.DefaultLeaseDuration, reg.LeaseDurationMs)
	setDuration(&c.Registry.ExpectedRenewalInterval, reg.RenewalIntervalMs)
	setDuration(&c.Registry.EvictionInterval, reg.EvictionIntervalMs)
	setDuration(&c.Registry.RenewalThresholdUpdateInterval, reg.RenewalThresholdUpdateIntervalMs)
	setDuration(&c.Registry.DeltaRetention, reg.DeltaRetentionMs)
	if reg.RenewalPercentThreshold != 0 {
		if reg.RenewalPercentThreshold < 0 || reg.RenewalPercentThreshold > 1 {
			return fmt.Errorf("registry.renewal_percent_threshold must be in (0, 1]")
		}
		c.Registry.RenewalPercentThreshold = reg.RenewalPercentThreshold
	}
	if reg.ExpectedRenewalSmoothing != nil {
		if *reg.ExpectedRenewalSmoothing < 0 || *reg.ExpectedRenewalSmoothing > 1 {
			return fmt.Errorf("registry.expected_renewal_smoothing must be in [0, 1]")
		}
		c.Registry.ExpectedRenewalSmoothing = *reg.ExpectedRenewalSmoothing
	}
	setBool(&c.Registry.SelfPreservationEnabled, reg.SelfPreservation)

	rep := raw.Replication
	setInt(&c.Replication.BatchSize, rep.BatchSize)
	setDuration(&c.Replication.MaxBatchingDelay, rep.MaxBatchingDelayMs)
	setInt(&c.Replication.MaxBufferSize, rep.MaxBufferSize)
	setDuration(&c.Replication.RequestTimeout, rep.RequestTimeoutMs)
	setInt(&c.Replication.FailureThreshold, rep.FailureThreshold)
	setDuration(&c.Replication.UnreachableRetryInterval, rep.UnreachableRetryIntervalMs)
	setDuration(&c.Replication.MembershipRefreshInterval, rep.MembershipRefreshIntervalMs)
	if rep.MaxBatchesPerSecond < 0 {
		return fmt.Errorf("replication.max_batches_per_second must not be negative")
	}
	if rep.MaxBatchesPerSecond > 0 {
		c.Replication.MaxBatchesPerSecond = rep.MaxBatchesPerSecond
	}
	setBool(&c.Replication.Batching, rep.Batching)
	if c.Replication.BatchSize < 0 || c.Replication.MaxBufferSize < 0 || c.Replication.FailureThreshold < 0 {
		return fmt.Errorf("replication sizes must not be negative")
	}

	pc := raw.PeerClient
	setDuration(&c.PeerClient.Timeout, pc.TimeoutMs)
	setInt(&c.PeerClient.MaxConnsPerHost, pc.MaxConnsPerHost)
	setInt(&c.PeerClient.MaxIdleConns, pc.MaxIdleConns)
	setDuration(&c.PeerClient.IdleConnTimeout, pc.IdleConnTimeoutMs)
	switch mode := peerhttp.TLSMode(strings.TrimSpace(pc.TLSMode)); mode {
	case "":
	case peerhttp.TLSNone, peerhttp.TLSSystem, peerhttp.TLSCustomCA:
		c.PeerClient.TLSMode = mode
	default:
		return fmt.Errorf("peer_client.tls_mode must be none|system|custom")
	}
	if c.PeerClient.TLSMode == peerhttp.TLSCustomCA && strings.TrimSpace(pc.CAFile) == "" {
		return fmt.Errorf("peer_client.ca_file is required for tls_mode custom")
	}
	if pc.CAFile != "" {
		c.PeerClient.CAFile = strings.TrimSpace(pc.CAFile)
	}
	if pc.ProxyURL != "" {
		c.PeerClient.ProxyURL = strings.TrimSpace(pc.ProxyURL)
	}
	setBool(&c.PeerClient.CompressBatches, pc.CompressBatches)

	rc := raw.ResponseCache
	setDuration(&c.ResponseCache.AutoExpiration, rc.AutoExpirationMs)
	setDuration(&c.ResponseCache.ReadOnlyUpdateInterval, rc.ReadOnlyUpdateIntervalMs)
	setBool(&c.ResponseCache.UseReadOnlyCache, rc.UseReadOnly)

	if raw.RateLimit.FetchPerSecond < 0 || raw.RateLimit.FetchBurst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	c.FetchRateLimit = raw.RateLimit.FetchPerSecond
	c.FetchBurst = raw.RateLimit.FetchBurst
	if c.FetchRateLimit > 0 && c.FetchBurst == 0 {
		c.FetchBurst = int(c.FetchRateLimit)
		if c.FetchBurst < 1 {
			c.FetchBurst = 1
		}
	}

	setDuration(&c.SnapshotInterval, raw.Snapshot.IntervalMs)

	if raw.Etcd.Prefix != "" {
		c.EtcdPrefix = strings.TrimSpace(raw.Etcd.Prefix)
	}
	setDuration(&c.EtcdDialTimeout, raw.Etcd.DialTimeoutMs)
	if raw.Etcd.LeaseTTLSecs > 0 {
		c.EtcdLeaseTTL = raw.Etcd.LeaseTTLSecs
	}
	return nil
}

func setDuration(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// splitList splits a comma separated env value and drops blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
