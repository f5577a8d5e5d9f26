package myredis

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig locates the snapshot store.
type RedisConfig struct {
	Addr string
}

// NewRedisUniversalClient creates a universal client from a redis:// URL.
func NewRedisUniversalClient(redisAddr string, options ...ConfigOption) (redis.UniversalClient, error) {
	redisOptions, err := redis.ParseURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("cant parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(redisOptions)
	}
	return redis.NewUniversalClient(universalOptions(redisOptions)), nil
}

// ConfigOption configures the client.
type ConfigOption func(*redis.Options)

// WithTimeouts bounds dial, read and write. Zero values keep the library defaults.
func WithTimeouts(dial, io time.Duration) ConfigOption {
	return func(o *redis.Options) {
		if dial > 0 {
			o.DialTimeout = dial
		}
		if io > 0 {
			o.ReadTimeout = io
			o.WriteTimeout = io
		}
	}
}

func universalOptions(options *redis.Options) *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:        []string{options.Addr},
		DB:           options.DB,
		Username:     options.Username,
		Password:     options.Password,
		TLSConfig:    options.TLSConfig,
		WriteTimeout: options.WriteTimeout,
		ReadTimeout:  options.ReadTimeout,
		DialTimeout:  options.DialTimeout,
		MaxRetries:   options.MaxRetries,
		PoolSize:     options.PoolSize,
		PoolTimeout:  options.PoolTimeout,
		MinIdleConns: options.MinIdleConns,
		IdleTimeout:  options.IdleTimeout,
	}
}
