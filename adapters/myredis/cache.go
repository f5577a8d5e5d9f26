// Package myredis stores registry lease snapshots in Redis.
package myredis

import (
	"context"
	"fmt"
	"time"

	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-redis/redis/v8"
	gjson "github.com/goccy/go-json"
)

// scanCount is the COUNT hint of every SCAN step.
const scanCount = 500

// Codec converts stored values to and from their Redis representation.
type Codec[T any] struct {
	Marshal   func(T) ([]byte, error)
	Unmarshal func([]byte) (T, error)
}

// JSONCodec encodes values with goccy/go-json.
func JSONCodec[T any]() Codec[T] {
	return Codec[T]{
		Marshal: func(v T) ([]byte, error) { return gjson.Marshal(v) },
		Unmarshal: func(b []byte) (T, error) {
			var v T
			err := gjson.Unmarshal(b, &v)
			return v, err
		},
	}
}

// Store is a Redis backed interfaces.Cache. Every key lives under "<namespace>:".
type Store[T any] struct {
	client    redis.UniversalClient
	namespace string
	codec     Codec[T]
}

var _ interfaces.Cache[struct{}] = (*Store[struct{}])(nil)

// NewStore creates a store for one namespace.
func NewStore[T any](client redis.UniversalClient, namespace string, codec Codec[T]) *Store[T] {
	return &Store[T]{client: client, namespace: namespace, codec: codec}
}

// NewJSONStore creates a store encoding values as JSON.
func NewJSONStore[T any](client redis.UniversalClient, namespace string) *Store[T] {
	return NewStore(client, namespace, JSONCodec[T]())
}

// WriteValue stores item under key. ttlMs <= 0 stores it without expiry.
func (s *Store[T]) WriteValue(ctx context.Context, key string, item T, ttlMs int) error {
	payload, err := s.codec.Marshal(item)
	if err != nil {
		return service.NewInternalServerError("snapshot encode failed", fmt.Errorf("encode %s: %w", key, err))
	}

	var ttl time.Duration
	if ttlMs > 0 {
		ttl = time.Duration(ttlMs) * time.Millisecond
	}
	if err := s.client.Set(ctx, s.key(key), payload, ttl).Err(); err != nil {
		return service.NewInternalServerError("snapshot write failed", fmt.Errorf("redis SET %s: %w", s.key(key), err))
	}
	return nil
}

// DeleteValue removes key. Deleting an absent key is not an error.
func (s *Store[T]) DeleteValue(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return service.NewInternalServerError("snapshot delete failed", fmt.Errorf("redis DEL %s: %w", s.key(key), err))
	}
	return nil
}

// ListAllValues walks the namespace with SCAN, then reads the values with one MGET per page. Keys that
// expire between the two steps and values that fail to decode are skipped.
//
// Returns: entity_not_found when nothing decodable is stored.
func (s *Store[T]) ListAllValues(ctx context.Context) ([]T, error) {
	var (
		items  []T
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.namespace+":*", scanCount).Result()
		if err != nil {
			return nil, service.NewInternalServerError("snapshot scan failed", fmt.Errorf("redis SCAN %s:*: %w", s.namespace, err))
		}
		if len(keys) > 0 {
			values, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, service.NewInternalServerError("snapshot read failed", fmt.Errorf("redis MGET: %w", err))
			}
			items = append(items, s.decode(values)...)
		}
		if cursor = next; cursor == 0 {
			break
		}
	}

	if len(items) == 0 {
		return nil, service.NewEntityNotFoundError("no snapshot stored", nil)
	}
	return items, nil
}

func (s *Store[T]) decode(values []interface{}) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		if item, err := s.codec.Unmarshal([]byte(raw)); err == nil {
			out = append(out, item)
		}
	}
	return out
}

func (s *Store[T]) key(key string) string {
	return s.namespace + ":" + key
}
