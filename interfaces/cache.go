package interfaces

import "context"

// Cache is an external key/value store with a TTL per key. The registry mirrors its leases into it so a
// node restarting without reachable peers can warm up.
//
// Implemented by adapters/myredis.Store. Used by service.SnapshotPersister.
//
//go:generate moq -stub -out mock/cache.go -pkg mock . Cache
type Cache[T any] interface {
	// WriteValue stores item under key for ttlMs milliseconds; ttlMs <= 0 means no expiry.
	// Returns internal_server_error when encoding or the storage write fails.
	WriteValue(ctx context.Context, key string, item T, ttlMs int) error

	// ListAllValues returns every decodable stored value.
	// Returns entity_not_found when nothing is stored and internal_server_error when listing fails.
	ListAllValues(ctx context.Context) ([]T, error)

	// DeleteValue removes key; an absent key is not an error.
	// Returns internal_server_error when the storage delete fails.
	DeleteValue(ctx context.Context, key string) error
}
