package interfaces

import "myregistry/domain"

// ResponseCache serves encoded registry payloads for the read endpoints.
//
//go:generate moq -stub -out mock/response_cache.go -pkg mock . ResponseCache
type ResponseCache interface {
	// Get returns the encoded payload for key, generating it on a miss.
	Get(key string) ([]byte, error)
	// Invalidate drops the payloads affected by a change to appName. An empty appName drops everything.
	Invalidate(appName string)
}

// PeerDirectory exposes replication peer status for diagnostics.
//
//go:generate moq -stub -out mock/peer_directory.go -pkg mock . PeerDirectory
type PeerDirectory interface {
	Statuses() []domain.PeerStatus
}
