package interfaces

import "context"

// PeerSource supplies the registry cluster membership as peer base URLs.
//
// Implemented by adapters/peerfile (YAML file watched with fsnotify), adapters/etcdpeers (etcd prefix)
// and service.StaticPeers.
//
//go:generate moq -stub -out mock/peer_source.go -pkg mock . PeerSource
type PeerSource interface {
	// Peers returns the current peer base URLs, possibly including this node's own URL.
	Peers(ctx context.Context) ([]string, error)

	// Changes signals that membership may have changed. A nil channel means the source is polled only.
	Changes() <-chan struct{}
}
