package interfaces

import (
	"context"

	"myregistry/domain"
)

// PeerClient performs the wire calls to one peer registry. Every call is marked as replication traffic.
// Status codes are returned as received; err is non-nil only for transport failures (timeouts, refused
// connections, undecodable bodies).
//
// Implemented by adapters/peerhttp.Client. Used by service.PeerNode (drain loop), service.PeerNodeSet
// (ASG propagation) and service.SyncUp (bootstrap).
//
//go:generate moq -stub -out mock/peer_client.go -pkg mock . PeerClient
type PeerClient interface {
	Register(ctx context.Context, info domain.InstanceInfo) (int, error)
	Cancel(ctx context.Context, appName, id string) (int, error)
	// SendHeartbeat returns the peer's copy of the instance when the peer answers 409.
	SendHeartbeat(ctx context.Context, appName, id string, info domain.InstanceInfo, overridden domain.InstanceStatus) (int, *domain.InstanceInfo, error)
	StatusUpdate(ctx context.Context, appName, id string, status domain.InstanceStatus, info domain.InstanceInfo) (int, error)
	DeleteStatusOverride(ctx context.Context, appName, id string, info domain.InstanceInfo) (int, error)
	StatusUpdateASG(ctx context.Context, asgName string, status domain.ASGStatus) (int, error)
	// SubmitBatchUpdates returns a nil response body on non-2xx status.
	SubmitBatchUpdates(ctx context.Context, list domain.ReplicationList) (int, *domain.ReplicationListResponse, error)
	GetApplications(ctx context.Context) (int, *domain.Applications, error)
	GetDelta(ctx context.Context) (int, *domain.Applications, error)
	GetInstance(ctx context.Context, appName, id string) (int, *domain.InstanceInfo, error)
	// Close releases idle connections.
	Close()
}
