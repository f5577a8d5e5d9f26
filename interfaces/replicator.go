package interfaces

import "myregistry/domain"

// Replicator fans local registry mutations out to every peer. Calls never block on the network.
//
// Implemented by service.PeerNodeSet; called by service.instanceRegistry after a local (non-replicated)
// mutation has been applied.
//
//go:generate moq -stub -out mock/replicator.go -pkg mock . Replicator
type Replicator interface {
	Replicate(task domain.ReplicationTask)
	ReplicateASGStatus(asgName string, status domain.ASGStatus)
}
