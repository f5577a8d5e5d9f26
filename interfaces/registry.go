package interfaces

import "myregistry/domain"

// InstanceRegistry is the registry façade used by the HTTP handlers and the replication subsystem.
//
// Every mutating call takes isReplication: true when the call was made by a peer registry, in which case
// the mutation is applied locally and never forwarded to other peers.
//
//go:generate moq -stub -out mock/registry.go -pkg mock . InstanceRegistry
type InstanceRegistry interface {
	// Register creates or overwrites the lease of info.AppName/info.InstanceID.
	// leaseDurationSecs <= 0 selects the default duration.
	Register(info domain.InstanceInfo, leaseDurationSecs int, isReplication bool)

	// Renew resets the lease deadline. Returns false when no lease exists (the client must re-register).
	Renew(appName, id string, isReplication bool) bool

	// Cancel removes the lease. Returns false when no lease exists.
	Cancel(appName, id string, isReplication bool) bool

	// StatusUpdate sets the overridden status. Returns false when no lease exists or lastDirtyTimestamp
	// is older than the stored one.
	StatusUpdate(appName, id string, newStatus domain.InstanceStatus, lastDirtyTimestamp int64, isReplication bool) bool

	// DeleteStatusOverride clears the overridden status. Same return contract as StatusUpdate.
	DeleteStatusOverride(appName, id string, lastDirtyTimestamp int64, isReplication bool) bool

	// StoreOverriddenStatus records an override carried by a replicated heartbeat without touching
	// lastDirtyTimestamp.
	StoreOverriddenStatus(appName, id string, status domain.InstanceStatus)

	// ASGStatusUpdate records the enable flag of an autoscaling group.
	ASGStatusUpdate(asgName string, status domain.ASGStatus, isReplication bool)

	// GetApplications returns a full snapshot.
	GetApplications(includeRemoteRegions bool) domain.Applications

	// GetStoredApplications returns every stored record with the instance's own status. Served to peers
	// during sync so that effective statuses are never copied into stored ones.
	GetStoredApplications() domain.Applications

	// GetApplicationDeltas returns instances changed within the retention window.
	GetApplicationDeltas() domain.Applications

	// GetApplication returns one application. ok is false when it has no instances.
	GetApplication(appName string) (domain.Application, bool)

	// GetInstance returns one instance. ok is false when no lease exists.
	GetInstance(appName, id string) (domain.InstanceInfo, bool)

	// CurrentInstance returns the stored record of one instance, status not replaced by an override or
	// ASG state. ok is false when no lease exists.
	CurrentInstance(appName, id string) (domain.InstanceInfo, bool)
}
