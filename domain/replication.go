package domain

// ReplicationAction is the kind of registry mutation carried to a peer.
type ReplicationAction string

const (
	ActionRegister             ReplicationAction = "Register"
	ActionHeartbeat            ReplicationAction = "Heartbeat"
	ActionCancel               ReplicationAction = "Cancel"
	ActionStatusUpdate         ReplicationAction = "StatusUpdate"
	ActionDeleteStatusOverride ReplicationAction = "DeleteStatusOverride"
)

// ReplicationTask is one local mutation waiting to be sent to a peer.
type ReplicationTask struct {
	Action             ReplicationAction
	AppName            string
	InstanceID         string
	Info               InstanceInfo
	Status             InstanceStatus
	LastDirtyTimestamp int64
	// NewLease is set on a Register that created the lease (no previous registration existed).
	NewLease bool
	// EnqueuedAt is the unix millisecond time the registry produced the task.
	EnqueuedAt int64
}

// Key returns the (app, id) compaction key.
func (t ReplicationTask) Key() InstanceKey {
	return InstanceKey{AppName: NormalizeAppName(t.AppName), InstanceID: t.InstanceID}
}

// ReplicationInstance is the wire form of one task inside a batch.
type ReplicationInstance struct {
	AppName            string            `json:"appName"`
	ID                 string            `json:"id"`
	LastDirtyTimestamp int64             `json:"lastDirtyTimestamp"`
	OverriddenStatus   InstanceStatus    `json:"overriddenStatus,omitempty"`
	Status             InstanceStatus    `json:"status,omitempty"`
	InstanceInfo       *InstanceInfo     `json:"instanceInfo,omitempty"`
	Action             ReplicationAction `json:"action"`
}

// ReplicationList is the body of a batch replication request.
type ReplicationList struct {
	ReplicationList []ReplicationInstance `json:"replicationList"`
}

// ReplicationInstanceResponse is the outcome of one batch item.
type ReplicationInstanceResponse struct {
	StatusCode     int           `json:"statusCode"`
	ResponseEntity *InstanceInfo `json:"responseEntity,omitempty"`
}

// ReplicationListResponse carries one response per request item, in request order.
type ReplicationListResponse struct {
	ResponseList []ReplicationInstanceResponse `json:"responseList"`
}

// ASGStatus is the enable flag of an autoscaling group.
type ASGStatus string

const (
	ASGEnabled  ASGStatus = "ENABLED"
	ASGDisabled ASGStatus = "DISABLED"
)

// PeerStatus is the diagnostic view of one replication peer.
type PeerStatus struct {
	URL                 string `json:"url"`
	Reachable           bool   `json:"reachable"`
	PendingTasks        int    `json:"pendingTasks"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	BatchesSent         int64  `json:"batchesSent"`
	BatchesFailed       int64  `json:"batchesFailed"`
	DroppedTasks        int64  `json:"droppedTasks"`
}
