package domain

import "strings"

// InstanceStatus is the availability of a registered instance.
type InstanceStatus string

const (
	StatusUp           InstanceStatus = "UP"
	StatusDown         InstanceStatus = "DOWN"
	StatusStarting     InstanceStatus = "STARTING"
	StatusOutOfService InstanceStatus = "OUT_OF_SERVICE"
	StatusUnknown      InstanceStatus = "UNKNOWN"
)

// ParseInstanceStatus converts a case-insensitive status name. ok is false for unknown names.
func ParseInstanceStatus(s string) (InstanceStatus, bool) {
	switch st := InstanceStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusUp, StatusDown, StatusStarting, StatusOutOfService, StatusUnknown:
		return st, true
	default:
		return "", false
	}
}

// ActionType tells delta consumers what happened to an instance.
type ActionType string

const (
	ActionAdded    ActionType = "ADDED"
	ActionModified ActionType = "MODIFIED"
	ActionDeleted  ActionType = "DELETED"
)

// DefaultLeaseDurationSecs is used when a registration does not carry a lease duration.
const DefaultLeaseDurationSecs = 90

// DefaultRenewalIntervalSecs is the heartbeat interval clients are expected to use.
const DefaultRenewalIntervalSecs = 30

// LeaseInfo is the lease view attached to an instance in read responses.
// Timestamps are unix milliseconds.
type LeaseInfo struct {
	RenewalIntervalInSecs int   `json:"renewalIntervalInSecs"`
	DurationInSecs        int   `json:"durationInSecs"`
	RegistrationTimestamp int64 `json:"registrationTimestamp"`
	LastRenewalTimestamp  int64 `json:"lastRenewalTimestamp"`
	EvictionTimestamp     int64 `json:"evictionTimestamp"`
	ServiceUpTimestamp    int64 `json:"serviceUpTimestamp"`
}

// InstanceInfo is one registered instance of an application.
type InstanceInfo struct {
	InstanceID       string `json:"instanceId"`
	AppName          string `json:"app"`
	AppGroupName     string `json:"appGroupName,omitempty"`
	HostName         string `json:"hostName"`
	IPAddr           string `json:"ipAddr"`
	Port             int    `json:"port"`
	PortEnabled      bool   `json:"portEnabled"`
	SecurePort       int    `json:"securePort"`
	SecurePortOn     bool   `json:"securePortEnabled"`
	VIPAddress       string `json:"vipAddress,omitempty"`
	SecureVIPAddress string `json:"secureVipAddress,omitempty"`
	HomePageURL      string `json:"homePageUrl,omitempty"`
	StatusPageURL    string `json:"statusPageUrl,omitempty"`
	HealthCheckURL   string `json:"healthCheckUrl,omitempty"`
	ASGName          string `json:"asgName,omitempty"`

	Status           InstanceStatus `json:"status"`
	OverriddenStatus InstanceStatus `json:"overriddenStatus"`

	LeaseInfo            LeaseInfo         `json:"leaseInfo"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	LastUpdatedTimestamp int64             `json:"lastUpdatedTimestamp"`
	LastDirtyTimestamp   int64             `json:"lastDirtyTimestamp"`
	ActionType           ActionType        `json:"actionType,omitempty"`
}

// Key returns the registry key of the instance.
func (i InstanceInfo) Key() InstanceKey {
	return InstanceKey{AppName: NormalizeAppName(i.AppName), InstanceID: i.InstanceID}
}

// HasOverride reports whether an operator override is in effect.
func (i InstanceInfo) HasOverride() bool {
	return i.OverriddenStatus != "" && i.OverriddenStatus != StatusUnknown
}

// Clone returns a deep copy; the metadata map is never shared.
func (i InstanceInfo) Clone() InstanceInfo {
	out := i
	if i.Metadata != nil {
		out.Metadata = make(map[string]string, len(i.Metadata))
		for k, v := range i.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// InstanceKey identifies a lease within one node.
type InstanceKey struct {
	AppName    string
	InstanceID string
}

func (k InstanceKey) String() string {
	return k.AppName + "/" + k.InstanceID
}

// NormalizeAppName upper-cases application names so lookups are case-insensitive.
func NormalizeAppName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
