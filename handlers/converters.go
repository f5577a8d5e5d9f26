package handlers

import (
	"strings"

	"myregistry/domain"
	"myregistry/service"
)

// fromRegisterRequest validates a registration body posted to apps/{app}.
// Returns service.BadParameterError on validation failure.
func fromRegisterRequest(app string, info domain.InstanceInfo) (domain.InstanceInfo, error) {
	if strings.TrimSpace(info.InstanceID) == "" {
		return domain.InstanceInfo{}, service.NewBadParameterError("instanceId is required", nil)
	}
	if info.HostName == "" && info.IPAddr == "" {
		return domain.InstanceInfo{}, service.NewBadParameterError("hostName or ipAddr is required", nil)
	}
	switch {
	case info.AppName == "":
		info.AppName = app
	case domain.NormalizeAppName(info.AppName) != domain.NormalizeAppName(app):
		return domain.InstanceInfo{}, service.NewBadParameterError("app does not match the request path", nil)
	}
	if info.AppName == "" {
		return domain.InstanceInfo{}, service.NewBadParameterError("app is required", nil)
	}
	if info.Status != "" {
		st, err := toInstanceStatus(string(info.Status), "status")
		if err != nil {
			return domain.InstanceInfo{}, err
		}
		info.Status = st
	}
	if info.LeaseInfo.DurationInSecs < 0 || info.LeaseInfo.RenewalIntervalInSecs < 0 {
		return domain.InstanceInfo{}, service.NewBadParameterError("lease durations must not be negative", nil)
	}
	return info, nil
}

// toInstanceStatus parses a status query value.
func toInstanceStatus(raw, name string) (domain.InstanceStatus, error) {
	st, ok := domain.ParseInstanceStatus(raw)
	if !ok {
		return "", service.NewBadParameterError("invalid "+name+": "+raw, nil)
	}
	return st, nil
}

// toOverriddenStatus parses the optional overriddenstatus of a heartbeat. Absent, blank and UNKNOWN
// values mean "no override".
func toOverriddenStatus(raw *string) domain.InstanceStatus {
	if raw == nil {
		return ""
	}
	st, ok := domain.ParseInstanceStatus(*raw)
	if !ok || st == domain.StatusUnknown {
		return ""
	}
	return st
}

func toASGStatus(raw string) (domain.ASGStatus, error) {
	switch st := domain.ASGStatus(strings.ToUpper(strings.TrimSpace(raw))); st {
	case domain.ASGEnabled, domain.ASGDisabled:
		return st, nil
	default:
		return "", service.NewBadParameterError("invalid value: "+raw, nil)
	}
}
