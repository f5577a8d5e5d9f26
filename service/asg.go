package service

import (
	"sync"

	"myregistry/domain"
)

// asgRegistry records which autoscaling groups are disabled. Unknown groups are enabled.
type asgRegistry struct {
	mu       sync.RWMutex
	statuses map[string]domain.ASGStatus
}

func newASGRegistry() *asgRegistry {
	return &asgRegistry{statuses: make(map[string]domain.ASGStatus)}
}

func (a *asgRegistry) set(name string, status domain.ASGStatus) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if status == domain.ASGEnabled {
		delete(a.statuses, name)
		return
	}
	a.statuses[name] = status
}

func (a *asgRegistry) isEnabled(name string) bool {
	if name == "" {
		return true
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.statuses[name] != domain.ASGDisabled
}
