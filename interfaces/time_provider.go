package interfaces

import "time"

// TimeProvider supplies the current time for lease deadlines, eviction sweeps and delta retention.
// Injected so tests can drive a fake clock instead of time.Now().
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	// Now returns current time (UTC in prod; in tests a controllable time).
	Now() time.Time
}
