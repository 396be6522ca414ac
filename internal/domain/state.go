package domain

// ProviderState represents the lifecycle state of the translation provider.
type ProviderState int

const (
	// StateUnloaded is the initial state, and the state after Dispose.
	StateUnloaded ProviderState = iota

	// StateLoading means a reload is resolving and activating the provider.
	StateLoading

	// StateReady means a provider is active and its attribution is cached.
	StateReady

	// StateError means no provider is available until the next configuration change.
	StateError
)

// String returns a string representation of the state.
func (s ProviderState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s ProviderState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsSettled reports whether a reload has finished.
func (s ProviderState) IsSettled() bool {
	return s == StateReady || s == StateError
}
