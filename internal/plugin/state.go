package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - Plugin is registered but not loaded.
	StateUnloaded State = iota

	// StateLoaded - Plugin is loaded and handling events.
	StateLoaded

	// StateError - Plugin failed to load or unload.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CanLoad returns true if a plugin in this state can be loaded.
func (s State) CanLoad() bool {
	return s == StateUnloaded || s == StateError
}
