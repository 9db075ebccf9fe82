package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when no plugin is registered under an id.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrAlreadyRegistered is returned when registering a duplicate id.
	ErrAlreadyRegistered = errors.New("plugin is already registered")

	// ErrAlreadyLoaded is returned when attempting to load an already loaded plugin.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when attempting to unload a plugin that is not loaded.
	ErrNotLoaded = errors.New("plugin is not loaded")

	// ErrInvalidPlugin is returned when plugin validation fails.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrHostUnavailable is returned by Load when a required host subsystem
	// is missing.
	ErrHostUnavailable = errors.New("host subsystem unavailable")
)
