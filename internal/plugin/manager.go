package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/usercast/internal/host"
)

// Manager manages the lifecycle of registered plugins.
type Manager struct {
	mu sync.RWMutex

	host host.Host

	// Registered plugins by id
	plugins map[string]*entry

	// Registration order (for deterministic iteration)
	order []string

	// Event handlers (protected by mu)
	eventHandlers []EventHandler
}

type entry struct {
	plugin Plugin
	info   Info
	state  State
	err    error
}

// Status is a snapshot of a registered plugin.
type Status struct {
	Info  Info
	State State
	Err   error
}

// EventHandler handles plugin manager events.
// Handlers must be non-blocking and should not call back into the Manager
// to avoid deadlocks. Panics in handlers are recovered.
type EventHandler func(event ManagerEvent)

// ManagerEvent represents a plugin manager event.
type ManagerEvent struct {
	Type   ManagerEventType
	Plugin string
	Error  error
}

// ManagerEventType is the type of manager event.
type ManagerEventType int

const (
	// EventPluginLoaded is emitted when a plugin is loaded.
	EventPluginLoaded ManagerEventType = iota
	// EventPluginUnloaded is emitted when a plugin is unloaded.
	EventPluginUnloaded
	// EventPluginError is emitted when a plugin fails to load or unload.
	EventPluginError
)

// String returns a string representation of the event type.
func (t ManagerEventType) String() string {
	switch t {
	case EventPluginLoaded:
		return "loaded"
	case EventPluginUnloaded:
		return "unloaded"
	case EventPluginError:
		return "error"
	default:
		return "unknown"
	}
}

// NewManager creates a plugin manager loading plugins against h.
func NewManager(h host.Host) *Manager {
	return &Manager{
		host:    h,
		plugins: make(map[string]*entry),
	}
}

// Register adds a plugin in StateUnloaded.
func (m *Manager) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("%w: nil plugin", ErrInvalidPlugin)
	}
	info := p.Info()
	if err := info.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.plugins[info.ID]; exists {
		return fmt.Errorf("plugin %q: %w", info.ID, ErrAlreadyRegistered)
	}
	m.plugins[info.ID] = &entry{plugin: p, info: info}
	m.order = append(m.order, info.ID)
	return nil
}

// Load loads a registered plugin. Loading a plugin in StateError retries
// it; loading a loaded plugin returns ErrAlreadyLoaded.
func (m *Manager) Load(ctx context.Context, id string) error {
	return m.transition(id, "load", State.CanLoad, ErrAlreadyLoaded, StateLoaded, EventPluginLoaded,
		func(p Plugin) error { return p.Load(ctx, m.host) })
}

// LoadAll loads every registered plugin that is not loaded yet.
func (m *Manager) LoadAll(ctx context.Context) error {
	var errs []error
	for _, id := range m.ids(false) {
		if m.State(id) == StateLoaded {
			continue
		}
		if err := m.Load(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d plugins failed to load: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Unload unloads a loaded plugin.
func (m *Manager) Unload(ctx context.Context, id string) error {
	return m.transition(id, "unload", func(s State) bool { return s == StateLoaded }, ErrNotLoaded, StateUnloaded, EventPluginUnloaded,
		func(p Plugin) error { return p.Unload(ctx) })
}

// transition runs step on plugin id when allowed accepts its current state.
// The plugin's own code runs without the lock held, so it may use the host
// freely. On failure the plugin moves to StateError.
func (m *Manager) transition(id, verb string, allowed func(State) bool, refused error, next State, done ManagerEventType, step func(Plugin) error) error {
	m.mu.RLock()
	e, ok := m.plugins[id]
	var state State
	if ok {
		state = e.state
	}
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("plugin %q: %w", id, ErrPluginNotFound)
	}
	if !allowed(state) {
		return fmt.Errorf("plugin %q: %w", id, refused)
	}

	err := step(e.plugin)

	m.mu.Lock()
	if err != nil {
		e.state, e.err = StateError, err
	} else {
		e.state, e.err = next, nil
	}
	m.mu.Unlock()

	if err != nil {
		m.emitEvent(ManagerEvent{Type: EventPluginError, Plugin: id, Error: err})
		return fmt.Errorf("%s plugin %q: %w", verb, id, err)
	}
	m.emitEvent(ManagerEvent{Type: done, Plugin: id})
	return nil
}

// UnloadAll unloads all loaded plugins in reverse registration order.
func (m *Manager) UnloadAll(ctx context.Context) error {
	var errs []error
	for _, id := range m.ids(true) {
		if m.State(id) != StateLoaded {
			continue
		}
		if err := m.Unload(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d plugins failed to unload: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Get returns a plugin by id.
func (m *Manager) Get(id string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.plugins[id]
	if !exists {
		return nil, false
	}
	return e.plugin, true
}

// State returns a plugin's state. Unknown plugins report StateUnloaded.
func (m *Manager) State(id string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, exists := m.plugins[id]; exists {
		return e.state
	}
	return StateUnloaded
}

// List returns the status of every registered plugin in registration order.
func (m *Manager) List() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Status, 0, len(m.order))
	for _, id := range m.order {
		e := m.plugins[id]
		result = append(result, Status{Info: e.info, State: e.state, Err: e.err})
	}
	return result
}

// Errors returns the plugins in error state with their errors.
func (m *Manager) Errors() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errs := make(map[string]error)
	for id, e := range m.plugins {
		if e.state == StateError && e.err != nil {
			errs[id] = e.err
		}
	}
	return errs
}

// Subscribe adds an event handler.
// Returns an unsubscribe function to remove the handler.
func (m *Manager) Subscribe(handler EventHandler) func() {
	if handler == nil {
		return func() {}
	}

	m.mu.Lock()
	m.eventHandlers = append(m.eventHandlers, handler)
	index := len(m.eventHandlers) - 1
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Set to nil instead of removing to avoid index shifting issues
		if index < len(m.eventHandlers) {
			m.eventHandlers[index] = nil
		}
	}
}

func (m *Manager) ids(reverse bool) []string {
	m.mu.RLock()
	ids := slices.Clone(m.order)
	m.mu.RUnlock()

	if reverse {
		slices.Reverse(ids)
	}
	return ids
}

// emitEvent calls every handler outside the lock. A panicking handler does
// not affect the others.
func (m *Manager) emitEvent(event ManagerEvent) {
	m.mu.RLock()
	handlers := slices.Clone(m.eventHandlers)
	m.mu.RUnlock()

	for _, handler := range handlers {
		if handler != nil {
			notify(handler, event)
		}
	}
}

func notify(handler EventHandler, event ManagerEvent) {
	defer func() { _ = recover() }()
	handler(event)
}
