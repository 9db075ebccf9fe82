package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store holds registered preferences and their values.
type Store struct {
	mu       sync.RWMutex
	settings map[string]*Setting
	values   map[string]any

	// pending holds values read from a file before their preference was registered.
	pending map[string]any

	notifier *notifier
}

// New creates an empty preference store.
func New() *Store {
	return &Store{
		settings: make(map[string]*Setting),
		values:   make(map[string]any),
		pending:  make(map[string]any),
		notifier: newNotifier(),
	}
}

// Add registers a preference.
//
// If the path already holds a value (loaded from a file, or kept from an
// earlier registration) that value is preserved; otherwise the default is
// stored. Registering an existing path again with the same type is a no-op
// apart from refreshing the definition.
func (s *Store) Add(setting Setting) error {
	if !ValidPath(setting.Path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, setting.Path)
	}

	var def any
	if setting.Type != TypeNone {
		v, err := setting.Validate(setting.Default)
		if err != nil {
			return fmt.Errorf("default: %w", err)
		}
		def = v
		setting.Default = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.settings[setting.Path]; ok && existing.Type != setting.Type {
		return fmt.Errorf("%w: %s registered as %s, not %s", ErrTypeMismatch, setting.Path, existing.Type, setting.Type)
	}

	stored := setting
	s.settings[setting.Path] = &stored

	if setting.Type == TypeNone {
		delete(s.pending, setting.Path)
		return nil
	}

	if _, ok := s.values[setting.Path]; ok {
		return nil
	}

	if raw, ok := s.pending[setting.Path]; ok {
		delete(s.pending, setting.Path)
		if v, err := stored.Validate(raw); err == nil {
			s.values[setting.Path] = v
			return nil
		}
	}

	s.values[setting.Path] = def
	return nil
}

// AddNone registers a directory-like marker preference.
func (s *Store) AddNone(path string) error {
	return s.Add(Setting{Path: path, Type: TypeNone})
}

// AddString registers a string preference.
func (s *Store) AddString(path, def string) error {
	return s.Add(Setting{Path: path, Type: TypeString, Default: def})
}

// AddInt registers an integer preference.
func (s *Store) AddInt(path string, def int) error {
	return s.Add(Setting{Path: path, Type: TypeInt, Default: def})
}

// AddBool registers a boolean preference.
func (s *Store) AddBool(path string, def bool) error {
	return s.Add(Setting{Path: path, Type: TypeBool, Default: def})
}

// Exists reports whether a preference is registered at path.
func (s *Store) Exists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.settings[path]
	return ok
}

// Setting returns a copy of the definition registered at path.
func (s *Store) Setting(path string) (Setting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.settings[path]
	if !ok {
		return Setting{}, false
	}
	return *def, true
}

// Paths returns the registered paths at or below root, sorted.
func (s *Store) Paths(root string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for path := range s.settings {
		if covers(root, path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Get returns the value stored at path.
func (s *Store) Get(path string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.settings[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if def.Type == TypeNone {
		return nil, nil
	}
	if v, ok := s.values[path]; ok {
		return v, nil
	}
	return def.Default, nil
}

// GetString returns the string value at path.
func (s *Store) GetString(path string) (string, error) {
	v, err := s.get(path, TypeString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetInt returns the integer value at path.
func (s *Store) GetInt(path string) (int, error) {
	v, err := s.get(path, TypeInt)
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// GetBool returns the boolean value at path.
func (s *Store) GetBool(path string) (bool, error) {
	v, err := s.get(path, TypeBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *Store) get(path string, want Type) (any, error) {
	v, err := s.Get(path)
	if err != nil {
		return nil, err
	}
	if got := typeOf(v); got != want {
		return nil, &TypeError{Path: path, Expected: want, Actual: got}
	}
	return v, nil
}

// Set validates and stores value at path, notifying observers when the
// value changed.
func (s *Store) Set(path string, value any, source string) error {
	s.mu.Lock()
	def, ok := s.settings[path]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if def.Type == TypeNone {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s holds no value", ErrInvalidValue, path)
	}

	v, err := def.Validate(value)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	old := s.values[path]
	s.values[path] = v
	s.mu.Unlock()

	if old != v {
		s.notifier.notify(Change{Path: path, Type: ChangeSet, OldValue: old, NewValue: v, Source: source})
	}
	return nil
}

// SetString stores a string value.
func (s *Store) SetString(path, value, source string) error {
	return s.Set(path, value, source)
}

// SetInt stores an integer value.
func (s *Store) SetInt(path string, value int, source string) error {
	return s.Set(path, value, source)
}

// SetBool stores a boolean value.
func (s *Store) SetBool(path string, value bool, source string) error {
	return s.Set(path, value, source)
}

// Remove unregisters path and every preference below it.
func (s *Store) Remove(path string, source string) error {
	s.mu.Lock()
	if _, ok := s.settings[path]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var changes []Change
	for p := range s.settings {
		if covers(path, p) {
			old := s.values[p]
			delete(s.settings, p)
			delete(s.values, p)
			changes = append(changes, Change{Path: p, Type: ChangeDelete, OldValue: old, Source: source})
		}
	}
	s.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	for _, c := range changes {
		s.notifier.notify(c)
	}
	return nil
}

// Merge applies flat path→value pairs, typically decoded from a file.
// Values for registered preferences are validated and set; invalid ones are
// skipped and reported. Values for unknown paths are kept until the
// preference is registered.
func (s *Store) Merge(values map[string]any, source string) error {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var problems []string
	for _, path := range paths {
		if !s.Exists(path) {
			if ValidPath(path) {
				s.mu.Lock()
				s.pending[path] = values[path]
				s.mu.Unlock()
			}
			continue
		}
		if def, _ := s.Setting(path); def.Type == TypeNone {
			continue
		}
		if err := s.Set(path, values[path], source); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(problems, "; "))
	}
	return nil
}

// Snapshot returns the current values of all value-holding preferences,
// including values loaded for preferences that are not registered yet.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values)+len(s.pending))
	for p, v := range s.pending {
		out[p] = v
	}
	for p, v := range s.values {
		out[p] = v
	}
	return out
}

// Watch registers observer for changes at or below path.
// An empty path observes every change.
func (s *Store) Watch(path string, observer Observer) *Subscription {
	return s.notifier.subscribe(path, observer)
}
