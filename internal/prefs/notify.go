package prefs

import (
	"strings"
	"sync"
)

// ChangeType represents the type of preference change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a preference was removed.
	ChangeDelete
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change describes a preference change.
type Change struct {
	Path     string
	Type     ChangeType
	OldValue any
	NewValue any

	// Source identifies where the change came from ("file", "panel", "lua", ...).
	Source string
}

// Observer is called after a preference changes.
type Observer func(change Change)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type watch struct {
	path     string
	observer Observer
}

// notifier delivers changes synchronously on the goroutine that made them.
type notifier struct {
	mu      sync.RWMutex
	watches map[uint64]watch
	nextID  uint64
}

func newNotifier() *notifier {
	return &notifier{watches: make(map[uint64]watch)}
}

// subscribe registers observer for path and everything below it.
// An empty path observes every change.
func (n *notifier) subscribe(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.watches[n.nextID] = watch{path: path, observer: observer}
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.watches, id)
}

func (n *notifier) notify(change Change) {
	n.mu.RLock()
	var targets []Observer
	for _, w := range n.watches {
		if covers(w.path, change.Path) {
			targets = append(targets, w.observer)
		}
	}
	n.mu.RUnlock()

	for _, observer := range targets {
		observer(change)
	}
}

func covers(watched, path string) bool {
	if watched == "" || watched == path {
		return true
	}
	return strings.HasPrefix(path, watched+"/")
}
