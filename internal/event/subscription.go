package event

import (
	"sync/atomic"

	"github.com/dshills/usercast/internal/event/topic"
)

// Priority orders handlers of the same event. Lower runs first.
type Priority int

const (
	// PriorityHost is for the host's own handlers.
	PriorityHost Priority = 0
	// PriorityNormal is the default, used by plugins.
	PriorityNormal Priority = 100
	// PriorityLate is for observers such as loggers.
	PriorityLate Priority = 200
)

// Subscription is the token returned by Bus.Subscribe. Keep it to
// unsubscribe later.
type Subscription interface {
	ID() string
	Topic() topic.Topic
	Owner() string

	// Active is false once the subscription was removed.
	Active() bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithOwner tags the subscription so Bus.UnsubscribeOwner can remove it.
func WithOwner(owner string) SubscriptionOption {
	return func(s *subscription) { s.owner = owner }
}

// WithPriority sets the handler's position among subscribers.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) { s.priority = p }
}

// WithFilter delivers only events for which keep returns true.
func WithFilter(keep func(event any) bool) SubscriptionOption {
	return func(s *subscription) { s.filter = keep }
}

// WithOnce removes the subscription after its first successful delivery.
func WithOnce() SubscriptionOption {
	return func(s *subscription) { s.once = true }
}

type subscription struct {
	id       string
	pattern  topic.Topic
	handler  Handler
	owner    string
	priority Priority
	filter   func(event any) bool
	once     bool

	removed atomic.Bool
}

func (s *subscription) ID() string { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }
func (s *subscription) Owner() string { return s.owner }
func (s *subscription) Active() bool { return !s.removed.Load() }

func (s *subscription) wants(t topic.Topic, event any) bool {
	if !s.Active() || !t.Matches(s.pattern) {
		return false
	}
	return s.filter == nil || s.filter(event)
}
