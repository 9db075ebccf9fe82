package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/usercast/internal/event/topic"
)

// Bus delivers events to subscribers on the publisher's goroutine.
type Bus interface {
	// Publish runs every matching handler before returning. Failures do not
	// stop delivery; they are joined into the returned error.
	Publish(ctx context.Context, event any) error

	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	Unsubscribe(sub Subscription) error

	// UnsubscribeOwner removes every subscription tagged with owner and
	// returns how many there were.
	UnsubscribeOwner(owner string) int

	// Subscribers counts the subscriptions tagged with owner.
	Subscribers(owner string) int

	Stats() Stats
}

// Stats counts bus activity.
type Stats struct {
	Published     uint64
	Delivered     uint64
	Failed        uint64
	Panicked      uint64
	Subscriptions int
}

type bus struct {
	mu sync.RWMutex

	// subs is ordered by priority, then subscription order.
	subs []*subscription

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
}

// NewBus returns an empty bus.
func NewBus() Bus {
	return &bus{}
}

func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(Topical)
	if !ok || tp.EventTopic() == "" {
		return fmt.Errorf("%w: %T", ErrNoTopic, event)
	}
	t := tp.EventTopic()

	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	b.published.Add(1)
	var errs []error
	for _, s := range subs {
		if !s.wants(t, event) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := b.deliver(ctx, t, s, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.delivered.Add(1)
		if s.once {
			b.remove(func(x *subscription) bool { return x == s })
		}
	}
	return errors.Join(errs...)
}

func (b *bus) deliver(ctx context.Context, t topic.Topic, s *subscription, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
			err = &DeliveryError{
				Subscription: s.id,
				Owner:        s.owner,
				Topic:        t.String(),
				Recovered:    r,
				Stack:        string(debug.Stack()),
			}
		}
	}()

	if herr := s.handler.Handle(ctx, event); herr != nil {
		b.failed.Add(1)
		return &DeliveryError{Subscription: s.id, Owner: s.owner, Topic: t.String(), Err: herr}
	}
	return nil
}

func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrBadTopic, pattern)
	}

	s := &subscription{id: uuid.NewString(), pattern: pattern, handler: handler, priority: PriorityNormal}
	for _, opt := range opts {
		opt(s)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := len(b.subs)
	for i > 0 && b.subs[i-1].priority > s.priority {
		i--
	}
	b.subs = slices.Insert(b.subs, i, s)
	return s, nil
}

func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrNotSubscribed
	}
	if b.remove(func(s *subscription) bool { return s.id == sub.ID() }) == 0 {
		return fmt.Errorf("%w: %s", ErrNotSubscribed, sub.ID())
	}
	return nil
}

func (b *bus) UnsubscribeOwner(owner string) int {
	if owner == "" {
		return 0
	}
	return b.remove(func(s *subscription) bool { return s.owner == owner })
}

// remove drops the subscriptions matching drop and returns how many.
func (b *bus) remove(drop func(*subscription) bool) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.subs)
	b.subs = slices.DeleteFunc(b.subs, func(s *subscription) bool {
		if drop(s) {
			s.removed.Store(true)
			return true
		}
		return false
	})
	return n - len(b.subs)
}

func (b *bus) Subscribers(owner string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.owner == owner {
			n++
		}
	}
	return n
}

func (b *bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		Failed:        b.failed.Load(),
		Panicked:      b.panicked.Load(),
		Subscriptions: n,
	}
}
