package click

import (
	"context"
	"time"
)

// Default lookahead window: 100 ticks of 1ms.
const (
	DefaultLookaheadTicks = 100
	DefaultLookaheadTick  = time.Millisecond
)

// EventKind classifies raw host input events.
type EventKind uint8

const (
	// EventOther is any event the disambiguator does not care about.
	EventOther EventKind = iota
	// EventPress is a single button press.
	EventPress
	// EventDoublePress is the host's native double-press event.
	EventDoublePress
	// EventRelease is a button release.
	EventRelease
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventDoublePress:
		return "double-press"
	case EventRelease:
		return "release"
	default:
		return "other"
	}
}

// RawEvent is a queued host input event.
type RawEvent struct {
	Kind   EventKind
	Button int
	When   time.Time
}

// EventQueue is the host's pending input queue. Both methods must not block.
type EventQueue interface {
	// Peek returns the next queued event without removing it.
	Peek() (RawEvent, bool)

	// Get removes and returns the next queued event.
	Get() (RawEvent, bool)
}

// Lookahead confirms a press when the host queues a native double-press
// right behind it.
type Lookahead struct {
	queue EventQueue
	ticks int
	tick  time.Duration
}

// LookaheadOption configures a Lookahead strategy.
type LookaheadOption func(*Lookahead)

// WithWindow sets the wait window as ticks polls spaced tick apart.
func WithWindow(ticks int, tick time.Duration) LookaheadOption {
	return func(l *Lookahead) {
		if ticks > 0 {
			l.ticks = ticks
		}
		if tick > 0 {
			l.tick = tick
		}
	}
}

// NewLookahead creates a lookahead strategy polling queue.
func NewLookahead(queue EventQueue, opts ...LookaheadOption) *Lookahead {
	l := &Lookahead{
		queue: queue,
		ticks: DefaultLookaheadTicks,
		tick:  DefaultLookaheadTick,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements Strategy.
func (l *Lookahead) Name() string {
	return "lookahead"
}

// Window returns the maximum time Classify waits for the next event.
func (l *Lookahead) Window() time.Duration {
	return time.Duration(l.ticks) * l.tick
}

// Classify implements Strategy. It blocks for at most Window.
func (l *Lookahead) Classify(ctx context.Context, _ Notification) Result {
	deadline := time.Now().Add(l.Window())

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		if ev, ok := l.queue.Peek(); ok {
			if ev.Kind != EventDoublePress || ev.Button != PrimaryButton {
				return reject(ReasonNoDoubleClick)
			}
			l.drain()
			return confirm()
		}

		if !time.Now().Before(deadline) {
			return reject(ReasonTimeout)
		}

		select {
		case <-ctx.Done():
			return reject(ReasonCancelled)
		case <-ticker.C:
		}
	}
}

// drain removes the double-press and a release queued directly behind it.
func (l *Lookahead) drain() {
	l.queue.Get()
	if next, ok := l.queue.Peek(); ok && next.Kind == EventRelease {
		l.queue.Get()
	}
}
