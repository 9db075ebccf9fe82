// Package hosttest provides an in-memory host.Host for plugin tests.
package hosttest

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dshills/usercast/internal/click"
	"github.com/dshills/usercast/internal/event"
	"github.com/dshills/usercast/internal/host"
	"github.com/dshills/usercast/internal/logging"
	"github.com/dshills/usercast/internal/prefs"
)

// Host is a configurable in-memory host.
type Host struct {
	BusValue    event.Bus
	PrefsValue  *prefs.Store
	LoggerValue *logging.Logger

	// Queue is returned by Events when non-nil.
	Queue *Queue

	// Interval and IntervalErr are returned by DoubleClickInterval.
	Interval    time.Duration
	IntervalErr error
}

// New returns a host with a fresh bus and store, a discarding logger, no
// event queue and no double-click interval.
func New() *Host {
	return &Host{
		BusValue:    event.NewBus(),
		PrefsValue:  prefs.New(),
		LoggerValue: logging.Null(),
		IntervalErr: host.ErrNoDoubleClickInterval,
	}
}

// Bus implements host.Host.
func (h *Host) Bus() event.Bus { return h.BusValue }

// Prefs implements host.Host.
func (h *Host) Prefs() *prefs.Store { return h.PrefsValue }

// Logger implements host.Host.
func (h *Host) Logger() *logging.Logger { return h.LoggerValue }

// Events implements host.Host.
func (h *Host) Events() (click.EventQueue, bool) {
	if h.Queue == nil {
		return nil, false
	}
	return h.Queue, true
}

// DoubleClickInterval implements host.Host.
func (h *Host) DoubleClickInterval() (time.Duration, error) {
	return h.Interval, h.IntervalErr
}

// Queue is a click.EventQueue backed by a slice.
type Queue struct {
	mu     sync.Mutex
	events []click.RawEvent
}

// Push appends events to the queue.
func (q *Queue) Push(events ...click.RawEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, events...)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Peek implements click.EventQueue.
func (q *Queue) Peek() (click.RawEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return click.RawEvent{}, false
	}
	return q.events[0], true
}

// Get implements click.EventQueue.
func (q *Queue) Get() (click.RawEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return click.RawEvent{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// Conversation is an in-memory host.Conversation.
type Conversation struct {
	NameValue string
	KindValue host.ConversationKind

	// Buffer is returned by ComposeBuffer when non-nil.
	Buffer *Buffer
}

// NewChat returns a visible chat conversation with an empty compose buffer.
func NewChat(name string) *Conversation {
	return &Conversation{NameValue: name, KindValue: host.KindChat, Buffer: &Buffer{}}
}

// NewDirect returns a visible one-to-one conversation.
func NewDirect(name string) *Conversation {
	return &Conversation{NameValue: name, KindValue: host.KindDirect, Buffer: &Buffer{}}
}

// Name implements host.Conversation.
func (c *Conversation) Name() string { return c.NameValue }

// Kind implements host.Conversation.
func (c *Conversation) Kind() host.ConversationKind { return c.KindValue }

// ComposeBuffer implements host.Conversation.
func (c *Conversation) ComposeBuffer() (host.ComposeBuffer, bool) {
	if c.Buffer == nil {
		return nil, false
	}
	return c.Buffer, true
}

// Buffer is an in-memory host.ComposeBuffer. Cursor counts runes.
type Buffer struct {
	Content string
	Cursor  int
	Focused bool
}

// Text implements host.ComposeBuffer.
func (b *Buffer) Text() string { return b.Content }

// CursorOffset implements host.ComposeBuffer.
func (b *Buffer) CursorOffset() int { return b.Cursor }

// GrabFocus implements host.ComposeBuffer.
func (b *Buffer) GrabFocus() { b.Focused = true }

// InsertAtCursor implements host.ComposeBuffer.
func (b *Buffer) InsertAtCursor(text string) {
	runes := []rune(b.Content)
	at := min(max(b.Cursor, 0), len(runes))
	b.Content = string(runes[:at]) + text + string(runes[at:])
	b.Cursor = at + utf8.RuneCountInString(text)
}
