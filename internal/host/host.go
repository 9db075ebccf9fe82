// Package host defines what a chat client exposes to plugins: its event bus,
// its conversations and compose buffers, its preference store and, when
// available, its raw input queue.
package host

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/usercast/internal/click"
	"github.com/dshills/usercast/internal/event"
	"github.com/dshills/usercast/internal/event/topic"
	"github.com/dshills/usercast/internal/logging"
	"github.com/dshills/usercast/internal/prefs"
)

// ErrNoDoubleClickInterval is returned by hosts that cannot report the
// system double-click interval.
var ErrNoDoubleClickInterval = errors.New("double-click interval unavailable")

// TopicNickClicked is published when a nickname is pressed in a chat roster.
// The payload is a *NickClicked.
const TopicNickClicked topic.Topic = "conversation.chat.nick-clicked"

// ConversationKind distinguishes one-to-one conversations from chats.
type ConversationKind uint8

const (
	// KindDirect is a one-to-one conversation.
	KindDirect ConversationKind = iota
	// KindChat is a multi-participant chat.
	KindChat
)

// String returns the kind name.
func (k ConversationKind) String() string {
	if k == KindChat {
		return "chat"
	}
	return "direct"
}

// ComposeBuffer is the editable area where outgoing messages are typed.
type ComposeBuffer interface {
	// Text returns the full buffer content.
	Text() string

	// CursorOffset returns the cursor position in runes.
	CursorOffset() int

	// InsertAtCursor inserts text at the cursor and moves the cursor past it.
	InsertAtCursor(text string)

	// GrabFocus gives input focus to the buffer.
	GrabFocus()
}

// Conversation is an open conversation.
type Conversation interface {
	Name() string
	Kind() ConversationKind

	// ComposeBuffer returns the compose area of the conversation's window.
	// It returns false when the conversation is not shown in a window.
	ComposeBuffer() (ComposeBuffer, bool)
}

// NickClicked is the payload of TopicNickClicked.
//
// Handlers that act on the press call Consume; the host then skips its own
// default action for it.
type NickClicked struct {
	Conversation Conversation
	Nick         string
	Button       int
	When         time.Time

	consumed bool
}

// Consume marks the press as handled.
func (n *NickClicked) Consume() {
	n.consumed = true
}

// Consumed reports whether a handler consumed the press.
func (n *NickClicked) Consumed() bool {
	return n.consumed
}

// Host is the plugin-facing surface of a chat client.
type Host interface {
	// Bus returns the client's event bus.
	Bus() event.Bus

	// Prefs returns the client's preference store.
	Prefs() *prefs.Store

	// Events returns the client's raw input queue, if it exposes one.
	Events() (click.EventQueue, bool)

	// DoubleClickInterval returns the system double-click interval.
	DoubleClickInterval() (time.Duration, error)

	// Logger returns the client's logger.
	Logger() *logging.Logger
}

// PublishNickClicked publishes n on bus and reports whether a handler
// consumed it.
func PublishNickClicked(ctx context.Context, bus event.Bus, source string, n *NickClicked) (bool, error) {
	err := bus.Publish(ctx, event.NewEvent(TopicNickClicked, n, source))
	return n.Consumed(), err
}
