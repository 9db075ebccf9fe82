package term

import (
	"slices"

	"github.com/dshills/usercast/internal/host"
)

// Conversation is an open conversation tab.
type Conversation struct {
	name     string
	kind     host.ConversationKind
	roster   []string
	messages []string
	compose  *Compose
}

// NewChat returns a chat with the given participants.
func NewChat(name string, roster ...string) *Conversation {
	return &Conversation{
		name:    name,
		kind:    host.KindChat,
		roster:  slices.Clone(roster),
		compose: NewCompose(),
	}
}

// NewDirect returns a one-to-one conversation.
func NewDirect(name string) *Conversation {
	return &Conversation{
		name:    name,
		kind:    host.KindDirect,
		compose: NewCompose(),
	}
}

// Name implements host.Conversation.
func (c *Conversation) Name() string { return c.name }

// Kind implements host.Conversation.
func (c *Conversation) Kind() host.ConversationKind { return c.kind }

// ComposeBuffer implements host.Conversation. Every open conversation has
// a tab, so the buffer is always available.
func (c *Conversation) ComposeBuffer() (host.ComposeBuffer, bool) {
	return c.compose, true
}

// Compose returns the conversation's compose line.
func (c *Conversation) Compose() *Compose { return c.compose }

// Roster returns the chat participants.
func (c *Conversation) Roster() []string { return slices.Clone(c.roster) }

// Messages returns the message log, oldest first.
func (c *Conversation) Messages() []string { return slices.Clone(c.messages) }

// Append adds a line to the message log.
func (c *Conversation) Append(line string) {
	c.messages = append(c.messages, line)
}
