package cast

import "fmt"

// ConfigSource supplies the current configuration. Casters read it on every
// cast so preference edits apply to the next click.
type ConfigSource interface {
	CastConfig() (Config, error)
}

// ConfigSourceFunc adapts a function to ConfigSource.
type ConfigSourceFunc func() (Config, error)

// CastConfig implements ConfigSource.
func (f ConfigSourceFunc) CastConfig() (Config, error) {
	return f()
}

// StaticConfig is a ConfigSource that always returns itself.
type StaticConfig Config

// CastConfig implements ConfigSource.
func (c StaticConfig) CastConfig() (Config, error) {
	return Config(c), nil
}

// Buffer is the compose widget a nickname is cast into.
type Buffer interface {
	// Text returns the full buffer content.
	Text() string

	// CursorOffset returns the cursor position in runes.
	CursorOffset() int

	// InsertAtCursor inserts text at the cursor and moves the cursor past it.
	InsertAtCursor(text string)

	// GrabFocus gives input focus to the buffer.
	GrabFocus()
}

// Caster inserts composed nicknames into compose buffers.
type Caster struct {
	source ConfigSource
}

// New creates a caster reading its configuration from source.
func New(source ConfigSource) *Caster {
	return &Caster{source: source}
}

// Cast composes the text for nick against buf's current state, inserts it at
// the cursor, focuses buf and returns the inserted text.
func (c *Caster) Cast(nick string, buf Buffer) (string, error) {
	if nick == "" {
		return "", ErrEmptyNick
	}

	cfg, err := c.source.CastConfig()
	if err != nil {
		return "", fmt.Errorf("loading cast configuration: %w", err)
	}

	text := Compose(nick, cfg, Context{Text: buf.Text(), Offset: buf.CursorOffset()})
	buf.InsertAtCursor(text)
	buf.GrabFocus()
	return text, nil
}
