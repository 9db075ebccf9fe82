package cast

import "unicode/utf8"

// Config holds the decorations and their policies.
type Config struct {
	Prefix        string
	Postfix       string
	PrefixPolicy  Policy
	PostfixPolicy Policy
}

// DefaultConfig returns the stock configuration: a "Hey, " greeting when the
// nickname starts the message and ", " after it every time.
func DefaultConfig() Config {
	return Config{
		Prefix:        "Hey, ",
		Postfix:       ", ",
		PrefixPolicy:  FirstWord,
		PostfixPolicy: Always,
	}
}

// Context is a snapshot of the compose buffer. Offset counts runes.
type Context struct {
	Text   string
	Offset int
}

// Len returns the text length in runes.
func (c Context) Len() int {
	return utf8.RuneCountInString(c.Text)
}

// Clamped returns the offset limited to [0, Len].
func (c Context) Clamped() int {
	switch n := c.Len(); {
	case c.Offset < 0:
		return 0
	case c.Offset > n:
		return n
	default:
		return c.Offset
	}
}

// AtStart reports whether the cursor is at the start of the text.
func (c Context) AtStart() bool {
	return c.Clamped() == 0
}

// AtEnd reports whether the cursor is at the end of the text.
func (c Context) AtEnd() bool {
	return c.Clamped() == c.Len()
}

// Compose returns the text to insert for nick. It depends only on nick, cfg,
// the cursor offset and the text length.
func Compose(nick string, cfg Config, ctx Context) string {
	atStart, atEnd := ctx.AtStart(), ctx.AtEnd()

	out := nick
	if cfg.PrefixPolicy.Applies(atStart, atEnd) {
		out = cfg.Prefix + out
	}
	if cfg.PostfixPolicy.Applies(atStart, atEnd) {
		out += cfg.Postfix
	}
	return out
}
