package term

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Compose is a single-line text editor. The cursor is kept in runes and
// moves by grapheme clusters.
type Compose struct {
	text    []rune
	cursor  int
	focused bool

	// onFocus is called by GrabFocus.
	onFocus func()
}

// NewCompose returns an empty compose line.
func NewCompose() *Compose {
	return &Compose{}
}

// Text implements host.ComposeBuffer.
func (c *Compose) Text() string {
	return string(c.text)
}

// CursorOffset implements host.ComposeBuffer.
func (c *Compose) CursorOffset() int {
	return c.cursor
}

// InsertAtCursor implements host.ComposeBuffer.
func (c *Compose) InsertAtCursor(text string) {
	if text == "" {
		return
	}
	ins := []rune(text)
	out := make([]rune, 0, len(c.text)+len(ins))
	out = append(out, c.text[:c.cursor]...)
	out = append(out, ins...)
	out = append(out, c.text[c.cursor:]...)
	c.text = out
	c.cursor += len(ins)
}

// GrabFocus implements host.ComposeBuffer.
func (c *Compose) GrabFocus() {
	c.focused = true
	if c.onFocus != nil {
		c.onFocus()
	}
}

// Focused reports whether the line has input focus.
func (c *Compose) Focused() bool {
	return c.focused
}

// SetText replaces the content and puts the cursor at its end.
func (c *Compose) SetText(text string) {
	c.text = []rune(text)
	c.cursor = len(c.text)
}

// Clear empties the line.
func (c *Compose) Clear() {
	c.text = nil
	c.cursor = 0
}

// SetCursor moves the cursor to offset, snapped back to a cluster boundary.
func (c *Compose) SetCursor(offset int) {
	bounds := c.boundaries()
	c.cursor = 0
	for _, b := range bounds {
		if b > offset {
			break
		}
		c.cursor = b
	}
}

// Left moves the cursor one cluster left.
func (c *Compose) Left() {
	c.cursor = c.prev()
}

// Right moves the cursor one cluster right.
func (c *Compose) Right() {
	c.cursor = c.next()
}

// Home moves the cursor to the start of the line.
func (c *Compose) Home() {
	c.cursor = 0
}

// End moves the cursor to the end of the line.
func (c *Compose) End() {
	c.cursor = len(c.text)
}

// Backspace deletes the cluster before the cursor.
func (c *Compose) Backspace() {
	start := c.prev()
	c.text = append(c.text[:start:start], c.text[c.cursor:]...)
	c.cursor = start
}

// Delete deletes the cluster after the cursor.
func (c *Compose) Delete() {
	end := c.next()
	c.text = append(c.text[:c.cursor:c.cursor], c.text[end:]...)
}

// Column returns the display width of the text before the cursor.
func (c *Compose) Column() int {
	return uniseg.StringWidth(string(c.text[:c.cursor]))
}

// SetColumn moves the cursor to the cluster covering display column col.
func (c *Compose) SetColumn(col int) {
	g := uniseg.NewGraphemes(string(c.text))
	offset, width := 0, 0
	for g.Next() {
		w := g.Width()
		if col < width+w {
			break
		}
		width += w
		offset += utf8.RuneCountInString(g.Str())
	}
	c.cursor = offset
}

// boundaries returns the rune offsets of every cluster boundary, including
// 0 and the text length.
func (c *Compose) boundaries() []int {
	bounds := []int{0}
	g := uniseg.NewGraphemes(string(c.text))
	offset := 0
	for g.Next() {
		offset += len(g.Runes())
		bounds = append(bounds, offset)
	}
	return bounds
}

func (c *Compose) prev() int {
	p := 0
	for _, b := range c.boundaries() {
		if b >= c.cursor {
			break
		}
		p = b
	}
	return p
}

func (c *Compose) next() int {
	for _, b := range c.boundaries() {
		if b > c.cursor {
			return b
		}
	}
	return len(c.text)
}
