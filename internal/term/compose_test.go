package term

import "testing"

func TestComposeInsertAtCursor(t *testing.T) {
	c := NewCompose()
	c.InsertAtCursor("hello")
	c.SetCursor(2)
	c.InsertAtCursor("XY")

	if got := c.Text(); got != "heXYllo" {
		t.Errorf("Text() = %q, want %q", got, "heXYllo")
	}
	if got := c.CursorOffset(); got != 4 {
		t.Errorf("CursorOffset() = %d, want 4", got)
	}
}

func TestComposeCountsRunes(t *testing.T) {
	c := NewCompose()
	c.InsertAtCursor("привет")

	if got := c.CursorOffset(); got != 6 {
		t.Errorf("CursorOffset() = %d, want 6", got)
	}
}

func TestComposeClusters(t *testing.T) {
	// "e" followed by a combining acute accent, then a flag.
	const text = "aé\U0001F1FA\U0001F1E6b"

	tests := []struct {
		name string
		edit func(c *Compose)
		text string
		off  int
	}{
		{"left skips combining mark", func(c *Compose) { c.End(); c.Left(); c.Left() }, text, 3},
		{"right skips flag", func(c *Compose) { c.SetCursor(3); c.Right() }, text, 5},
		{"backspace removes cluster", func(c *Compose) { c.SetCursor(3); c.Backspace() }, "a\U0001F1FA\U0001F1E6b", 1},
		{"delete removes cluster", func(c *Compose) { c.SetCursor(3); c.Delete() }, "aéb", 3},
		{"backspace at start", func(c *Compose) { c.Home(); c.Backspace() }, text, 0},
		{"delete at end", func(c *Compose) { c.End(); c.Delete() }, text, 6},
		{"set cursor snaps back", func(c *Compose) { c.SetCursor(2) }, text, 1},
		{"set cursor past end", func(c *Compose) { c.SetCursor(99) }, text, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompose()
			c.SetText(text)
			tt.edit(c)

			if got := c.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}
			if got := c.CursorOffset(); got != tt.off {
				t.Errorf("CursorOffset() = %d, want %d", got, tt.off)
			}
		})
	}
}

func TestComposeColumns(t *testing.T) {
	c := NewCompose()
	c.SetText("日本go")

	if got := c.Column(); got != 6 {
		t.Errorf("Column() at end = %d, want 6", got)
	}

	c.SetColumn(3)
	if got := c.CursorOffset(); got != 1 {
		t.Errorf("SetColumn(3) offset = %d, want 1", got)
	}
	if got := c.Column(); got != 2 {
		t.Errorf("Column() = %d, want 2", got)
	}

	c.SetColumn(100)
	if got := c.CursorOffset(); got != 4 {
		t.Errorf("SetColumn(100) offset = %d, want 4", got)
	}

	c.SetColumn(-1)
	if got := c.CursorOffset(); got != 0 {
		t.Errorf("SetColumn(-1) offset = %d, want 0", got)
	}
}

func TestComposeGrabFocus(t *testing.T) {
	called := false
	c := NewCompose()
	c.onFocus = func() { called = true }

	c.GrabFocus()
	if !c.Focused() {
		t.Error("Focused() = false after GrabFocus")
	}
	if !called {
		t.Error("focus callback not called")
	}
}

func TestComposeClear(t *testing.T) {
	c := NewCompose()
	c.SetText("text")
	c.Clear()

	if c.Text() != "" || c.CursorOffset() != 0 {
		t.Errorf("after Clear: %q at %d", c.Text(), c.CursorOffset())
	}
}
