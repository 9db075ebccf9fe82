package cast

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// memBuffer is an in-memory Buffer.
type memBuffer struct {
	text    []rune
	cursor  int
	focused bool
	inserts int
}

func newMemBuffer(text string, cursor int) *memBuffer {
	return &memBuffer{text: []rune(text), cursor: cursor}
}

func (b *memBuffer) Text() string      { return string(b.text) }
func (b *memBuffer) CursorOffset() int { return b.cursor }
func (b *memBuffer) GrabFocus()        { b.focused = true }

func (b *memBuffer) InsertAtCursor(s string) {
	ins := []rune(s)
	out := make([]rune, 0, len(b.text)+len(ins))
	out = append(out, b.text[:b.cursor]...)
	out = append(out, ins...)
	out = append(out, b.text[b.cursor:]...)
	b.text = out
	b.cursor += utf8.RuneCountInString(s)
	b.inserts++
}

func TestCaster_Cast(t *testing.T) {
	buf := newMemBuffer("hello ", 6)
	c := New(StaticConfig(DefaultConfig()))

	got, err := c.Cast("alice", buf)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if got != "alice, " {
		t.Errorf("Cast returned %q, want %q", got, "alice, ")
	}
	if buf.Text() != "hello alice, " {
		t.Errorf("buffer = %q, want %q", buf.Text(), "hello alice, ")
	}
	if buf.CursorOffset() != 13 {
		t.Errorf("cursor = %d, want 13", buf.CursorOffset())
	}
	if !buf.focused {
		t.Error("buffer not focused")
	}
}

func TestCaster_InsertsAtCursor(t *testing.T) {
	buf := newMemBuffer("hi  there", 3)
	c := New(StaticConfig(Config{Prefix: "@", PrefixPolicy: Always, PostfixPolicy: Never}))

	if _, err := c.Cast("bob", buf); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if buf.Text() != "hi @bob there" {
		t.Errorf("buffer = %q", buf.Text())
	}
}

func TestCaster_ReadsConfigEveryCast(t *testing.T) {
	cfg := DefaultConfig()
	calls := 0
	c := New(ConfigSourceFunc(func() (Config, error) {
		calls++
		return cfg, nil
	}))

	buf := newMemBuffer("", 0)
	_, _ = c.Cast("alice", buf)

	cfg.Prefix = "Yo "
	buf = newMemBuffer("", 0)
	got, _ := c.Cast("alice", buf)

	if calls != 2 {
		t.Errorf("config read %d times, want 2", calls)
	}
	if got != "Yo alice, " {
		t.Errorf("second cast = %q, want %q", got, "Yo alice, ")
	}
}

func TestCaster_Errors(t *testing.T) {
	buf := newMemBuffer("hello", 5)

	c := New(StaticConfig(DefaultConfig()))
	if _, err := c.Cast("", buf); !errors.Is(err, ErrEmptyNick) {
		t.Errorf("Cast(\"\") error = %v, want ErrEmptyNick", err)
	}

	boom := errors.New("boom")
	c = New(ConfigSourceFunc(func() (Config, error) { return Config{}, boom }))
	if _, err := c.Cast("alice", buf); !errors.Is(err, boom) {
		t.Errorf("Cast error = %v, want wrapped source error", err)
	}

	if buf.inserts != 0 || buf.focused || buf.Text() != "hello" {
		t.Errorf("buffer mutated on error: %+v", buf)
	}
}
