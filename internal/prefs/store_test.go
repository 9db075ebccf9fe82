package prefs

import (
	"errors"
	"testing"
)

const root = "/plugins/core/usercast"

func TestStore_AddKeepsExistingValue(t *testing.T) {
	s := New()

	if err := s.AddString(root+"/prefix", "Hey, "); err != nil {
		t.Fatalf("AddString failed: %v", err)
	}
	if err := s.SetString(root+"/prefix", "Yo ", "test"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	// Registering again must not reset the user's value.
	if err := s.AddString(root+"/prefix", "Hey, "); err != nil {
		t.Fatalf("second AddString failed: %v", err)
	}

	got, err := s.GetString(root + "/prefix")
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if got != "Yo " {
		t.Errorf("GetString = %q, want %q", got, "Yo ")
	}
}

func TestStore_AddTypeMismatch(t *testing.T) {
	s := New()
	_ = s.AddInt(root+"/prefix_policy", 1)

	err := s.AddString(root+"/prefix_policy", "x")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AddString over int error = %v, want ErrTypeMismatch", err)
	}
}

func TestStore_AddInvalid(t *testing.T) {
	s := New()

	if err := s.AddString("relative/path", ""); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("relative path error = %v, want ErrInvalidPath", err)
	}
	if err := s.Add(Setting{Path: root + "/x", Type: TypeInt, Default: "one"}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("bad default error = %v, want ErrInvalidValue", err)
	}
}

func TestStore_TypedGetters(t *testing.T) {
	s := New()
	_ = s.AddNone(root)
	_ = s.AddString(root+"/prefix", "Hey, ")
	_ = s.AddInt(root+"/prefix_policy", 1)
	_ = s.AddBool(root+"/enabled", true)

	if v, err := s.GetInt(root + "/prefix_policy"); err != nil || v != 1 {
		t.Errorf("GetInt = %d, %v; want 1, nil", v, err)
	}
	if v, err := s.GetBool(root + "/enabled"); err != nil || !v {
		t.Errorf("GetBool = %v, %v; want true, nil", v, err)
	}

	var terr *TypeError
	if _, err := s.GetInt(root + "/prefix"); !errors.As(err, &terr) {
		t.Errorf("GetInt on string error = %v, want *TypeError", err)
	} else if terr.Expected != TypeInt || terr.Actual != TypeString {
		t.Errorf("TypeError = %+v", terr)
	}
	if _, err := s.GetString(root + "/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetString on missing error = %v, want ErrNotFound", err)
	}
	if v, err := s.Get(root); err != nil || v != nil {
		t.Errorf("Get(marker) = %v, %v; want nil, nil", v, err)
	}
}

func TestStore_SetValidation(t *testing.T) {
	s := New()
	lo, hi := IntRange(0, 3)
	_ = s.Add(Setting{Path: root + "/postfix_policy", Type: TypeInt, Default: 0, Minimum: lo, Maximum: hi})
	_ = s.AddNone(root)

	if err := s.SetInt(root+"/postfix_policy", 4, "test"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetInt(4) error = %v, want ErrInvalidValue", err)
	}
	if err := s.Set(root+"/postfix_policy", "2", "test"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set(string) error = %v, want ErrInvalidValue", err)
	}
	if err := s.Set(root+"/postfix_policy", int64(2), "test"); err != nil {
		t.Errorf("Set(int64) error = %v, want nil", err)
	}
	if err := s.Set(root, 1, "test"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set(marker) error = %v, want ErrInvalidValue", err)
	}
	if err := s.Set(root+"/nope", 1, "test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Set(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Watch(t *testing.T) {
	s := New()
	_ = s.AddString(root+"/prefix", "Hey, ")
	_ = s.AddString("/other/value", "")

	var changes []Change
	sub := s.Watch(root, func(c Change) {
		changes = append(changes, c)
	})

	_ = s.SetString(root+"/prefix", "Hi ", "panel")
	_ = s.SetString(root+"/prefix", "Hi ", "panel") // unchanged, no notification
	_ = s.SetString("/other/value", "x", "panel")

	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1: %+v", len(changes), changes)
	}
	c := changes[0]
	if c.Path != root+"/prefix" || c.OldValue != "Hey, " || c.NewValue != "Hi " || c.Source != "panel" {
		t.Errorf("change = %+v", c)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	_ = s.SetString(root+"/prefix", "Hello ", "panel")
	if len(changes) != 1 {
		t.Errorf("observer called after Unsubscribe")
	}
}

func TestStore_MergePendingValues(t *testing.T) {
	s := New()

	err := s.Merge(map[string]any{
		root + "/prefix":        "Ahoy ",
		root + "/prefix_policy": int64(3),
	}, "file")
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	// Loaded before registration: registration adopts the loaded values.
	_ = s.AddString(root+"/prefix", "Hey, ")
	_ = s.AddInt(root+"/prefix_policy", 1)

	if v, _ := s.GetString(root + "/prefix"); v != "Ahoy " {
		t.Errorf("prefix = %q, want %q", v, "Ahoy ")
	}
	if v, _ := s.GetInt(root + "/prefix_policy"); v != 3 {
		t.Errorf("prefix_policy = %d, want 3", v)
	}
}

func TestStore_MergeReportsInvalid(t *testing.T) {
	s := New()
	_ = s.AddInt(root+"/prefix_policy", 1)
	_ = s.AddString(root+"/prefix", "Hey, ")

	err := s.Merge(map[string]any{
		root + "/prefix_policy": "always",
		root + "/prefix":        "Hi ",
	}, "file")
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Merge error = %v, want ErrInvalidValue", err)
	}
	if v, _ := s.GetString(root + "/prefix"); v != "Hi " {
		t.Errorf("valid value not applied: prefix = %q", v)
	}
	if v, _ := s.GetInt(root + "/prefix_policy"); v != 1 {
		t.Errorf("invalid value applied: prefix_policy = %d", v)
	}
}

func TestStore_Remove(t *testing.T) {
	s := New()
	_ = s.AddNone(root)
	_ = s.AddString(root+"/prefix", "Hey, ")
	_ = s.AddString("/plugins/core/other", "")

	var deleted []string
	s.Watch("", func(c Change) {
		if c.Type == ChangeDelete {
			deleted = append(deleted, c.Path)
		}
	})

	if err := s.Remove(root, "test"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if s.Exists(root) || s.Exists(root+"/prefix") {
		t.Error("preferences still registered after Remove")
	}
	if !s.Exists("/plugins/core/other") {
		t.Error("sibling preference removed")
	}
	if len(deleted) != 2 {
		t.Errorf("deleted = %v, want 2 paths", deleted)
	}
	if err := s.Remove(root, "test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}
}

func TestStore_Paths(t *testing.T) {
	s := New()
	_ = s.AddNone(root)
	_ = s.AddString(root+"/prefix", "")
	_ = s.AddString(root+"/postfix", "")
	_ = s.AddString("/plugins/core/usercastle", "")

	got := s.Paths(root)
	want := []string{root, root + "/postfix", root + "/prefix"}
	if len(got) != len(want) {
		t.Fatalf("Paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidPath(t *testing.T) {
	tests := map[string]bool{
		"/plugins/core/usercast": true,
		"/a":                     true,
		"":                       false,
		"/":                      false,
		"a/b":                    false,
		"/a/":                    false,
		"/a//b":                  false,
	}
	for path, want := range tests {
		if got := ValidPath(path); got != want {
			t.Errorf("ValidPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestParentJoin(t *testing.T) {
	if got := Parent(root + "/prefix"); got != root {
		t.Errorf("Parent = %q", got)
	}
	if got := Parent("/plugins"); got != "" {
		t.Errorf("Parent(top-level) = %q, want empty", got)
	}
	if got := Join(root, "prefix"); got != root+"/prefix" {
		t.Errorf("Join = %q", got)
	}
}
