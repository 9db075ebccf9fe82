package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	s := newUsercastStore(t)
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	reloaded := make(chan error, 4)
	w, err := NewWatcher(s, path,
		WithDebounce(10*time.Millisecond),
		WithReloadHandler(func(err error) { reloaded <- err }),
	)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	doc := "[plugins.core.usercast]\nprefix = \"Hello \"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-reloaded:
		if err != nil {
			t.Fatalf("reload error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if v, _ := s.GetString(root + "/prefix"); v != "Hello " {
		t.Errorf("prefix = %q after reload, want %q", v, "Hello ")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")
	s := newUsercastStore(t)

	reloaded := make(chan error, 1)
	w, err := NewWatcher(s, path,
		WithDebounce(10*time.Millisecond),
		WithReloadHandler(func(err error) { reloaded <- err }),
	)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Error("reloaded for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
