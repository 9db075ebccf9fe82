package usercast

import (
	"testing"

	"github.com/dshills/usercast/internal/prefs"
	"github.com/dshills/usercast/internal/prefs/panel"
)

func TestPrefsFrame(t *testing.T) {
	frame := PrefsFrame()

	if len(frame.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(frame.Sections))
	}
	if frame.Sections[0].Title != "Prefix preferences" || frame.Sections[1].Title != "Postfix preferences" {
		t.Errorf("titles = %q, %q", frame.Sections[0].Title, frame.Sections[1].Title)
	}

	wantPaths := []string{PrefPrefix, PrefPrefixPolicy, PrefPostfix, PrefPostfixPolicy}
	items := frame.Items()
	for i, item := range items {
		if item.Path != wantPaths[i] {
			t.Errorf("item %d bound to %s, want %s", i, item.Path, wantPaths[i])
		}
	}

	labels := []string{"Always", "First word", "Last word", "Never"}
	for _, item := range []*panel.Item{items[1], items[3]} {
		if item.Kind != panel.KindChoice || len(item.Options) != 4 {
			t.Fatalf("%s: kind %v with %d options", item.Label, item.Kind, len(item.Options))
		}
		for i, opt := range item.Options {
			if opt.Label != labels[i] || opt.Value != i {
				t.Errorf("%s option %d = %+v", item.Label, i, opt)
			}
		}
	}

	store := prefs.New()
	if _, err := registerPrefs(store); err != nil {
		t.Fatal(err)
	}
	if err := frame.Check(store); err != nil {
		t.Errorf("frame does not match registered preferences: %v", err)
	}
}

func TestPrefsFrame_EditsApply(t *testing.T) {
	store := prefs.New()
	_, _ = registerPrefs(store)
	items := PrefsFrame().Items()

	if err := items[1].Apply(store, "Never", "panel"); err != nil {
		t.Fatal(err)
	}
	if err := items[2].Apply(store, " | ", "panel"); err != nil {
		t.Fatal(err)
	}

	cfg, err := prefsConfig{store: store}.CastConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PrefixPolicy != 3 || cfg.Postfix != " | " {
		t.Errorf("config = %+v", cfg)
	}
}

func TestPrefsConfig_MissingPrefs(t *testing.T) {
	if _, err := (prefsConfig{store: prefs.New()}).CastConfig(); err == nil {
		t.Error("CastConfig() on empty store succeeded")
	}
}
