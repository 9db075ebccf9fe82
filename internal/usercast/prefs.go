package usercast

import (
	"fmt"

	"github.com/dshills/usercast/internal/cast"
	"github.com/dshills/usercast/internal/prefs"
	"github.com/dshills/usercast/internal/prefs/panel"
)

// Preference paths.
const (
	PrefsRoot         = "/plugins/core/usercast"
	PrefPrefix        = PrefsRoot + "/prefix"
	PrefPostfix       = PrefsRoot + "/postfix"
	PrefPrefixPolicy  = PrefsRoot + "/prefix_policy"
	PrefPostfixPolicy = PrefsRoot + "/postfix_policy"
)

func settings() []prefs.Setting {
	def := cast.DefaultConfig()
	lo, hi := prefs.IntRange(int(cast.Always), int(cast.Never))

	return []prefs.Setting{
		{Path: PrefsRoot, Type: prefs.TypeNone},
		{Path: PrefPrefix, Type: prefs.TypeString, Default: def.Prefix,
			Description: "Text inserted before the nickname"},
		{Path: PrefPostfix, Type: prefs.TypeString, Default: def.Postfix,
			Description: "Text inserted after the nickname"},
		{Path: PrefPrefixPolicy, Type: prefs.TypeInt, Default: int(def.PrefixPolicy), Minimum: lo, Maximum: hi,
			Description: "When the prefix is inserted"},
		{Path: PrefPostfixPolicy, Type: prefs.TypeInt, Default: int(def.PostfixPolicy), Minimum: lo, Maximum: hi,
			Description: "When the postfix is inserted"},
	}
}

// registerPrefs registers the plugin's preferences, keeping existing values.
// It returns the paths that were not registered before, so a failed load can
// remove exactly those.
func registerPrefs(store *prefs.Store) ([]string, error) {
	var added []string
	for _, s := range settings() {
		existed := store.Exists(s.Path)
		if err := store.Add(s); err != nil {
			unregisterPrefs(store, added)
			return nil, fmt.Errorf("registering %s: %w", s.Path, err)
		}
		if !existed {
			added = append(added, s.Path)
		}
	}
	return added, nil
}

// unregisterPrefs removes paths, deepest first, keeping any directory that
// still holds preferences registered by someone else.
func unregisterPrefs(store *prefs.Store, paths []string) {
	for i := len(paths) - 1; i >= 0; i-- {
		if len(store.Paths(paths[i])) > 1 {
			continue
		}
		_ = store.Remove(paths[i], Owner)
	}
}

// prefsConfig reads the cast configuration from the preference store.
type prefsConfig struct {
	store *prefs.Store
}

// CastConfig implements cast.ConfigSource.
func (c prefsConfig) CastConfig() (cast.Config, error) {
	prefix, err := c.store.GetString(PrefPrefix)
	if err != nil {
		return cast.Config{}, err
	}
	postfix, err := c.store.GetString(PrefPostfix)
	if err != nil {
		return cast.Config{}, err
	}
	prefixPolicy, err := c.store.GetInt(PrefPrefixPolicy)
	if err != nil {
		return cast.Config{}, err
	}
	postfixPolicy, err := c.store.GetInt(PrefPostfixPolicy)
	if err != nil {
		return cast.Config{}, err
	}

	return cast.Config{
		Prefix:        prefix,
		Postfix:       postfix,
		PrefixPolicy:  cast.Policy(prefixPolicy),
		PostfixPolicy: cast.Policy(postfixPolicy),
	}, nil
}

// PrefsFrame builds the preference panel.
func PrefsFrame() *panel.Frame {
	var options []panel.Option
	for _, p := range cast.Policies() {
		options = append(options, panel.Option{Label: p.Label(), Value: int(p)})
	}

	frame := panel.NewFrame("Usercast")

	pre := frame.AddSection("Prefix preferences")
	pre.AddEntry("Prefix", PrefPrefix)
	pre.AddChoice("Insert prefix", PrefPrefixPolicy, options...)

	post := frame.AddSection("Postfix preferences")
	post.AddEntry("Postfix", PrefPostfix)
	post.AddChoice("Insert postfix", PrefPostfixPolicy, options...)

	return frame
}
