// Package prefs implements the host preference store.
//
// Preferences are addressed by slash-separated absolute paths such as
// "/plugins/core/usercast/prefix". A component registers each preference it
// owns with a type and a default value; registration never overwrites a value
// that is already present (for example one read from the preference file), so
// defaults take effect only the first time a preference is seen.
//
// Values are read on demand and are never cached by the store's callers.
// The store is safe for concurrent use: the file watcher reloads values on
// its own goroutine while the UI goroutine reads them.
//
// Files are encoded as nested tables that mirror the path hierarchy. The
// format is chosen by extension: .toml, .yaml/.yml or .json.
//
//	[plugins.core.usercast]
//	prefix = "Hey, "
//	prefix_policy = 1
package prefs
