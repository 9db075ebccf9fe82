package plugin

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dshills/usercast/internal/host"
	"github.com/dshills/usercast/internal/prefs/panel"
)

// Plugin is an in-process plugin.
type Plugin interface {
	// Info describes the plugin.
	Info() Info

	// Load registers the plugin with h. On error nothing may stay registered.
	Load(ctx context.Context, h host.Host) error

	// Unload releases everything Load registered.
	Unload(ctx context.Context) error
}

// Info describes a plugin.
type Info struct {
	ID          string
	Name        string
	Version     string
	Summary     string
	Description string
	Author      string
	Homepage    string

	// Preferences builds the plugin's preference frame. Nil if the plugin
	// has no preferences.
	Preferences func() *panel.Frame
}

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Validate checks that the info identifies the plugin.
func (i Info) Validate() error {
	if !idPattern.MatchString(i.ID) {
		return fmt.Errorf("%w: id %q must be lowercase words joined by '-'", ErrInvalidPlugin, i.ID)
	}
	if i.Name == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidPlugin, i.ID)
	}
	if i.Version == "" {
		return fmt.Errorf("%w: %s: version is required", ErrInvalidPlugin, i.ID)
	}
	return nil
}

// String returns "name version".
func (i Info) String() string {
	return i.Name + " " + i.Version
}
