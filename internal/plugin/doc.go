// Package plugin manages the lifecycle of in-process chat client plugins.
//
// A Plugin describes itself with Info and is loaded against a host.Host.
// Load registers whatever the plugin needs (preferences, event
// subscriptions); Unload must release all of it.
//
//	m := plugin.NewManager(h)
//	if err := m.Register(usercast.New(usercast.Options{})); err != nil {
//	    return err
//	}
//	if err := m.LoadAll(ctx); err != nil {
//	    log.Printf("some plugins failed to load: %v", err)
//	}
//	defer m.UnloadAll(ctx)
//
// A plugin whose Load fails is left in StateError with nothing registered.
package plugin
