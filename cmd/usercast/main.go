// Package main is the entry point for the usercast terminal chat client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/usercast/internal/logging"
	"github.com/dshills/usercast/internal/plugin"
	"github.com/dshills/usercast/internal/plugin/lua"
	"github.com/dshills/usercast/internal/prefs"
	"github.com/dshills/usercast/internal/term"
	"github.com/dshills/usercast/internal/usercast"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	PrefsPath   string
	InitScript  string
	LogPath     string
	LogLevel    string
	DoubleClick time.Duration
	Strategy    usercast.Strategy
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger, closeLog, err := openLog(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	store := prefs.New()
	if err := store.LoadFile(opts.PrefsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading preferences: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	client := term.New(screen,
		term.WithPrefs(store),
		term.WithLogger(logger),
		term.WithDoubleClickInterval(opts.DoubleClick),
	)
	if err := client.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	// Ensure the terminal is restored on all exit paths
	defer client.Shutdown()

	client.AddConversation(term.NewChat("#lobby", "alice", "bob", "carol", "dave"))
	client.AddConversation(term.NewDirect("alice"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := plugin.NewManager(client)
	manager.Subscribe(func(ev plugin.ManagerEvent) {
		if ev.Error != nil {
			logger.Error("plugin %s: %s: %v", ev.Plugin, ev.Type, ev.Error)
			return
		}
		logger.Info("plugin %s %s", ev.Plugin, ev.Type)
	})

	caster := usercast.New(usercast.Options{Strategy: opts.Strategy})
	if err := manager.Register(caster); err != nil {
		logger.Error("registering plugin: %v", err)
		return 1
	}
	// A failed plugin leaves the client usable
	_ = manager.LoadAll(ctx)
	defer func() {
		if err := manager.UnloadAll(context.Background()); err != nil {
			logger.Error("unloading plugins: %v", err)
		}
	}()

	for _, st := range manager.List() {
		if st.State == plugin.StateLoaded && st.Info.Preferences != nil {
			client.AddFrame(st.Info.Preferences())
		}
	}

	if opts.InitScript != "" {
		if err := runInitScript(ctx, opts.InitScript, store, caster, logger); err != nil {
			logger.Error("init script: %v", err)
		}
	}

	watcher, err := prefs.NewWatcher(store, opts.PrefsPath, prefs.WithReloadHandler(func(err error) {
		if err != nil {
			logger.Warn("reloading preferences: %v", err)
			return
		}
		logger.Info("reloaded preferences from %s", opts.PrefsPath)
	}))
	if err != nil {
		logger.Warn("preferences will not be reloaded: %v", err)
	} else {
		defer watcher.Close()
	}

	saver := store.Watch("", func(c prefs.Change) {
		if c.Source != term.SourcePanel {
			return
		}
		if err := store.SaveFile(opts.PrefsPath); err != nil {
			logger.Error("saving preferences: %v", err)
		}
	})
	defer saver.Unsubscribe()

	runErr := client.Run(ctx)

	if err := store.SaveFile(opts.PrefsPath); err != nil {
		logger.Error("saving preferences: %v", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}

func runInitScript(ctx context.Context, path string, store *prefs.Store, caster *usercast.Plugin, logger *logging.Logger) error {
	state := lua.NewState(lua.WithLogger(logger.WithComponent("lua")))
	defer state.Close()

	module := lua.Module{Store: store, Root: usercast.PrefsRoot}
	if cfg, ok := caster.ConfigSource(); ok {
		module.Config = cfg
	}
	lua.Install(state, module)
	return state.DoFile(ctx, path)
}

func openLog(opts options) (*logging.Logger, func(), error) {
	if opts.LogPath == "" {
		return logging.Null(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log: %w", err)
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(opts.LogLevel),
		Output: f,
		Prefix: "usercast",
	})
	return logger, func() { _ = f.Close() }, nil
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "prefs.toml"
	}
	return filepath.Join(dir, "usercast", "prefs.toml")
}

func parseFlags() options {
	var opts options
	var strategy string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.PrefsPath, "prefs", defaultPrefsPath(), "Preference file (.toml, .yaml or .json)")
	flag.StringVar(&opts.InitScript, "init", "", "Lua script run after plugins load")
	flag.StringVar(&opts.LogPath, "log", "", "Log file (logging is off without it)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&opts.DoubleClick, "double-click-interval", 0, "Double-click interval reported to plugins (0 reports none)")
	flag.StringVar(&strategy, "strategy", "auto", "Double-click detection (auto, lookahead, pairing)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usercast - paste double-clicked nicknames into the chat input\n\n")
		fmt.Fprintf(os.Stderr, "Usage: usercast [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  usercast -log /tmp/usercast.log -log-level debug\n")
		fmt.Fprintf(os.Stderr, "  usercast -strategy pairing -double-click-interval 300ms\n")
		fmt.Fprintf(os.Stderr, "  usercast -prefs ./prefs.yaml -init ./init.lua\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("usercast %s (plugin %s)\n", version, usercast.Version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	s, err := usercast.ParseStrategy(strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts.Strategy = s

	if _, err := prefs.FormatFor(opts.PrefsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(opts.PrefsPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating preference directory: %v\n", err)
		os.Exit(1)
	}

	return opts
}
