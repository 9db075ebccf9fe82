package usercast

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/usercast/internal/cast"
	"github.com/dshills/usercast/internal/click"
	"github.com/dshills/usercast/internal/event"
	"github.com/dshills/usercast/internal/host"
	"github.com/dshills/usercast/internal/logging"
	"github.com/dshills/usercast/internal/plugin"
	"github.com/dshills/usercast/internal/prefs"
)

// Plugin metadata.
const (
	ID      = "core-usercast"
	Name    = "Usercast"
	Version = "0.2.1"

	// Owner tags the plugin's bus subscriptions.
	Owner = "usercast"
)

// Strategy selects how double-clicks are detected.
type Strategy uint8

const (
	// StrategyAuto uses lookahead when the host exposes its event queue and
	// pairing otherwise.
	StrategyAuto Strategy = iota
	// StrategyLookahead waits for the host's native double-press event.
	StrategyLookahead
	// StrategyPairing pairs two single presses within the double-click
	// interval.
	StrategyPairing
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyLookahead:
		return "lookahead"
	case StrategyPairing:
		return "pairing"
	default:
		return "auto"
	}
}

// ParseStrategy parses "auto", "lookahead" or "pairing".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return StrategyAuto, nil
	case "lookahead":
		return StrategyLookahead, nil
	case "pairing":
		return StrategyPairing, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown strategy %q", s)
	}
}

// Options configures the plugin.
type Options struct {
	Strategy Strategy

	// LookaheadOptions are passed to click.NewLookahead.
	LookaheadOptions []click.LookaheadOption

	// PairingOptions are passed to click.NewPairing.
	PairingOptions []click.PairingOption
}

// Plugin pastes double-clicked nicknames into the compose area.
type Plugin struct {
	opts Options

	mu            sync.Mutex
	host          host.Host
	logger        *logging.Logger
	disambiguator *click.Disambiguator
	caster        *cast.Caster
	config        cast.ConfigSource
	subs          []event.Subscription
	watch         *prefs.Subscription
}

// New creates the plugin.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts, logger: logging.Null()}
}

// Info implements plugin.Plugin.
func (p *Plugin) Info() plugin.Info {
	return plugin.Info{
		ID:          ID,
		Name:        Name,
		Version:     Version,
		Summary:     "Paste username into chat conversation",
		Description: "Double-click username to paste it into chat input area",
		Author:      "Pavlo Lavrenenko",
		Homepage:    "https://github.com/santa01/usercast",
		Preferences: PrefsFrame,
	}
}

// Load implements plugin.Plugin. It registers the preferences, picks a
// click strategy from the host's capabilities and subscribes to nickname
// presses.
func (p *Plugin) Load(ctx context.Context, h host.Host) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.host != nil {
		return plugin.ErrAlreadyLoaded
	}
	if h == nil || h.Bus() == nil || h.Prefs() == nil {
		return plugin.ErrHostUnavailable
	}

	logger := h.Logger()
	if logger == nil {
		logger = logging.Null()
	}
	logger = logger.WithComponent(Owner)

	added, err := registerPrefs(h.Prefs())
	if err != nil {
		return err
	}

	strategy := p.strategy(h, logger)
	config := prefsConfig{store: h.Prefs()}

	sub, err := h.Bus().Subscribe(host.TopicNickClicked,
		event.AsHandlerFunc[*host.NickClicked](p.handleNickClicked),
		event.WithOwner(Owner),
	)
	if err != nil {
		unregisterPrefs(h.Prefs(), added)
		return fmt.Errorf("subscribing to %s: %w", host.TopicNickClicked, err)
	}

	p.host = h
	p.logger = logger
	p.disambiguator = click.New(strategy)
	p.config = config
	p.caster = cast.New(config)
	p.subs = []event.Subscription{sub}
	p.watch = h.Prefs().Watch(PrefsRoot, func(c prefs.Change) {
		logger.Debug("preference %s changed to %v by %s", c.Path, c.NewValue, c.Source)
	})

	logger.Info("loaded with %s strategy", strategy.Name())
	return nil
}

// strategy builds the click strategy for h.
func (p *Plugin) strategy(h host.Host, logger *logging.Logger) click.Strategy {
	if p.opts.Strategy != StrategyPairing {
		if queue, ok := h.Events(); ok && queue != nil {
			return click.NewLookahead(queue, p.opts.LookaheadOptions...)
		}
		if p.opts.Strategy == StrategyLookahead {
			logger.Warn("host exposes no event queue, falling back to pairing")
		}
	}

	interval, err := h.DoubleClickInterval()
	if err != nil || interval <= 0 {
		logger.Debug("using default double-click interval %v: %v", click.DefaultDoubleClickInterval, err)
		interval = click.DefaultDoubleClickInterval
	}
	return click.NewPairing(interval, p.opts.PairingOptions...)
}

// Unload implements plugin.Plugin. It releases every subscription.
func (p *Plugin) Unload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.host == nil {
		return plugin.ErrNotLoaded
	}

	var firstErr error
	for _, sub := range p.subs {
		if err := p.host.Bus().Unsubscribe(sub); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.watch.Unsubscribe()
	p.logger.Info("unloaded")

	p.host = nil
	p.subs = nil
	p.watch = nil
	p.disambiguator = nil
	p.caster = nil
	p.config = nil
	p.logger = logging.Null()
	return firstErr
}

// ConfigSource returns the live cast configuration of a loaded plugin.
func (p *Plugin) ConfigSource() (cast.ConfigSource, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config, p.config != nil
}

// Strategy returns the click strategy of a loaded plugin.
func (p *Plugin) Strategy() (click.Strategy, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disambiguator == nil {
		return nil, false
	}
	return p.disambiguator.Strategy(), true
}

func (p *Plugin) handleNickClicked(ctx context.Context, e event.Event[*host.NickClicked]) error {
	n := e.Payload
	if n == nil || n.Conversation == nil {
		return nil
	}
	conv := n.Conversation

	p.mu.Lock()
	d, caster, logger := p.disambiguator, p.caster, p.logger
	p.mu.Unlock()
	if d == nil {
		return nil
	}

	buf, visible := conv.ComposeBuffer()
	result := d.Classify(ctx, click.Notification{
		ConversationIsChat:    conv.Kind() == host.KindChat,
		ConversationIsVisible: visible && buf != nil,
		Button:                n.Button,
		When:                  n.When,
	})

	switch {
	case result.Reason == click.ReasonNotChat:
		logger.Warn("Conversation `%s' is not a chat", conv.Name())
		return nil
	case result.Reason == click.ReasonNoView:
		logger.Warn("Conversation `%s' has no compose view", conv.Name())
		return nil
	case !result.Confirmed():
		logger.Debug("click on `%s' in `%s' %s", n.Nick, conv.Name(), result)
		return nil
	}

	n.Consume()

	text, err := caster.Cast(n.Nick, buf)
	if err != nil {
		logger.Error("casting user `%s' to `%s': %v", n.Nick, conv.Name(), err)
		return err
	}

	logger.WithField("text", text).Info("Casted user `%s' to `%s'", n.Nick, conv.Name())
	return nil
}
