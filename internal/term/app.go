package term

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/usercast/internal/click"
	"github.com/dshills/usercast/internal/event"
	"github.com/dshills/usercast/internal/host"
	"github.com/dshills/usercast/internal/logging"
	"github.com/dshills/usercast/internal/prefs"
	"github.com/dshills/usercast/internal/prefs/panel"
)

// Source tags events published by the terminal client.
const Source = "term"

const prompt = "> "

// App is a terminal chat client. It implements host.Host.
type App struct {
	screen   tcell.Screen
	bus      event.Bus
	store    *prefs.Store
	logger   *logging.Logger
	interval time.Duration
	queue    *Queue

	convs  []*Conversation
	active int
	frames []*panel.Frame
	panel  *panelView
	status string

	// lastConsumed is set when the latest primary press on a nickname was
	// consumed by a plugin, so the double-press that follows it skips the
	// default action.
	lastConsumed bool
}

// Option configures an App.
type Option func(*App)

// WithBus sets the event bus. The default is a fresh bus.
func WithBus(bus event.Bus) Option {
	return func(a *App) { a.bus = bus }
}

// WithPrefs sets the preference store. The default is an empty store.
func WithPrefs(store *prefs.Store) Option {
	return func(a *App) { a.store = store }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithDoubleClickInterval sets the interval reported to plugins and used to
// synthesize double-presses. Without it the client reports no interval and
// synthesizes with click.DefaultDoubleClickInterval.
func WithDoubleClickInterval(d time.Duration) Option {
	return func(a *App) { a.interval = d }
}

// New creates a client drawing on screen. The screen is initialized by Init.
func New(screen tcell.Screen, opts ...Option) *App {
	a := &App{screen: screen}
	for _, opt := range opts {
		opt(a)
	}
	if a.bus == nil {
		a.bus = event.NewBus()
	}
	if a.store == nil {
		a.store = prefs.New()
	}
	if a.logger == nil {
		a.logger = logging.Null()
	}
	a.logger = a.logger.WithComponent(Source)
	a.queue = NewQueue(screen, a.interval)
	return a
}

// Init initializes the screen with mouse and paste support.
func (a *App) Init() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	a.screen.EnableMouse()
	a.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (a *App) Shutdown() {
	a.screen.Fini()
}

// Bus implements host.Host.
func (a *App) Bus() event.Bus { return a.bus }

// Prefs implements host.Host.
func (a *App) Prefs() *prefs.Store { return a.store }

// Logger implements host.Host.
func (a *App) Logger() *logging.Logger { return a.logger }

// Events implements host.Host.
func (a *App) Events() (click.EventQueue, bool) { return a.queue, true }

// DoubleClickInterval implements host.Host.
func (a *App) DoubleClickInterval() (time.Duration, error) {
	if a.interval <= 0 {
		return 0, host.ErrNoDoubleClickInterval
	}
	return a.interval, nil
}

// AddConversation opens a conversation tab.
func (a *App) AddConversation(c *Conversation) {
	c.compose.onFocus = func() { a.focus(c) }
	a.convs = append(a.convs, c)
}

// AddFrame adds a preference frame to the preferences panel.
func (a *App) AddFrame(f *panel.Frame) {
	a.frames = append(a.frames, f)
}

// Active returns the conversation on screen.
func (a *App) Active() *Conversation {
	if len(a.convs) == 0 {
		return nil
	}
	return a.convs[a.active]
}

// Status returns the status line text.
func (a *App) Status() string { return a.status }

// PanelOpen reports whether the preferences panel is shown.
func (a *App) PanelOpen() bool { return a.panel != nil }

// Run draws the client and handles input until the user quits, ctx is
// cancelled or the screen is finalized.
func (a *App) Run(ctx context.Context) error {
	if len(a.convs) == 0 {
		return ErrNoConversations
	}
	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	a.logger.Info("running with %d conversations", len(a.convs))
	for {
		a.draw()
		it, ok := a.queue.next(true)
		if !ok {
			return nil
		}
		if err := a.dispatch(ctx, it); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// DispatchPending handles every event already delivered by the screen
// without waiting for more, then redraws.
func (a *App) DispatchPending(ctx context.Context) error {
	for {
		it, ok := a.queue.next(false)
		if !ok {
			a.draw()
			return nil
		}
		if err := a.dispatch(ctx, it); err != nil {
			return err
		}
	}
}

func (a *App) dispatch(ctx context.Context, it item) error {
	if len(a.convs) == 0 {
		return ErrNoConversations
	}
	switch it.raw.Kind {
	case click.EventPress:
		a.handlePress(ctx, it)
	case click.EventDoublePress:
		a.handleDoublePress(it)
	case click.EventRelease:
	default:
		return a.handleEvent(it.ev)
	}
	return nil
}

func (a *App) handleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(e)
	case *tcell.EventInterrupt:
		return ErrQuit
	}
	return nil
}

func (a *App) handlePress(ctx context.Context, it item) {
	if a.panel != nil {
		return
	}
	conv := a.Active()
	_, h := a.screen.Size()
	primary := it.raw.Button == click.PrimaryButton

	switch {
	case it.y == 0 && primary:
		if i, ok := a.tabAt(it.x); ok {
			a.switchTo(i)
		}
		return
	case it.y == h-2 && primary:
		conv.compose.SetColumn(it.x - uniseg.StringWidth(prompt))
		conv.compose.GrabFocus()
		return
	}

	nick, ok := a.nickAt(it.x, it.y)
	if !ok {
		return
	}
	n := &host.NickClicked{
		Conversation: conv,
		Nick:         nick,
		Button:       it.raw.Button,
		When:         it.raw.When,
	}
	consumed, err := host.PublishNickClicked(ctx, a.bus, Source, n)
	if err != nil {
		a.logger.Error("nick-clicked handlers failed: %v", err)
	}
	if primary {
		a.lastConsumed = consumed
	}
}

// handleDoublePress runs the default double-click action: show the
// participant in the status line.
func (a *App) handleDoublePress(it item) {
	if a.lastConsumed {
		a.lastConsumed = false
		return
	}
	if a.panel != nil {
		return
	}
	nick, ok := a.nickAt(it.x, it.y)
	if !ok {
		return
	}
	a.status = fmt.Sprintf("%s is in %s", nick, a.Active().Name())
}

func (a *App) handleKey(e *tcell.EventKey) error {
	if e.Key() == tcell.KeyCtrlC {
		return ErrQuit
	}
	if a.panel != nil {
		done, err := a.panel.handleKey(e)
		if err != nil {
			a.status = err.Error()
			a.logger.Warn("preference edit failed: %v", err)
		}
		if done {
			a.panel = nil
		}
		return nil
	}

	conv := a.Active()
	switch e.Key() {
	case tcell.KeyEscape:
		return ErrQuit
	case tcell.KeyTab:
		a.switchTo(a.active + 1)
	case tcell.KeyBacktab:
		a.switchTo(a.active - 1)
	case tcell.KeyF2:
		a.openPanel()
	case tcell.KeyEnter:
		a.send(conv)
	default:
		editKey(conv.compose, e)
	}
	return nil
}

// editKey applies line editing keys to c and reports whether e was one.
func editKey(c *Compose, e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyRune:
		c.InsertAtCursor(string(e.Rune()))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.Backspace()
	case tcell.KeyDelete:
		c.Delete()
	case tcell.KeyLeft:
		c.Left()
	case tcell.KeyRight:
		c.Right()
	case tcell.KeyHome, tcell.KeyCtrlA:
		c.Home()
	case tcell.KeyEnd, tcell.KeyCtrlE:
		c.End()
	default:
		return false
	}
	return true
}

func (a *App) switchTo(i int) {
	n := len(a.convs)
	a.active = (i%n + n) % n
	a.status = ""
}

func (a *App) focus(c *Conversation) {
	a.panel = nil
	for i, conv := range a.convs {
		if conv == c {
			a.active = i
		} else {
			conv.compose.focused = false
		}
	}
}

func (a *App) openPanel() {
	if len(a.frames) == 0 {
		a.status = "No preferences"
		return
	}
	a.panel = newPanelView(a.store, a.frames)
}

func (a *App) send(conv *Conversation) {
	text := conv.compose.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	conv.Append("me: " + text)
	conv.compose.Clear()
	a.logger.Debug("sent message to %s", conv.Name())
}

// tabAt returns the conversation whose tab covers column x.
func (a *App) tabAt(x int) (int, bool) {
	start := 0
	for i, c := range a.convs {
		end := start + uniseg.StringWidth(tabLabel(c))
		if x >= start && x < end {
			return i, true
		}
		start = end
	}
	return 0, false
}

// nickAt returns the roster entry at screen position (x, y).
func (a *App) nickAt(x, y int) (string, bool) {
	conv := a.Active()
	if conv.kind != host.KindChat {
		return "", false
	}
	w, h := a.screen.Size()
	if x <= w-rosterWidth || x >= w || y < 1 || y >= h-2 {
		return "", false
	}
	i := y - 1
	if i >= len(conv.roster) {
		return "", false
	}
	return conv.roster[i], true
}

func tabLabel(c *Conversation) string {
	return " " + c.Name() + " "
}

func (a *App) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()

	x := 0
	for i, c := range a.convs {
		style := styleTab
		if i == a.active {
			style = styleActiveTab
		}
		x = drawText(s, x, 0, w, style, tabLabel(c))
	}

	if a.panel != nil {
		cx, cy, editing := a.panel.draw(s, w, h)
		if editing {
			s.ShowCursor(cx, cy)
		} else {
			s.HideCursor()
		}
	} else {
		a.drawConversation(w, h)
	}

	fillRow(s, 0, h-1, w, styleStatus)
	drawText(s, 0, h-1, w, styleStatus, a.status)
	s.Show()
}

func (a *App) drawConversation(w, h int) {
	s := a.screen
	conv := a.Active()

	logRight := w
	if conv.kind == host.KindChat {
		logRight = w - rosterWidth
		for y := 1; y < h-2; y++ {
			s.SetContent(logRight, y, tcell.RuneVLine, nil, styleNormal)
		}
		for i, nick := range conv.roster {
			y := 1 + i
			if y >= h-2 {
				break
			}
			drawText(s, logRight+1, y, w, styleNick, nick)
		}
	}

	rows := max(h-3, 0)
	msgs := conv.messages
	if len(msgs) > rows {
		msgs = msgs[len(msgs)-rows:]
	}
	for i, m := range msgs {
		drawText(s, 0, 1+i, logRight, styleNormal, m)
	}

	x := drawText(s, 0, h-2, w, stylePrompt, prompt)
	drawText(s, x, h-2, w, styleNormal, conv.compose.Text())
	s.ShowCursor(x+conv.compose.Column(), h-2)
}
