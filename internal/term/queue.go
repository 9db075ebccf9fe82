package term

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/usercast/internal/click"
)

// item is a screen event as seen by both the host and click.EventQueue
// readers. A single mouse event may produce several items.
type item struct {
	ev   tcell.Event
	raw  click.RawEvent
	x, y int
}

// Queue buffers screen events and translates mouse state changes into
// presses and releases. A second primary press on the same cell within the
// double-click interval is followed by a synthesized double-press.
//
// Queue implements click.EventQueue; Peek and Get never block.
type Queue struct {
	mu       sync.Mutex
	screen   tcell.Screen
	interval time.Duration
	items    []item

	buttons   tcell.ButtonMask
	lastPress time.Time
	lastX     int
	lastY     int
}

// NewQueue returns a queue reading from screen.
func NewQueue(screen tcell.Screen, interval time.Duration) *Queue {
	if interval <= 0 {
		interval = click.DefaultDoubleClickInterval
	}
	return &Queue{screen: screen, interval: interval}
}

// Peek implements click.EventQueue.
func (q *Queue) Peek() (click.RawEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pull()
	if len(q.items) == 0 {
		return click.RawEvent{}, false
	}
	return q.items[0].raw, true
}

// Get implements click.EventQueue.
func (q *Queue) Get() (click.RawEvent, bool) {
	it, ok := q.next(false)
	return it.raw, ok
}

// Len returns the number of buffered items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// next removes the first item. With block set it waits on the screen when
// nothing is buffered, and fails only once the screen is finalized.
func (q *Queue) next(block bool) (item, bool) {
	for {
		q.mu.Lock()
		q.pull()
		if len(q.items) > 0 {
			it := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return it, true
		}
		q.mu.Unlock()

		if !block {
			return item{}, false
		}
		ev := q.screen.PollEvent()
		if ev == nil {
			return item{}, false
		}
		q.mu.Lock()
		q.items = append(q.items, q.translate(ev)...)
		q.mu.Unlock()
	}
}

// pull moves already delivered screen events into the buffer.
// Callers hold q.mu.
func (q *Queue) pull() {
	for q.screen.HasPendingEvent() {
		ev := q.screen.PollEvent()
		if ev == nil {
			return
		}
		q.items = append(q.items, q.translate(ev)...)
	}
}

// mouseButtons lists the buttons tracked for press and release, in the
// order their items are emitted.
var mouseButtons = []tcell.ButtonMask{tcell.Button1, tcell.Button3, tcell.Button2}

// buttonNumber maps tcell buttons to the conventional numbering: 1 primary,
// 2 middle, 3 secondary.
func buttonNumber(b tcell.ButtonMask) int {
	switch b {
	case tcell.Button1:
		return click.PrimaryButton
	case tcell.Button3:
		return 2
	case tcell.Button2:
		return 3
	default:
		return 0
	}
}

func (q *Queue) translate(ev tcell.Event) []item {
	when := ev.When()
	mev, ok := ev.(*tcell.EventMouse)
	if !ok {
		return []item{{ev: ev, raw: click.RawEvent{Kind: click.EventOther, When: when}}}
	}

	x, y := mev.Position()
	buttons := mev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	pressed := buttons &^ q.buttons
	released := q.buttons &^ buttons
	q.buttons = buttons

	var items []item
	for _, b := range mouseButtons {
		if released&b != 0 {
			items = append(items, item{ev: ev, x: x, y: y,
				raw: click.RawEvent{Kind: click.EventRelease, Button: buttonNumber(b), When: when}})
		}
	}
	for _, b := range mouseButtons {
		if pressed&b == 0 {
			continue
		}
		n := buttonNumber(b)
		items = append(items, item{ev: ev, x: x, y: y,
			raw: click.RawEvent{Kind: click.EventPress, Button: n, When: when}})
		if n != click.PrimaryButton {
			continue
		}
		if q.double(x, y, when) {
			items = append(items, item{ev: ev, x: x, y: y,
				raw: click.RawEvent{Kind: click.EventDoublePress, Button: n, When: when}})
			q.lastPress = time.Time{}
		} else {
			q.lastPress, q.lastX, q.lastY = when, x, y
		}
	}

	if len(items) == 0 {
		items = append(items, item{ev: ev, x: x, y: y, raw: click.RawEvent{Kind: click.EventOther, When: when}})
	}
	return items
}

func (q *Queue) double(x, y int, when time.Time) bool {
	if q.lastPress.IsZero() || x != q.lastX || y != q.lastY {
		return false
	}
	elapsed := when.Sub(q.lastPress)
	return elapsed >= 0 && elapsed <= q.interval
}
