package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/usercast/internal/click"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(s.Fini)
	return s
}

func drain(q *Queue) []click.RawEvent {
	var out []click.RawEvent
	for {
		ev, ok := q.Get()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func kinds(events []click.RawEvent) []click.EventKind {
	out := make([]click.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func equalKinds(a, b []click.EventKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueueSynthesizesDoublePress(t *testing.T) {
	s := newTestScreen(t)
	q := NewQueue(s, time.Second)

	s.InjectMouse(5, 5, tcell.Button1, tcell.ModNone)
	s.InjectMouse(5, 5, tcell.ButtonNone, tcell.ModNone)
	s.InjectMouse(5, 5, tcell.Button1, tcell.ModNone)
	s.InjectMouse(5, 5, tcell.ButtonNone, tcell.ModNone)

	got := kinds(drain(q))
	want := []click.EventKind{
		click.EventPress, click.EventRelease,
		click.EventPress, click.EventDoublePress, click.EventRelease,
	}
	if !equalKinds(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestQueueThirdPressIsSingle(t *testing.T) {
	s := newTestScreen(t)
	q := NewQueue(s, time.Second)

	for i := 0; i < 3; i++ {
		s.InjectMouse(1, 1, tcell.Button1, tcell.ModNone)
		s.InjectMouse(1, 1, tcell.ButtonNone, tcell.ModNone)
	}

	doubles := 0
	for _, ev := range drain(q) {
		if ev.Kind == click.EventDoublePress {
			doubles++
		}
	}
	if doubles != 1 {
		t.Errorf("double-presses = %d, want 1", doubles)
	}
}

func TestQueueNoDoublePressOnOtherCell(t *testing.T) {
	s := newTestScreen(t)
	q := NewQueue(s, time.Second)

	s.InjectMouse(5, 5, tcell.Button1, tcell.ModNone)
	s.InjectMouse(5, 5, tcell.ButtonNone, tcell.ModNone)
	s.InjectMouse(6, 5, tcell.Button1, tcell.ModNone)
	s.InjectMouse(6, 5, tcell.ButtonNone, tcell.ModNone)

	for _, ev := range drain(q) {
		if ev.Kind == click.EventDoublePress {
			t.Fatal("unexpected double-press for presses on different cells")
		}
	}
}

func TestQueueDoublePressInterval(t *testing.T) {
	q := NewQueue(nil, 100*time.Millisecond)
	t0 := time.Now()

	q.lastPress, q.lastX, q.lastY = t0, 2, 2
	if !q.double(2, 2, t0.Add(100*time.Millisecond)) {
		t.Error("press at the interval should pair")
	}
	if q.double(2, 2, t0.Add(101*time.Millisecond)) {
		t.Error("press after the interval should not pair")
	}
	if q.double(2, 2, t0.Add(-time.Millisecond)) {
		t.Error("press before the pending one should not pair")
	}
}

func TestQueueButtonNumbers(t *testing.T) {
	s := newTestScreen(t)
	q := NewQueue(s, time.Second)

	s.InjectMouse(0, 0, tcell.Button2, tcell.ModNone)
	s.InjectMouse(0, 0, tcell.ButtonNone, tcell.ModNone)
	s.InjectMouse(0, 0, tcell.Button3, tcell.ModNone)

	got := drain(q)
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].Kind != click.EventPress || got[0].Button != 3 {
		t.Errorf("secondary press = %+v, want press of button 3", got[0])
	}
	if got[1].Kind != click.EventRelease || got[1].Button != 3 {
		t.Errorf("secondary release = %+v, want release of button 3", got[1])
	}
	if got[2].Kind != click.EventPress || got[2].Button != 2 {
		t.Errorf("middle press = %+v, want press of button 2", got[2])
	}
}

func TestQueueHeldButtonMotion(t *testing.T) {
	s := newTestScreen(t)
	q := NewQueue(s, time.Second)

	s.InjectMouse(0, 0, tcell.Button1, tcell.ModNone)
	s.InjectMouse(1, 0, tcell.Button1, tcell.ModNone)

	got := kinds(drain(q))
	want := []click.EventKind{click.EventPress, click.EventOther}
	if !equalKinds(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestQueuePeekDoesNotRemove(t *testing.T) {
	s := newTestScreen(t)
	q := NewQueue(s, 0)

	if _, ok := q.Peek(); ok {
		t.Fatal("Peek on empty queue returned an event")
	}

	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	ev, ok := q.Peek()
	if !ok || ev.Kind != click.EventOther {
		t.Fatalf("Peek() = %+v, %v; want other event", ev, ok)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d after Peek, want 1", q.Len())
	}
	if _, ok := q.Get(); !ok {
		t.Error("Get() after Peek returned nothing")
	}
	if _, ok := q.Get(); ok {
		t.Error("Get() on drained queue returned an event")
	}
}

func TestQueueDefaultInterval(t *testing.T) {
	q := NewQueue(nil, 0)
	if q.interval != click.DefaultDoubleClickInterval {
		t.Errorf("interval = %v, want %v", q.interval, click.DefaultDoubleClickInterval)
	}
}
