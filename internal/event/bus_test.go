package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/usercast/internal/event/topic"
)

type clickPayload struct {
	Nick    string
	Handled bool
}

const testTopic topic.Topic = "conversation.chat.nick-clicked"

func nop(ctx context.Context, event any) error { return nil }

func TestBus_PublishDeliversSynchronously(t *testing.T) {
	b := NewBus()

	payload := &clickPayload{Nick: "alice"}
	_, err := b.Subscribe(testTopic, AsHandlerFunc(func(ctx context.Context, e Event[*clickPayload]) error {
		e.Payload.Handled = true
		if e.Source != "test" || e.ID == "" {
			t.Errorf("event metadata = %q/%q", e.Source, e.ID)
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := b.Publish(context.Background(), NewEvent(testTopic, payload, "test")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if !payload.Handled {
		t.Error("handler did not run before Publish returned")
	}
	if got := b.Stats().Delivered; got != 1 {
		t.Errorf("Delivered = %d, want 1", got)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string

	record := func(name string) HandlerFunc {
		return func(ctx context.Context, event any) error {
			order = append(order, name)
			return nil
		}
	}

	_, _ = b.SubscribeFunc(testTopic, record("late"), WithPriority(PriorityLate))
	_, _ = b.SubscribeFunc(testTopic, record("plugin-1"))
	_, _ = b.SubscribeFunc("conversation.**", record("host"), WithPriority(PriorityHost))
	_, _ = b.SubscribeFunc(testTopic, record("plugin-2"))

	if err := b.Publish(context.Background(), NewEvent(testTopic, 1, "test")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	want := []string{"host", "plugin-1", "plugin-2", "late"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBus_UnsubscribeOwner(t *testing.T) {
	b := NewBus()
	calls := 0
	handler := func(ctx context.Context, event any) error {
		calls++
		return nil
	}

	_, _ = b.SubscribeFunc(testTopic, handler, WithOwner("usercast"))
	_, _ = b.SubscribeFunc("prefs.changed", handler, WithOwner("usercast"))
	_, _ = b.SubscribeFunc(testTopic, handler, WithOwner("other"))

	if got := b.Subscribers("usercast"); got != 2 {
		t.Fatalf("Subscribers(usercast) = %d, want 2", got)
	}
	if removed := b.UnsubscribeOwner("usercast"); removed != 2 {
		t.Errorf("UnsubscribeOwner removed %d, want 2", removed)
	}
	if got := b.Subscribers("usercast"); got != 0 {
		t.Errorf("Subscribers(usercast) = %d after removal, want 0", got)
	}

	_ = b.Publish(context.Background(), NewEvent(testTopic, 1, "test"))
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (only the other owner)", calls)
	}
	if removed := b.UnsubscribeOwner(""); removed != 0 {
		t.Errorf("UnsubscribeOwner(\"\") removed %d, want 0", removed)
	}
	if got := b.Stats().Subscriptions; got != 1 {
		t.Errorf("Subscriptions = %d, want 1", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	sub, err := b.SubscribeFunc(testTopic, func(ctx context.Context, event any) error {
		t.Error("handler called after Unsubscribe")
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc failed: %v", err)
	}

	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if sub.Active() {
		t.Error("Active() = true after Unsubscribe")
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("second Unsubscribe error = %v, want ErrNotSubscribed", err)
	}
	if err := b.Unsubscribe(nil); !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("Unsubscribe(nil) error = %v, want ErrNotSubscribed", err)
	}

	_ = b.Publish(context.Background(), NewEvent(testTopic, 1, "test"))
}

func TestBus_HandlerErrorsAndPanics(t *testing.T) {
	b := NewBus()
	boom := errors.New("boom")
	reached := false

	_, _ = b.SubscribeFunc(testTopic, func(ctx context.Context, event any) error {
		return boom
	}, WithOwner("failing"))
	_, _ = b.SubscribeFunc(testTopic, func(ctx context.Context, event any) error {
		panic("kaboom")
	})
	_, _ = b.SubscribeFunc(testTopic, func(ctx context.Context, event any) error {
		reached = true
		return nil
	})

	err := b.Publish(context.Background(), NewEvent(testTopic, 1, "test"))
	if !errors.Is(err, boom) {
		t.Errorf("Publish error = %v, want to wrap boom", err)
	}
	if !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("Publish error = %v, want to match ErrHandlerPanic", err)
	}
	var derr *DeliveryError
	if !errors.As(err, &derr) || derr.Owner != "failing" {
		t.Errorf("expected DeliveryError with owner, got %v", err)
	}
	if !reached {
		t.Error("handler after failing handlers was not reached")
	}

	stats := b.Stats()
	if stats.Failed != 1 || stats.Panicked != 1 {
		t.Errorf("stats = %+v, want 1 failure and 1 panic", stats)
	}
}

func TestBus_Once(t *testing.T) {
	b := NewBus()
	calls := 0

	sub, _ := b.SubscribeFunc(testTopic, func(ctx context.Context, event any) error {
		calls++
		return nil
	}, WithOnce())

	for i := 0; i < 3; i++ {
		_ = b.Publish(context.Background(), NewEvent(testTopic, i, "test"))
	}
	if calls != 1 {
		t.Errorf("once handler called %d times, want 1", calls)
	}
	if sub.Active() {
		t.Error("once subscription still active")
	}
}

func TestBus_CancelledContext(t *testing.T) {
	b := NewBus()
	called := false
	_, _ = b.SubscribeFunc(testTopic, func(ctx context.Context, event any) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Publish(ctx, NewEvent(testTopic, 1, "test")); !errors.Is(err, context.Canceled) {
		t.Errorf("Publish error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("handler ran with a cancelled context")
	}
}

func TestBus_FilterAndTypedMismatch(t *testing.T) {
	b := NewBus()
	calls := 0

	_, _ = b.Subscribe(testTopic, AsHandlerFunc(func(ctx context.Context, e Event[string]) error {
		calls++
		return nil
	}), WithFilter(func(event any) bool {
		e, ok := event.(Event[string])
		return ok && e.Payload != "skip"
	}))

	_ = b.Publish(context.Background(), NewEvent(testTopic, "deliver", "test"))
	_ = b.Publish(context.Background(), NewEvent(testTopic, "skip", "test"))
	_ = b.Publish(context.Background(), NewEvent(testTopic, 42, "test"))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_InvalidInput(t *testing.T) {
	b := NewBus()

	if _, err := b.Subscribe(testTopic, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil) error = %v, want ErrNilHandler", err)
	}
	if _, err := b.SubscribeFunc("", nop); !errors.Is(err, ErrBadTopic) {
		t.Errorf("Subscribe(\"\") error = %v, want ErrBadTopic", err)
	}
	if err := b.Publish(context.Background(), "no topic"); !errors.Is(err, ErrNoTopic) {
		t.Errorf("Publish(string) error = %v, want ErrNoTopic", err)
	}
}
