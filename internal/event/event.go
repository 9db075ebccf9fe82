package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/usercast/internal/event/topic"
)

// Event carries a typed payload on a topic.
type Event[T any] struct {
	Topic   topic.Topic
	Payload T

	// ID is unique per published event.
	ID     string
	// Source names the publishing component.
	Source string
	// Time is when the event was created.
	Time   time.Time
}

// NewEvent stamps payload with a fresh id and the current time.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Topic:   t,
		Payload: payload,
		ID:      uuid.NewString(),
		Source:  source,
		Time:    time.Now(),
	}
}

// EventTopic implements Topical.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Topic
}

// Topical is implemented by every value the bus can publish.
type Topical interface {
	EventTopic() topic.Topic
}

// Handler receives published events.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandlerFunc handles events with a T payload.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// AsHandlerFunc adapts fn to Handler. Events whose payload is not a T are
// ignored.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		e, ok := event.(Event[T])
		if !ok {
			return nil
		}
		return fn(ctx, e)
	})
}
