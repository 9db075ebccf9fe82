package event

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTopic is returned by Publish for values that carry no topic.
	ErrNoTopic = errors.New("event has no topic")

	// ErrBadTopic is returned for empty or malformed topic patterns.
	ErrBadTopic = errors.New("malformed topic")

	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrNotSubscribed is returned when unsubscribing an unknown or nil
	// subscription.
	ErrNotSubscribed = errors.New("not subscribed")

	// ErrHandlerPanic matches DeliveryErrors caused by a panic.
	ErrHandlerPanic = errors.New("handler panicked")
)

// DeliveryError reports a handler that failed or panicked while an event
// was delivered to it.
type DeliveryError struct {
	Subscription string
	Owner        string
	Topic        string

	// Err is the handler's error. It is nil when the handler panicked.
	Err error

	// Recovered is the panic value, if any.
	Recovered any
	Stack     string
}

func (e *DeliveryError) Error() string {
	who := e.Subscription
	if e.Owner != "" {
		who = e.Owner + "/" + e.Subscription
	}
	if e.Recovered != nil {
		return fmt.Sprintf("%s: handler %s panicked: %v", e.Topic, who, e.Recovered)
	}
	return fmt.Sprintf("%s: handler %s: %v", e.Topic, who, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is matches ErrHandlerPanic for panics.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrHandlerPanic && e.Recovered != nil
}
