// Package event provides the host's synchronous event bus.
//
// Events are published on hierarchical topics (see package topic) and
// delivered, in priority order, to every active subscription whose pattern
// matches. Delivery happens on the publisher's goroutine: when Publish
// returns, every handler has run. This matches a UI toolkit's single-threaded
// dispatch, where handlers may mutate widgets directly.
//
// Subscribing returns a Subscription token. Components release their
// subscriptions with Bus.Unsubscribe, or all at once with
// Bus.UnsubscribeOwner when they were tagged with WithOwner:
//
//	sub, err := bus.Subscribe("conversation.chat.nick-clicked",
//	    event.AsHandlerFunc(onNickClicked),
//	    event.WithOwner("usercast"))
//	...
//	bus.UnsubscribeOwner("usercast")
//
// Handler errors and panics never stop delivery to the remaining handlers;
// they are collected and returned from Publish.
package event
