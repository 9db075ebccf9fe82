package term

import "errors"

var (
	// ErrQuit is returned by event handlers when the client should exit.
	ErrQuit = errors.New("quit requested")

	// ErrNoConversations is returned by Run when no conversation is open.
	ErrNoConversations = errors.New("no open conversations")
)
