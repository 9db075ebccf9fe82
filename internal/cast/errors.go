package cast

import "errors"

var (
	// ErrEmptyNick is returned when asked to cast an empty nickname.
	ErrEmptyNick = errors.New("empty nickname")

	// ErrUnknownPolicy is returned when parsing an unrecognized policy name.
	ErrUnknownPolicy = errors.New("unknown policy")
)
