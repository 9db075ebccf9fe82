package prefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the preference store.
var (
	// ErrNotFound is returned when a preference is not registered.
	ErrNotFound = errors.New("preference not found")

	// ErrInvalidPath is returned for paths that are not absolute slash-separated paths.
	ErrInvalidPath = errors.New("invalid preference path")

	// ErrTypeMismatch is returned when a preference is re-registered with a different type.
	ErrTypeMismatch = errors.New("preference type mismatch")

	// ErrInvalidValue is returned when a value fails validation.
	ErrInvalidValue = errors.New("invalid preference value")

	// ErrUnsupportedFormat is returned for preference files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported preference file format")
)

// TypeError describes a typed read of a preference holding another type.
type TypeError struct {
	Path     string
	Expected Type
	Actual   Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("preference %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is allows errors.Is to match TypeError with ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ParseError represents an error while parsing a preference file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
