package prefs

import (
	"fmt"
	"math"
	"strings"
)

// Type is the data type of a preference.
type Type uint8

const (
	// TypeNone marks a directory-like node that holds no value.
	TypeNone Type = iota
	// TypeBool is a boolean preference.
	TypeBool
	// TypeInt is an integer preference.
	TypeInt
	// TypeString is a string preference.
	TypeString
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Setting is the definition of a registered preference.
type Setting struct {
	// Path is the absolute slash-separated path.
	Path string

	// Type is the preference's data type.
	Type Type

	// Default is the value used when none is stored.
	Default any

	// Description is human-readable documentation.
	Description string

	// Minimum and Maximum bound integer values (nil means unbounded).
	Minimum *int
	Maximum *int
}

// IntRange returns bounds suitable for Setting.Minimum and Setting.Maximum.
func IntRange(lo, hi int) (*int, *int) {
	return &lo, &hi
}

// Validate coerces value to the setting's type and checks its bounds.
func (s *Setting) Validate(value any) (any, error) {
	v, err := coerce(s.Type, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, s.Path, err)
	}

	if s.Type == TypeInt {
		n := v.(int)
		if s.Minimum != nil && n < *s.Minimum {
			return nil, fmt.Errorf("%w: %s: %d is less than minimum %d", ErrInvalidValue, s.Path, n, *s.Minimum)
		}
		if s.Maximum != nil && n > *s.Maximum {
			return nil, fmt.Errorf("%w: %s: %d is greater than maximum %d", ErrInvalidValue, s.Path, n, *s.Maximum)
		}
	}
	return v, nil
}

// coerce converts decoded file values (int64 from TOML, float64 from JSON)
// into the canonical Go type for t.
func coerce(t Type, value any) (any, error) {
	switch t {
	case TypeNone:
		return nil, nil
	case TypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case TypeBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case TypeInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int8:
			return int(v), nil
		case int16:
			return int(v), nil
		case int32:
			return int(v), nil
		case int64:
			return int(v), nil
		case uint8:
			return int(v), nil
		case uint16:
			return int(v), nil
		case uint32:
			return int(v), nil
		case uint64:
			if v <= math.MaxInt32 {
				return int(v), nil
			}
		case float64:
			if v == math.Trunc(v) && !math.IsInf(v, 0) {
				return int(v), nil
			}
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", t, value)
}

// typeOf reports the preference type of a canonical value.
func typeOf(value any) Type {
	switch value.(type) {
	case string:
		return TypeString
	case int:
		return TypeInt
	case bool:
		return TypeBool
	default:
		return TypeNone
	}
}

// ValidPath reports whether path is an absolute slash-separated path
// without empty segments.
func ValidPath(path string) bool {
	if !strings.HasPrefix(path, "/") || len(path) < 2 || strings.HasSuffix(path, "/") {
		return false
	}
	return !strings.Contains(path, "//")
}

// Parent returns the parent path, or "" for top-level paths.
func Parent(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

// Join joins path segments under a parent path.
func Join(parent string, segments ...string) string {
	return strings.TrimSuffix(parent, "/") + "/" + strings.Join(segments, "/")
}
