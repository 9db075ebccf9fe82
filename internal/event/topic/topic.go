// Package topic names bus events with dot-separated paths such as
// "conversation.chat.nick-clicked".
//
// Subscription patterns may use "*" for exactly one segment and "**" for
// any number of segments, including none.
package topic

import "strings"

// Topic is a dot-separated event name or pattern.
type Topic string

const (
	// Any matches a single segment.
	Any = "*"
	// Rest matches zero or more segments.
	Rest = "**"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments splits the topic on dots.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// Under returns the topic for segment below t.
func (t Topic) Under(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return t + "." + Topic(segment)
}

// IsPattern reports whether t contains a wildcard segment.
func (t Topic) IsPattern() bool {
	return strings.Contains(string(t), Any)
}

// IsValid reports whether t is non-empty with no empty segments.
func (t Topic) IsValid() bool {
	return t != "" && !strings.HasPrefix(string(t), ".") &&
		!strings.HasSuffix(string(t), ".") && !strings.Contains(string(t), "..")
}

// Matches reports whether t is matched by pattern.
func (t Topic) Matches(pattern Topic) bool {
	if !pattern.IsPattern() {
		return t == pattern
	}
	return match(t.Segments(), pattern.Segments())
}

func match(name, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		pattern = pattern[1:]

		if head == Rest {
			for i := 0; i <= len(name); i++ {
				if match(name[i:], pattern) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 || (head != Any && head != name[0]) {
			return false
		}
		name = name[1:]
	}
	return len(name) == 0
}
