package cast

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy decides when a prefix or postfix is attached.
// The numeric values are the stored preference values.
type Policy int

const (
	// Always attaches regardless of cursor position.
	Always Policy = iota
	// FirstWord attaches when the cursor is at the start of the text.
	FirstWord
	// LastWord attaches when the cursor is at the end of the text.
	LastWord
	// Never does not attach.
	Never
)

var policyInfo = [...]struct{ name, label string }{
	Always:    {"always", "Always"},
	FirstWord: {"first_word", "First word"},
	LastWord:  {"last_word", "Last word"},
	Never:     {"never", "Never"},
}

// Policies returns every policy in declaration order.
func Policies() []Policy {
	return []Policy{Always, FirstWord, LastWord, Never}
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p >= Always && p <= Never
}

// String returns the policy's identifier, e.g. "first_word".
func (p Policy) String() string {
	if p.Valid() {
		return policyInfo[p].name
	}
	return "Policy(" + strconv.Itoa(int(p)) + ")"
}

// Label returns the policy's display label, e.g. "First word".
func (p Policy) Label() string {
	if p.Valid() {
		return policyInfo[p].label
	}
	return p.String()
}

// Applies reports whether a decoration with this policy is attached for the
// given cursor position. Unknown policies never apply.
func (p Policy) Applies(atStart, atEnd bool) bool {
	switch p {
	case Always:
		return true
	case FirstWord:
		return atStart
	case LastWord:
		return atEnd
	default:
		return false
	}
}

// ParsePolicy accepts an identifier ("last_word"), a label ("Last word") or
// the numeric value ("2").
func ParsePolicy(s string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Policies() {
		if key == policyInfo[p].name || key == strings.ToLower(policyInfo[p].label) {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && Policy(n).Valid() {
		return Policy(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
