package click

import "time"

// PrimaryButton is the button number of the primary (left) pointer button.
const PrimaryButton = 1

// Notification describes a press on a nickname as seen by the disambiguator.
type Notification struct {
	// ConversationIsChat is true for multi-participant conversations.
	ConversationIsChat bool

	// ConversationIsVisible is true when the conversation is bound to a
	// windowed view with a compose area.
	ConversationIsVisible bool

	// Button is the pressed button, 1 being primary.
	Button int

	// When is the press time. Zero means "now".
	When time.Time
}

// Verdict is the outcome of a classification.
type Verdict uint8

const (
	// Rejected means the press is not a double-click to act on.
	Rejected Verdict = iota
	// Confirmed means the press completes a double-click.
	Confirmed
)

// String returns the verdict name.
func (v Verdict) String() string {
	if v == Confirmed {
		return "confirmed"
	}
	return "rejected"
}

// Reason explains a verdict.
type Reason uint8

const (
	// ReasonNone accompanies a confirmed verdict.
	ReasonNone Reason = iota
	// ReasonNotChat rejects presses in one-to-one conversations.
	ReasonNotChat
	// ReasonNoView rejects presses in conversations without a windowed view.
	ReasonNoView
	// ReasonButton rejects presses of non-primary buttons.
	ReasonButton
	// ReasonFirstClick rejects the first half of a pair.
	ReasonFirstClick
	// ReasonTimeout rejects presses whose partner came too late or never.
	ReasonTimeout
	// ReasonNoDoubleClick rejects presses followed by an unrelated event.
	ReasonNoDoubleClick
	// ReasonCancelled rejects presses whose classification was cancelled.
	ReasonCancelled
)

var reasonNames = [...]string{
	ReasonNone:          "none",
	ReasonNotChat:       "not a chat",
	ReasonNoView:        "no view",
	ReasonButton:        "not the primary button",
	ReasonFirstClick:    "first click",
	ReasonTimeout:       "timeout",
	ReasonNoDoubleClick: "no double-click",
	ReasonCancelled:     "cancelled",
}

// String returns a human-readable reason.
func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Precondition reports whether the reason comes from a failed precondition
// rather than from a strategy.
func (r Reason) Precondition() bool {
	return r == ReasonNotChat || r == ReasonNoView || r == ReasonButton
}

// Result is a verdict with its reason.
type Result struct {
	Verdict Verdict
	Reason  Reason
}

// Confirmed reports whether the result is a confirmed double-click.
func (r Result) Confirmed() bool {
	return r.Verdict == Confirmed
}

// String returns "confirmed" or "rejected (reason)".
func (r Result) String() string {
	if r.Confirmed() {
		return r.Verdict.String()
	}
	return r.Verdict.String() + " (" + r.Reason.String() + ")"
}

func confirm() Result {
	return Result{Verdict: Confirmed}
}

func reject(reason Reason) Result {
	return Result{Verdict: Rejected, Reason: reason}
}
