package click

import "context"

// Strategy classifies a press that passed the preconditions.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Classify decides whether n completes a double-click.
	Classify(ctx context.Context, n Notification) Result
}

// Disambiguator applies the preconditions and delegates to a Strategy.
type Disambiguator struct {
	strategy Strategy
}

// New creates a disambiguator that uses strategy for qualifying presses.
func New(strategy Strategy) *Disambiguator {
	return &Disambiguator{strategy: strategy}
}

// Strategy returns the strategy in use.
func (d *Disambiguator) Strategy() Strategy {
	return d.strategy
}

// Classify checks, in order, that the press is in a chat, that the chat has
// a view, and that the primary button was used. Failed preconditions reject
// without touching strategy state.
func (d *Disambiguator) Classify(ctx context.Context, n Notification) Result {
	switch {
	case !n.ConversationIsChat:
		return reject(ReasonNotChat)
	case !n.ConversationIsVisible:
		return reject(ReasonNoView)
	case n.Button != PrimaryButton:
		return reject(ReasonButton)
	}
	return d.strategy.Classify(ctx, n)
}
