package click

import (
	"context"
	"time"
)

// DefaultDoubleClickInterval is used when the host cannot report its own.
const DefaultDoubleClickInterval = 400 * time.Millisecond

// Pairing confirms a press that follows an unmatched press within the
// threshold.
//
// After a late second press, that press becomes the new pending press, so
// the next press within the threshold completes a double-click.
type Pairing struct {
	threshold time.Duration
	now       func() time.Time

	pending time.Time
	armed   bool
}

// PairingOption configures a Pairing strategy.
type PairingOption func(*Pairing)

// WithClock overrides the time source used for presses without a timestamp.
func WithClock(now func() time.Time) PairingOption {
	return func(p *Pairing) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPairing creates a pairing strategy. A non-positive threshold selects
// DefaultDoubleClickInterval.
func NewPairing(threshold time.Duration, opts ...PairingOption) *Pairing {
	if threshold <= 0 {
		threshold = DefaultDoubleClickInterval
	}
	p := &Pairing{
		threshold: threshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Strategy.
func (p *Pairing) Name() string {
	return "pairing"
}

// Threshold returns the maximum interval between paired presses.
func (p *Pairing) Threshold() time.Duration {
	return p.threshold
}

// Classify implements Strategy.
func (p *Pairing) Classify(ctx context.Context, n Notification) Result {
	if ctx.Err() != nil {
		return reject(ReasonCancelled)
	}

	at := n.When
	if at.IsZero() {
		at = p.now()
	}

	if !p.armed {
		p.pending, p.armed = at, true
		return reject(ReasonFirstClick)
	}

	// A negative interval means the clock went backwards; treat it as late.
	elapsed := at.Sub(p.pending)
	if elapsed < 0 || elapsed > p.threshold {
		p.pending = at
		return reject(ReasonTimeout)
	}

	p.Reset()
	return confirm()
}

// Pending returns the time of the unmatched press, if any.
func (p *Pairing) Pending() (time.Time, bool) {
	return p.pending, p.armed
}

// Reset forgets any unmatched press.
func (p *Pairing) Reset() {
	p.pending, p.armed = time.Time{}, false
}
