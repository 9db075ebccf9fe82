// Package click decides whether a nickname press is a deliberate double-click.
//
// A Disambiguator checks the notification's preconditions (chat conversation,
// windowed view, primary button) and hands qualifying presses to a Strategy:
//
//   - Lookahead polls the host's raw event queue for a native double-press
//     that follows the press within a short window, and drains it so the
//     host does not act on it a second time.
//   - Pairing remembers an unmatched first press and confirms the second one
//     if it arrives within the double-click interval.
//
// Classification runs on the host's UI goroutine. Strategies are not safe for
// concurrent use.
package click
