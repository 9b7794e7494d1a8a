// Package engine runs the per-turn simulation cycle: trade and price
// formation, macro feedback, trust, stochastic events, and the turn
// orchestration that ties them together. ApplyTurn is a pure transform over
// an explicit world snapshot with no hidden I/O and no ambient state.
package engine

import "errors"

// Engine error taxonomy. Every public entry point returns either a success
// state or one of these wrapped errors with the prior state left
// authoritative; nothing here ever panics through to the caller.
var (
	// ErrInvalidPolicy marks an out-of-range player or agent submission,
	// rejected before any state mutation.
	ErrInvalidPolicy = errors.New("invalid policy input")

	// ErrUnknownEntity marks a reference to a country or alliance that does
	// not exist.
	ErrUnknownEntity = errors.New("unknown entity reference")

	// ErrInconsistentState marks a post-turn invariant failure. The turn is
	// not committed.
	ErrInconsistentState = errors.New("inconsistent world state")
)
