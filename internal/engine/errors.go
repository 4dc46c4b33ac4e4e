package engine

import "errors"

// Error taxonomy for engine operations. Callers classify with errors.Is;
// the HTTP layer maps each to a status code. Every failed operation aborts
// with no partial state change.
var (
	// ErrNotFound means the group, member, or payout entry is absent.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the caller lacks the role the action requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation means the input was malformed: non-positive amounts,
	// out-of-range slots, and the like.
	ErrValidation = errors.New("invalid input")

	// ErrConflict means the requested transition collides with existing
	// state: slot taken, duplicate contribution, already a member,
	// already paid.
	ErrConflict = errors.New("conflict")

	// ErrInvariant means the operation would break a cross-entity rule:
	// paying out an under-funded cycle, or mutating a completed group.
	// Always rejected, never coerced.
	ErrInvariant = errors.New("invariant violation")
)
