// Package errkind classifies domain errors so hosts can decide how to surface them
// (blocked affordance, silent fallback, rejected input) without matching on strings.
package errkind

import "errors"

// Kind is the category of a domain error.
type Kind string

const (
	// Unknown is returned by KindOf for errors not created through this package.
	Unknown Kind = ""
	// State marks a rejected transition (locked day, missing feedback, invalid phase move).
	State Kind = "state"
	// Data marks a missing or malformed persisted record.
	Data Kind = "data"
	// Generation marks a failed or timed-out content generation call.
	Generation Kind = "generation"
	// Moderation marks a rejected flag submission.
	Moderation Kind = "moderation"
	// NotFound marks a lookup for a record that does not exist.
	NotFound Kind = "not_found"
	// Conflict marks a create that would overwrite an existing record.
	Conflict Kind = "conflict"
)

// Error is a sentinel domain error with a kind. Compare with errors.Is against the package-level vars.
type Error struct {
	kind Kind
	msg  string
}

// New returns a sentinel error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Kind returns the error category.
func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
