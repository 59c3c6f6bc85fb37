package domain

import "errors"

// Error kinds shared by every service. Callers match with errors.Is and the
// HTTP layer maps each kind to a status code.
var (
	// ErrNotFound means a referenced book, user, loan, reservation or fine id
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means no free copy exists to borrow, or a book with free
	// copies was asked to be reserved.
	ErrUnavailable = errors.New("unavailable")

	// ErrConflict means a duplicate active loan/reservation, an ISBN or
	// username/email collision, or a copy-count change that would strand
	// borrowed copies.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState means the entity's current status forbids the operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument means malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrForbidden means the actor lacks rights over the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvariantViolation means an internal consistency breach, e.g. an
	// increment that would push available copies past the total. It must never
	// occur under correct locking and is never silently corrected.
	ErrInvariantViolation = errors.New("invariant violation")
)
