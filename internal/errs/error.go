package errs

import (
	"errors"
)

var (
	// ErrNotFound - the addressed entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState - the loan is not in a state that allows the transition.
	ErrInvalidState = errors.New("invalid lifecycle state")
	// ErrCapacityExceeded - no available copies left to issue.
	ErrCapacityExceeded = errors.New("no available copies")
	// ErrConflict - unique constraint violated (duplicate isbn/email/order).
	ErrConflict = errors.New("already exists")
	// ErrForbidden - the caller may not act on this entity.
	ErrForbidden = errors.New("forbidden")
)
