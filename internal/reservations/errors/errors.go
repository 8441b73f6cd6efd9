package errors

import "errors"

var (
	// ErrNotFound means no reservation exists with the given ID.
	ErrNotFound = errors.New("reservation not found")

	// ErrLockHeld means another request currently holds the advisory lock
	// for the same object.
	ErrLockHeld = errors.New("object lock already held")
)
