package errors

import "errors"

var (
	ErrNotFound = errors.New("reservable object not found")

	ErrInvalidID = errors.New("invalid reservable object ID")
)
