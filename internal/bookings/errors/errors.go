package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrLockHeld = errors.New("booking slot lock is held")

	// ErrLockLost means the lock expired and now belongs to someone else.
	ErrLockLost = errors.New("booking slot lock no longer owned")

	// ErrStatusChanged means a conditional status update matched nothing
	// because another request changed the booking first.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
