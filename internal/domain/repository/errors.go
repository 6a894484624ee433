package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEvent is returned when an event already exists for the
	// same goal and period
	ErrDuplicateEvent = errors.New("event already recorded for period")

	// ErrStorageUnavailable is returned when the persistence layer cannot
	// be reached or written
	ErrStorageUnavailable = errors.New("storage unavailable")
)
