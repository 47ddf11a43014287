package spacedrep

import "errors"

var (
	// ErrInvalidRating is returned for ratings outside 1..4. Nothing is
	// changed when it is returned.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrStateCorruption means a persisted memory state or review log could
	// not be trusted. The record must not be reset to recover from it.
	ErrStateCorruption = errors.New("memory state corrupted")

	// ErrRecordNotFound is returned when rating an item the user never
	// answered.
	ErrRecordNotFound = errors.New("no answer submitted for this item")

	// ErrConflict is returned by Repo.Save when the record changed since it
	// was loaded.
	ErrConflict = errors.New("review record changed concurrently")
)
