package studyset

import "errors"

var (
	// ErrMissingProfile is returned when a study set is requested for a user
	// without a profile. Nothing is computed or stored.
	ErrMissingProfile = errors.New("user profile is not set; complete your profile before generating a study set")

	// ErrNoRootMatch is returned when no standalone item has a matching root.
	ErrNoRootMatch = errors.New("no items matched the given root")

	// ErrEmptyRoot is returned for a blank root search.
	ErrEmptyRoot = errors.New("root must not be empty")
)
