package source

import "errors"

// Sentinel kinds for source loading errors.
var (
	ErrFetchFailed   = errors.New("source fetch failed")
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptySource   = errors.New("source has no header")
)
