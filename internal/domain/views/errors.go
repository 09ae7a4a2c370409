package views

import "errors"

// Sentinel kinds for view errors.
var (
	ErrUnknownSort  = errors.New("unknown sort order")
	ErrInvalidLimit = errors.New("invalid limit")
)
