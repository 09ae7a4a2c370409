package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrEmptyModelID = errors.New("empty model id")
)
