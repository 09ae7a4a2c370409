package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrNilSnapshot = errors.New("nil snapshot")
	ErrEmptyPath   = errors.New("empty database path")
)
