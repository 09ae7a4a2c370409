package admission

import "errors"

// Sentinel kinds for admission errors.
var (
	ErrInvalidFamily = errors.New("invalid admission family")
)
