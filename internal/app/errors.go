package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoSnapshot    = errors.New("no snapshot loaded yet")
	ErrReloadRunning = errors.New("reload already running")
	ErrNotConfigured = errors.New("service has no loader or sources")
)
