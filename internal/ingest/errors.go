package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrNoSourcesSucceeded = errors.New("no benchmark source succeeded")
	ErrNoSources          = errors.New("no benchmark sources configured")
	ErrSessionSpent       = errors.New("session already ran")
)
