// Package repository holds the in-memory model registry and benchmark index
// built by one ingestion pass, and the read-only snapshots taken from it.
package repository

import "context"

// Observation is one admitted score row, already keyed by canonical model ID.
type Observation struct {
	ModelID      string
	Name         string
	Version      string
	Organization string
	Country      string
	ReleaseDate  string
	Score        float64
}

// Store accepts admitted rows and produces snapshots.
type Store interface {
	// DeclareBenchmark registers a benchmark so it keeps its position in the
	// snapshot order even when no row is ever recorded for it.
	DeclareBenchmark(ctx context.Context, id, name string)

	// Record folds obs into the model registry and appends it to the
	// benchmark's score list. It reports whether the model was created and
	// whether the benchmark slot was new for that model.
	Record(ctx context.Context, benchmarkID string, obs Observation) (created, newSlot bool, err error)

	// RecordBatch records every observation or none of them.
	RecordBatch(ctx context.Context, benchmarkID string, batch []Observation) error

	// Snapshot returns a deep copy of the current state.
	Snapshot(ctx context.Context) *Snapshot
}
