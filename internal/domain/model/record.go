// Package model contains domain models passed between layers.
package model

import "sort"

// UnknownField is recorded for optional metadata columns that are absent or blank.
const UnknownField = "Unknown"

// RawScoreRow is one row read from a benchmark CSV. It never outlives a pass.
type RawScoreRow struct {
	Version      string  // free-text model version, e.g. "openai/gpt-5-preview-2025-01-01"
	HasVersion   bool    // false when the row had no model-version column or cell
	Organization string  // optional
	Country      string  // optional
	ReleaseDate  string  // optional, kept as written
	RawScore     string  // score cell as written
	Score        float64 // parsed score; NaN when RawScore is not numeric
}

// ModelRecord is the canonical entity for one model across all benchmarks.
type ModelRecord struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Version        string             `json:"version"`
	Organization   string             `json:"organization"`
	Country        string             `json:"country"`
	ReleaseDate    string             `json:"release_date"`
	Scores         map[string]float64 `json:"scores"`
	BenchmarkCount int                `json:"benchmark_count"`
}

// SetScore stores score for benchmarkID, overwriting an earlier value.
// BenchmarkCount only grows the first time benchmarkID is filled.
// It reports whether the slot was new.
func (m *ModelRecord) SetScore(benchmarkID string, score float64) bool {
	if m.Scores == nil {
		m.Scores = make(map[string]float64)
	}
	_, exists := m.Scores[benchmarkID]
	if !exists {
		m.BenchmarkCount++
	}
	m.Scores[benchmarkID] = score
	return !exists
}

// BenchmarkIDs returns the benchmarks this model has a score for, sorted.
func (m *ModelRecord) BenchmarkIDs() []string {
	ids := make([]string, 0, len(m.Scores))
	for id := range m.Scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy.
func (m *ModelRecord) Clone() *ModelRecord {
	c := *m
	c.Scores = make(map[string]float64, len(m.Scores))
	for k, v := range m.Scores {
		c.Scores[k] = v
	}
	return &c
}

// ScoreEntry is one (model, score) pair recorded for a benchmark.
type ScoreEntry struct {
	ModelID string  `json:"model_id"`
	Score   float64 `json:"score"`
}

// BenchmarkRecord indexes every admitted row of one benchmark in arrival order.
// Duplicates are allowed here; reconciliation happens on ModelRecord.
type BenchmarkRecord struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Scores []ScoreEntry `json:"scores"`
}

// Clone returns a deep copy.
func (b *BenchmarkRecord) Clone() *BenchmarkRecord {
	c := *b
	c.Scores = append([]ScoreEntry(nil), b.Scores...)
	return &c
}

// BenchmarkSource describes one benchmark CSV and how to read it.
type BenchmarkSource struct {
	File     string // path relative to the data dir, absolute path, or http(s) URL
	ID       string
	Name     string
	ScoreKey string
	// ModelFields lists accepted model-version column names in priority order.
	ModelFields []string
}

// SourceJob asks a worker to ingest one benchmark source.
type SourceJob struct {
	Seq    int // position of the source in the configured order
	Source BenchmarkSource
}
