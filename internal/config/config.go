// Package config defines service configuration structures and loading hooks.
//
// Values are layered: defaults from New, then an optional YAML file, then
// BENCHMATRIX_* environment variables.
package config

import (
	"context"
	"runtime"

	"github.com/okian/benchmatrix/internal/domain/admission"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/scoring"
)

// Source configures one benchmark CSV.
type Source struct {
	// File is relative to DataDir, absolute, or an http(s) URL.
	File string `koanf:"file" yaml:"file"`
	ID   string `koanf:"id" yaml:"id"`
	Name string `koanf:"name" yaml:"name"`
	// ScoreKey names the score column.
	ScoreKey string `koanf:"score_key" yaml:"score_key"`
	// ModelFields lists model-version column aliases in priority order.
	// Empty means the loader defaults.
	ModelFields []string `koanf:"model_fields" yaml:"model_fields,omitempty"`
}

// Benchmark converts s to the domain type.
func (s Source) Benchmark() model.BenchmarkSource {
	return model.BenchmarkSource{
		File:        s.File,
		ID:          s.ID,
		Name:        s.Name,
		ScoreKey:    s.ScoreKey,
		ModelFields: append([]string(nil), s.ModelFields...),
	}
}

// Admission holds the admission filter table.
type Admission struct {
	Families []admission.Family `koanf:"families" yaml:"families"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" yaml:"addr"`

	// DataDir is where relative source files are looked up.
	DataDir string `koanf:"data_dir" yaml:"data_dir"`

	// WorkerCount sets how many sources are ingested concurrently.
	WorkerCount int `koanf:"worker_count" yaml:"worker_count"`

	// QueueSize bounds the ingestion job queue.
	QueueSize int `koanf:"queue_size" yaml:"queue_size"`

	// ShardCount configures the number of model lock shards in the registry.
	ShardCount int `koanf:"shard_count" yaml:"shard_count"`

	// FetchTimeoutMS bounds a single http(s) source fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms" yaml:"fetch_timeout_ms"`

	// TopModels sizes the polar model picker.
	TopModels int `koanf:"top_models" yaml:"top_models"`

	// BarMaxModels caps the rows of one bar chart.
	BarMaxModels int `koanf:"bar_max_models" yaml:"bar_max_models"`

	// MaxModelsLimit caps GET /models?limit.
	MaxModelsLimit int `koanf:"max_models_limit" yaml:"max_models_limit"`

	// ExportPath is the default SQLite file for the export command.
	ExportPath string `koanf:"export_path" yaml:"export_path"`

	// Divisors maps benchmark IDs to score divisors; "default" covers the rest.
	Divisors map[string]float64 `koanf:"divisors" yaml:"divisors"`

	Sources   []Source  `koanf:"sources" yaml:"sources"`
	Admission Admission `koanf:"admission" yaml:"admission"`
}

// DefaultSources returns the stock benchmark table.
func DefaultSources() []Source {
	return []Source{
		{File: "chess_puzzles.csv", ID: "chess", Name: "Chess Puzzles", ScoreKey: "mean_score"},
		{File: "frontiermath.csv", ID: "frontiermath", Name: "FrontierMath", ScoreKey: "mean_score"},
		{File: "frontiermath_tier_4.csv", ID: "frontiermath_t4", Name: "FrontMath Tier4", ScoreKey: "mean_score"},
		{File: "gpqa_diamond.csv", ID: "gpqa", Name: "GPQA Diamond", ScoreKey: "mean_score"},
		{File: "math_level_5.csv", ID: "math5", Name: "Math Level 5", ScoreKey: "mean_score"},
		{File: "otis_mock_aime_2024_2025.csv", ID: "otis", Name: "OTIS AIME", ScoreKey: "mean_score"},
		{File: "simpleqa_verified.csv", ID: "simpleqa", Name: "SimpleQA", ScoreKey: "mean_score"},
		{File: "swe_bench_verified.csv", ID: "swe", Name: "SWE Bench", ScoreKey: "mean_score"},
		{File: "metr_time_horizons_external.csv", ID: "metr", Name: "METR Time", ScoreKey: "average_score"},
		{File: "epoch_capabilities_index.csv", ID: "eci", Name: "ECI Score", ScoreKey: "ECI Score"},
	}
}

// New creates a Config with defaults. The context is reserved for loaders
// that need one.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		DataDir:        "data/benchmark_data",
		WorkerCount:    runtime.NumCPU(),
		QueueSize:      16,
		ShardCount:     32,
		FetchTimeoutMS: 10_000,
		TopModels:      20,
		BarMaxModels:   20,
		MaxModelsLimit: 500,
		ExportPath:     "benchmatrix.db",
		Divisors:       scoring.DefaultDivisors(),
		Sources:        DefaultSources(),
		Admission:      Admission{Families: admission.DefaultFamilies()},
	}
}

// Benchmarks returns the configured sources as domain values, in order.
func (c *Config) Benchmarks() []model.BenchmarkSource {
	out := make([]model.BenchmarkSource, len(c.Sources))
	for i, s := range c.Sources {
		out[i] = s.Benchmark()
	}
	return out
}
