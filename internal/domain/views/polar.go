// Package views turns a registry snapshot into chart-ready data for the
// polar (per model) and bar (per benchmark) charts.
package views

import (
	"fmt"
	"sort"

	"github.com/okian/benchmatrix/internal/adapters/repository"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/scoring"
)

// DefaultTopModels is the size of the polar model picker.
const DefaultTopModels = 20

// Coverage classes for a model's benchmark count.
const (
	CoverageComplete = "complete"
	CoveragePartial  = "partial"
	CoverageSparse   = "sparse"

	partialRatio = 0.7
)

// PolarPoint is one spoke of a model's polar chart.
type PolarPoint struct {
	BenchmarkID string  `json:"benchmark_id" yaml:"benchmark_id"`
	Label       string  `json:"label" yaml:"label"`
	Raw         float64 `json:"raw" yaml:"raw"`
	Normalized  float64 `json:"normalized" yaml:"normalized"`
}

// PolarChart is everything the polar chart and its info panel show for one model.
type PolarChart struct {
	Model    *model.ModelRecord `json:"model" yaml:"model"`
	Points   []PolarPoint       `json:"points" yaml:"points"`
	Summary  scoring.Summary    `json:"summary" yaml:"summary"`
	Total    int                `json:"total_benchmarks" yaml:"total_benchmarks"`
	Coverage string             `json:"coverage" yaml:"coverage"`
}

// ModelOption is one entry of the model picker.
type ModelOption struct {
	ID             string `json:"id" yaml:"id"`
	Label          string `json:"label" yaml:"label"`
	BenchmarkCount int    `json:"benchmark_count" yaml:"benchmark_count"`
}

// Polar builds polar chart data from a snapshot.
type Polar struct {
	snap *repository.Snapshot
	norm *scoring.Normalizer
}

// NewPolar creates a polar adapter.
func NewPolar(snap *repository.Snapshot, norm *scoring.Normalizer) *Polar {
	return &Polar{snap: snap, norm: norm}
}

// Chart returns one spoke per benchmark, in snapshot order, that the model has a score for.
func (p *Polar) Chart(modelID string) (PolarChart, error) {
	m, err := p.snap.Model(modelID)
	if err != nil {
		return PolarChart{}, err
	}

	points := make([]PolarPoint, 0, len(m.Scores))
	for _, b := range p.snap.OrderedBenchmarks() {
		raw, ok := m.Scores[b.ID]
		if !ok {
			continue
		}
		points = append(points, PolarPoint{
			BenchmarkID: b.ID,
			Label:       b.Name,
			Raw:         raw,
			Normalized:  p.norm.Normalize(b.ID, raw),
		})
	}

	total := len(p.snap.Order)
	return PolarChart{
		Model:    m,
		Points:   points,
		Summary:  p.norm.Summarize(m.Scores),
		Total:    total,
		Coverage: coverage(m.BenchmarkCount, total),
	}, nil
}

func coverage(count, total int) string {
	switch {
	case total > 0 && count >= total:
		return CoverageComplete
	case total > 0 && float64(count) >= partialRatio*float64(total):
		return CoveragePartial
	default:
		return CoverageSparse
	}
}

// TopModels returns the n models with the most benchmarks, ties broken by ID.
// A non-positive n uses DefaultTopModels.
func (p *Polar) TopModels(n int) []ModelOption {
	if n <= 0 {
		n = DefaultTopModels
	}
	models := make([]*model.ModelRecord, 0, len(p.snap.Models))
	for _, m := range p.snap.Models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].BenchmarkCount != models[j].BenchmarkCount {
			return models[i].BenchmarkCount > models[j].BenchmarkCount
		}
		return models[i].ID < models[j].ID
	})
	if len(models) > n {
		models = models[:n]
	}

	total := len(p.snap.Order)
	out := make([]ModelOption, len(models))
	for i, m := range models {
		out[i] = ModelOption{ID: m.ID, Label: Label(m, total), BenchmarkCount: m.BenchmarkCount}
	}
	return out
}

// Label formats a picker entry as "Name (Organization) [count/total]". The
// organization is left out when unknown and the count when complete.
func Label(m *model.ModelRecord, total int) string {
	label := m.Name
	if m.Organization != "" && m.Organization != model.UnknownField {
		label += " (" + m.Organization + ")"
	}
	if m.BenchmarkCount < total {
		label += fmt.Sprintf(" [%d/%d]", m.BenchmarkCount, total)
	}
	return label
}
