package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/benchmatrix/internal/adapters/repository"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/scoring"
)

// DefaultBarModels caps how many bars one chart shows.
const DefaultBarModels = 20

// SortOrder orders bar chart rows.
type SortOrder string

// Supported sort orders.
const (
	SortScoreDesc SortOrder = "score-desc"
	SortScoreAsc  SortOrder = "score-asc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// ParseSortOrder validates s; an empty string means SortScoreDesc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortScoreDesc, nil
	case SortScoreDesc, SortScoreAsc, SortNameAsc, SortNameDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownSort)
	}
}

// BarRow is one bar.
type BarRow struct {
	ModelID      string  `json:"model_id" yaml:"model_id"`
	ModelName    string  `json:"model_name" yaml:"model_name"`
	Organization string  `json:"organization" yaml:"organization"`
	Score        float64 `json:"score" yaml:"score"`
	Normalized   float64 `json:"normalized" yaml:"normalized"`
}

// BarChart is one benchmark's bars plus the stats of the shown rows.
type BarChart struct {
	BenchmarkID string        `json:"benchmark_id" yaml:"benchmark_id"`
	Name        string        `json:"name" yaml:"name"`
	Order       SortOrder     `json:"order" yaml:"order"`
	Rows        []BarRow      `json:"rows" yaml:"rows"`
	Stats       scoring.Stats `json:"stats" yaml:"stats"`
}

// BenchmarkOption is one entry of the benchmark picker. Entries counts rows,
// so a model listed twice counts twice.
type BenchmarkOption struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Entries int    `json:"entries" yaml:"entries"`
}

// Bar builds bar chart data from a snapshot.
type Bar struct {
	snap    *repository.Snapshot
	norm    *scoring.Normalizer
	maxRows int
}

// NewBar creates a bar adapter. A non-positive maxRows uses DefaultBarModels.
func NewBar(snap *repository.Snapshot, norm *scoring.Normalizer, maxRows int) *Bar {
	if maxRows <= 0 {
		maxRows = DefaultBarModels
	}
	return &Bar{snap: snap, norm: norm, maxRows: maxRows}
}

// Chart returns the rows of one benchmark. Each model appears once with its
// reconciled score. limit 0 means the adapter's maximum; larger limits are capped.
func (b *Bar) Chart(benchmarkID string, order SortOrder, limit int) (BarChart, error) {
	if limit < 0 {
		return BarChart{}, fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}
	if limit == 0 || limit > b.maxRows {
		limit = b.maxRows
	}
	if order == "" {
		order = SortScoreDesc
	}
	bench, err := b.snap.Benchmark(benchmarkID)
	if err != nil {
		return BarChart{}, err
	}

	seen := make(map[string]bool, len(bench.Scores))
	rows := make([]BarRow, 0, len(bench.Scores))
	for _, e := range bench.Scores {
		if seen[e.ModelID] {
			continue
		}
		seen[e.ModelID] = true
		row := BarRow{ModelID: e.ModelID, ModelName: e.ModelID, Organization: model.UnknownField, Score: e.Score}
		if m, ok := b.snap.Models[e.ModelID]; ok {
			row.ModelName = m.Name
			row.Organization = m.Organization
			if s, ok := m.Scores[benchmarkID]; ok {
				row.Score = s
			}
		}
		row.Normalized = b.norm.Normalize(benchmarkID, row.Score)
		rows = append(rows, row)
	}

	if err := sortRows(rows, order); err != nil {
		return BarChart{}, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	return BarChart{
		BenchmarkID: bench.ID,
		Name:        bench.Name,
		Order:       order,
		Rows:        rows,
		Stats:       scoring.Describe(scores),
	}, nil
}

func sortRows(rows []BarRow, order SortOrder) error {
	byName := func(i, j int) int {
		a, b := strings.ToLower(rows[i].ModelName), strings.ToLower(rows[j].ModelName)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return strings.Compare(rows[i].ModelID, rows[j].ModelID)
	}

	var less func(i, j int) bool
	switch order {
	case SortScoreDesc:
		less = func(i, j int) bool {
			if rows[i].Score != rows[j].Score {
				return rows[i].Score > rows[j].Score
			}
			return byName(i, j) < 0
		}
	case SortScoreAsc:
		less = func(i, j int) bool {
			if rows[i].Score != rows[j].Score {
				return rows[i].Score < rows[j].Score
			}
			return byName(i, j) < 0
		}
	case SortNameAsc:
		less = func(i, j int) bool { return byName(i, j) < 0 }
	case SortNameDesc:
		less = func(i, j int) bool { return byName(i, j) > 0 }
	default:
		return fmt.Errorf("%q: %w", order, ErrUnknownSort)
	}
	sort.SliceStable(rows, less)
	return nil
}

// Benchmarks lists benchmarks that have at least one row, sorted by name.
func (b *Bar) Benchmarks() []BenchmarkOption {
	out := make([]BenchmarkOption, 0, len(b.snap.Benchmarks))
	for _, bench := range b.snap.Benchmarks {
		if len(bench.Scores) == 0 {
			continue
		}
		out = append(out, BenchmarkOption{ID: bench.ID, Name: bench.Name, Entries: len(bench.Scores)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
