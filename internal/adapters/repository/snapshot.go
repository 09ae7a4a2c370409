package repository

import (
	"fmt"
	"sort"

	"github.com/okian/benchmatrix/internal/domain/model"
)

// Snapshot is a read-only copy of a registry taken after the join point.
// Callers must not mutate the records it hands out.
type Snapshot struct {
	Models     map[string]*model.ModelRecord
	Benchmarks map[string]*model.BenchmarkRecord
	// Order lists benchmark IDs in declaration order.
	Order []string
}

// Model returns the record for id or ErrNotFound.
func (s *Snapshot) Model(id string) (*model.ModelRecord, error) {
	m, ok := s.Models[id]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", id, ErrNotFound)
	}
	return m, nil
}

// Benchmark returns the record for id or ErrNotFound.
func (s *Snapshot) Benchmark(id string) (*model.BenchmarkRecord, error) {
	b, ok := s.Benchmarks[id]
	if !ok {
		return nil, fmt.Errorf("benchmark %q: %w", id, ErrNotFound)
	}
	return b, nil
}

// OrderedBenchmarks returns benchmark records in declaration order.
func (s *Snapshot) OrderedBenchmarks() []*model.BenchmarkRecord {
	out := make([]*model.BenchmarkRecord, 0, len(s.Order))
	for _, id := range s.Order {
		if b, ok := s.Benchmarks[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// ModelIDs returns all model IDs sorted ascending.
func (s *Snapshot) ModelIDs() []string {
	ids := make([]string, 0, len(s.Models))
	for id := range s.Models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ListModels returns up to limit models sorted by ID. A limit of 0 returns all.
func (s *Snapshot) ListModels(limit int) ([]*model.ModelRecord, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}
	ids := s.ModelIDs()
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]*model.ModelRecord, len(ids))
	for i, id := range ids {
		out[i] = s.Models[id]
	}
	return out, nil
}

// Size returns the number of models, benchmarks and benchmark score entries.
func (s *Snapshot) Size() (models, benchmarks, entries int) {
	for _, b := range s.Benchmarks {
		entries += len(b.Scores)
	}
	return len(s.Models), len(s.Benchmarks), entries
}
