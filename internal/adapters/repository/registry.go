package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/okian/benchmatrix/internal/domain/model"
)

// shard guards a subset of models. A model's read-modify-write always runs
// under its shard's lock, so concurrent sources never lose a count.
type shard struct {
	mu     sync.Mutex
	models map[string]*model.ModelRecord
}

// Registry is a sharded in-memory Store. The benchmark index has its own lock
// and is never held together with a shard lock.
type Registry struct {
	shardCount int
	shards     []*shard

	benchMu    sync.Mutex
	benchmarks map[string]*model.BenchmarkRecord
	order      []string
}

// NewRegistry constructs an empty registry with configuration options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		shardCount: defaultShardCount,
		benchmarks: make(map[string]*model.BenchmarkRecord),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.shards = make([]*shard, r.shardCount)
	for i := range r.shards {
		r.shards[i] = &shard{models: make(map[string]*model.ModelRecord)}
	}

	return r
}

func (r *Registry) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return r.shards[h.Sum32()%uint32(len(r.shards))] //nolint:gosec // shard count is small and positive
}

// DeclareBenchmark implements Store.
func (r *Registry) DeclareBenchmark(_ context.Context, id, name string) {
	r.benchMu.Lock()
	defer r.benchMu.Unlock()
	r.declareLocked(id, name)
}

func (r *Registry) declareLocked(id, name string) *model.BenchmarkRecord {
	b, ok := r.benchmarks[id]
	if !ok {
		if name == "" {
			name = id
		}
		b = &model.BenchmarkRecord{ID: id, Name: name}
		r.benchmarks[id] = b
		r.order = append(r.order, id)
	} else if name != "" {
		b.Name = name
	}
	return b
}

// Record implements Store.
func (r *Registry) Record(ctx context.Context, benchmarkID string, obs Observation) (created, newSlot bool, err error) {
	if obs.ModelID == "" {
		return false, false, ErrEmptyModelID
	}
	if err := ctx.Err(); err != nil {
		return false, false, err
	}
	created, newSlot = r.apply(benchmarkID, obs)
	return created, newSlot, nil
}

// RecordBatch implements Store. Validation and the context check happen
// before the first write, so a failed batch leaves the registry untouched.
func (r *Registry) RecordBatch(ctx context.Context, benchmarkID string, batch []Observation) error {
	for i := range batch {
		if batch[i].ModelID == "" {
			return fmt.Errorf("observation %d: %w", i, ErrEmptyModelID)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range batch {
		r.apply(benchmarkID, batch[i])
	}
	return nil
}

func (r *Registry) apply(benchmarkID string, obs Observation) (created, newSlot bool) {
	s := r.shardFor(obs.ModelID)
	s.mu.Lock()
	rec, ok := s.models[obs.ModelID]
	if !ok {
		rec = &model.ModelRecord{
			ID:           obs.ModelID,
			Name:         obs.Name,
			Version:      obs.Version,
			Organization: orUnknown(obs.Organization),
			Country:      orUnknown(obs.Country),
			ReleaseDate:  orUnknown(obs.ReleaseDate),
		}
		s.models[obs.ModelID] = rec
		created = true
	}
	newSlot = rec.SetScore(benchmarkID, obs.Score)
	s.mu.Unlock()

	r.benchMu.Lock()
	b := r.declareLocked(benchmarkID, "")
	b.Scores = append(b.Scores, model.ScoreEntry{ModelID: obs.ModelID, Score: obs.Score})
	r.benchMu.Unlock()

	return created, newSlot
}

func orUnknown(s string) string {
	if s == "" {
		return model.UnknownField
	}
	return s
}

// Snapshot implements Store.
func (r *Registry) Snapshot(_ context.Context) *Snapshot {
	snap := &Snapshot{
		Models:     make(map[string]*model.ModelRecord),
		Benchmarks: make(map[string]*model.BenchmarkRecord),
	}

	for _, s := range r.shards {
		s.mu.Lock()
		for id, rec := range s.models {
			snap.Models[id] = rec.Clone()
		}
		s.mu.Unlock()
	}

	r.benchMu.Lock()
	for id, b := range r.benchmarks {
		snap.Benchmarks[id] = b.Clone()
	}
	snap.Order = append([]string(nil), r.order...)
	r.benchMu.Unlock()

	return snap
}
