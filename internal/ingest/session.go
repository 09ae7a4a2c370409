// Package ingest runs one full ingestion pass: every configured benchmark
// source is loaded concurrently and folded into a fresh registry.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/benchmatrix/internal/adapters/mq/queue"
	"github.com/okian/benchmatrix/internal/adapters/mq/worker"
	"github.com/okian/benchmatrix/internal/adapters/repository"
	"github.com/okian/benchmatrix/internal/domain/admission"
	"github.com/okian/benchmatrix/internal/domain/identity"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/pkg/logger"
	"github.com/okian/benchmatrix/pkg/metrics"
)

const (
	defaultWorkerCount = 4
	defaultQueueSize   = 16
)

// Loader fetches the rows of one benchmark source.
type Loader interface {
	Load(ctx context.Context, src model.BenchmarkSource) ([]model.RawScoreRow, error)
}

// Session owns the registry and admission counters of a single pass. It is
// built fresh for every pass and can run only once.
type Session struct {
	id      string
	loader  Loader
	sources []model.BenchmarkSource

	families    []admission.Family
	workerCount int
	queueSize   int
	shardCount  int
	log         logger.Logger

	filter *admission.Filter
	store  *repository.Registry

	mu    sync.Mutex
	spent bool
}

// NewSession validates the admission table and prepares an empty registry.
func NewSession(loader Loader, sources []model.BenchmarkSource, opts ...Option) (*Session, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	s := &Session{
		id:          uuid.NewString(),
		loader:      loader,
		sources:     sources,
		families:    admission.DefaultFamilies(),
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("ingest")
	}

	filter, err := admission.New(s.families)
	if err != nil {
		return nil, fmt.Errorf("admission table: %w", err)
	}
	s.filter = filter
	s.store = repository.NewRegistry(repository.WithShardCount(s.shardCount))
	return s, nil
}

// Snapshot copies the registry as it stands.
func (s *Session) Snapshot(ctx context.Context) *repository.Snapshot { return s.store.Snapshot(ctx) }

// ID returns the pass identifier.
func (s *Session) ID() string { return s.id }

// Run loads every source, folds the admitted rows and returns the snapshot
// taken after all workers have joined. A pass whose context is done by then
// returns a nil snapshot and an error wrapping ctx.Err(). When no source
// succeeds the snapshot is nil and the error wraps ErrNoSourcesSucceeded.
func (s *Session) Run(ctx context.Context) (*repository.Snapshot, Report, error) {
	s.mu.Lock()
	if s.spent {
		s.mu.Unlock()
		return nil, Report{}, ErrSessionSpent
	}
	s.spent = true
	s.mu.Unlock()

	report := Report{PassID: s.id, Started: time.Now()}
	s.filter.Reset(ctx)
	for _, src := range s.sources {
		s.store.DeclareBenchmark(ctx, src.ID, src.Name)
	}

	reports := make([]SourceReport, len(s.sources))
	for i, src := range s.sources {
		reports[i] = SourceReport{ID: src.ID, Name: src.Name, File: src.File, Err: errNotRun}
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	pool := worker.NewPool(s.workerCount, q, worker.HandlerFunc(func(ctx context.Context, j worker.Job) error {
		rep := s.ingest(ctx, j.Source)
		reports[j.Seq] = rep
		return rep.Err
	}))
	pool.Start(ctx)

	for i, src := range s.sources {
		if err := q.Enqueue(ctx, queue.Job{Seq: i, Source: src}); err != nil {
			s.log.Warn(ctx, "dispatch stopped", logger.String("benchmark", src.ID), logger.Error(err))
			break
		}
	}
	_ = q.Close()
	pool.Wait()

	for i := range reports {
		if errors.Is(reports[i].Err, errNotRun) && ctx.Err() != nil {
			reports[i].Err = ctx.Err()
		}
		if reports[i].Err != nil {
			reports[i].Error = reports[i].Err.Error()
		}
	}
	report.Sources = reports
	report.Families = s.filter.Counters()
	report.Finished = time.Now()
	metrics.RecordPass(report.Status(), float64(report.Duration().Milliseconds()))

	if err := ctx.Err(); err != nil {
		s.log.Warn(ctx, "ingestion pass cancelled", logger.String("pass", s.id), logger.Error(err))
		return nil, report, fmt.Errorf("pass %s: %w", s.id, err)
	}
	if report.Succeeded() == 0 {
		s.log.Error(ctx, "ingestion pass failed", logger.String("pass", s.id))
		return nil, report, fmt.Errorf("pass %s: %w", s.id, ErrNoSourcesSucceeded)
	}

	snap := s.store.Snapshot(ctx)
	models, benchmarks, entries := snap.Size()
	s.log.Info(ctx, "ingestion pass finished",
		logger.String("pass", s.id),
		logger.String("status", report.Status()),
		logger.Int("models", models),
		logger.Int("benchmarks", benchmarks),
		logger.Int("entries", entries),
		logger.Duration("took", report.Duration()),
	)
	return snap, report, nil
}

var errNotRun = errors.New("source not processed")

func (s *Session) ingest(ctx context.Context, src model.BenchmarkSource) SourceReport {
	start := time.Now()
	defer func() {
		metrics.RecordSourceLoadLatency(src.ID, float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.loader.Load(ctx, src)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		metrics.RecordSourceFailure(src.ID)
		s.log.Warn(ctx, "source failed", logger.String("benchmark", src.ID), logger.Error(err))
		return SourceReport{ID: src.ID, Name: src.Name, File: src.File, Err: err, Duration: time.Since(start)}
	}

	rep := s.Fold(ctx, src, rows)
	rep.Duration = time.Since(start)
	if rep.Err != nil {
		metrics.RecordSourceFailure(src.ID)
	}
	return rep
}

// Fold folds one benchmark's rows into the session registry. Rows with an
// invalid score are dropped before admission so they neither consume an
// admission slot nor create a model. Admitted rows are staged and committed
// together; a fold that fails leaves no rows behind.
func (s *Session) Fold(ctx context.Context, src model.BenchmarkSource, rows []model.RawScoreRow) SourceReport {
	rep := SourceReport{ID: src.ID, Name: src.Name, File: src.File}
	staged := make([]repository.Observation, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		rep.Rows++

		if math.IsNaN(row.Score) {
			rep.Invalid++
			metrics.RecordRowInvalid(src.ID)
			continue
		}
		if ok, family := s.filter.Admit(ctx, row.Version); !ok {
			rep.Rejected++
			metrics.RecordRowRejected(family)
			continue
		}

		version := row.Version
		if !row.HasVersion {
			version = ""
		}
		staged = append(staged, repository.Observation{
			ModelID:      identity.CanonicalID(version),
			Name:         identity.DisplayName(version),
			Version:      version,
			Organization: row.Organization,
			Country:      row.Country,
			ReleaseDate:  row.ReleaseDate,
			Score:        row.Score,
		})
	}

	if err := s.store.RecordBatch(ctx, src.ID, staged); err != nil {
		rep.Err = fmt.Errorf("fold %s: %w", src.ID, err)
		return rep
	}
	rep.Admitted = len(staged)
	for range staged {
		metrics.RecordRowAdmitted(src.ID)
	}
	return rep
}
