// Package service owns the current registry snapshot, runs full reload
// passes and serves chart views to the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/benchmatrix/internal/adapters/repository"
	"github.com/okian/benchmatrix/internal/domain/admission"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/scoring"
	"github.com/okian/benchmatrix/internal/domain/views"
	"github.com/okian/benchmatrix/internal/ingest"
	"github.com/okian/benchmatrix/pkg/logger"
	"github.com/okian/benchmatrix/pkg/metrics"
)

// ModelDetail is a model record plus its score summary.
type ModelDetail struct {
	Model   *model.ModelRecord `json:"model" yaml:"model"`
	Summary scoring.Summary    `json:"summary" yaml:"summary"`
}

// Service implements the API dependencies for the benchmark views.
type Service struct {
	// mu guards the published snapshot and report. Reloads build a new
	// snapshot without it and swap under the write lock.
	mu       sync.RWMutex
	snapshot *repository.Snapshot
	report   *ingest.Report
	reloads  int

	// reloadMu allows one pass at a time.
	reloadMu sync.Mutex

	loader     ingest.Loader
	sources    []model.BenchmarkSource
	families   []admission.Family
	normalizer *scoring.Normalizer

	workerCount     int
	queueSize       int
	shardCount      int
	topModels       int
	barMaxModels    int
	refreshInterval time.Duration

	lifeMu  sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		families:     admission.DefaultFamilies(),
		normalizer:   scoring.New(),
		workerCount:  4,
		queueSize:    16,
		shardCount:   32,
		topModels:    views.DefaultTopModels,
		barMaxModels: views.DefaultBarModels,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Start runs the first pass and, when a refresh interval is set, keeps
// reloading in the background until Stop or ctx is done. A failed first pass
// is returned but the service stays usable; a later reload may succeed.
func (s *Service) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	if s.started {
		s.lifeMu.Unlock()
		return nil
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.lifeMu.Unlock()

	s.logger.Info(ctx, "starting benchmark service",
		logger.Int("sources", len(s.sources)),
		logger.Int("workers", s.workerCount),
		logger.Duration("refresh", s.refreshInterval),
	)

	_, err := s.Reload(ctx)

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx, s.stopCh)
	}
	return err
}

func (s *Service) refreshLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				s.logger.Warn(ctx, "scheduled reload failed", logger.Error(err))
			}
		}
	}
}

// Stop ends the refresh loop. The last snapshot stays readable.
func (s *Service) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if !s.started {
		return
	}
	close(s.stopCh)
	s.wg.Wait()
	s.started = false
	s.logger.Info(context.Background(), "benchmark service stopped")
}

// Reload runs one full ingestion pass in a fresh session and publishes its
// snapshot. When no source succeeds the previous snapshot is kept.
func (s *Service) Reload(ctx context.Context) (ingest.Report, error) {
	if s.loader == nil || len(s.sources) == 0 {
		return ingest.Report{}, ErrNotConfigured
	}
	if !s.reloadMu.TryLock() {
		return ingest.Report{}, ErrReloadRunning
	}
	defer s.reloadMu.Unlock()

	session, err := ingest.NewSession(s.loader, s.sources,
		ingest.WithFamilies(s.families),
		ingest.WithWorkerCount(s.workerCount),
		ingest.WithQueueSize(s.queueSize),
		ingest.WithShardCount(s.shardCount),
	)
	if err != nil {
		return ingest.Report{}, fmt.Errorf("new session: %w", err)
	}

	snap, report, err := session.Run(ctx)

	s.mu.Lock()
	s.report = &report
	if err == nil {
		s.snapshot = snap
		s.reloads++
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordErrorByComponent("service", "reload_failed")
		return report, err
	}
	metrics.UpdateRegistrySize(snap.Size())
	return report, nil
}

// Snapshot returns the published snapshot or ErrNoSnapshot.
func (s *Service) Snapshot() (*repository.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return s.snapshot, nil
}

// LastReport returns the report of the most recent pass, successful or not.
func (s *Service) LastReport() (ingest.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return ingest.Report{}, false
	}
	return *s.report, true
}

// Normalizer returns the score normalizer shared by every view.
func (s *Service) Normalizer() *scoring.Normalizer { return s.normalizer }

// Models lists up to limit models sorted by ID; 0 lists all.
func (s *Service) Models(_ context.Context, limit int) ([]*model.ModelRecord, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.ListModels(limit)
}

// Model returns one model with its score summary.
func (s *Service) Model(_ context.Context, id string) (ModelDetail, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return ModelDetail{}, err
	}
	m, err := snap.Model(id)
	if err != nil {
		return ModelDetail{}, err
	}
	return ModelDetail{Model: m, Summary: s.normalizer.Summarize(m.Scores)}, nil
}

// Polar returns the polar chart of one model.
func (s *Service) Polar(_ context.Context, id string) (views.PolarChart, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return views.PolarChart{}, err
	}
	return views.NewPolar(snap, s.normalizer).Chart(id)
}

// TopModels returns the polar model picker; n <= 0 uses the configured size.
func (s *Service) TopModels(_ context.Context, n int) ([]views.ModelOption, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.topModels
	}
	return views.NewPolar(snap, s.normalizer).TopModels(n), nil
}

// Benchmarks returns the bar chart benchmark picker.
func (s *Service) Benchmarks(_ context.Context) ([]views.BenchmarkOption, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return views.NewBar(snap, s.normalizer, s.barMaxModels).Benchmarks(), nil
}

// Bar returns the bar chart of one benchmark.
func (s *Service) Bar(_ context.Context, id string, order views.SortOrder, limit int) (views.BarChart, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return views.BarChart{}, err
	}
	return views.NewBar(snap, s.normalizer, s.barMaxModels).Chart(id, order, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"sources":     len(s.sources),
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"reloads":     s.reloads,
		"loaded":      s.snapshot != nil,
	}
	if s.snapshot != nil {
		models, benchmarks, entries := s.snapshot.Size()
		stats["models"] = models
		stats["benchmarks"] = benchmarks
		stats["entries"] = entries
	}
	if s.report != nil {
		stats["lastPassID"] = s.report.PassID
		stats["lastPassStatus"] = s.report.Status()
		stats["lastPassFinished"] = s.report.Finished
		stats["lastPassSucceeded"] = s.report.Succeeded()
	}
	return stats
}
