package service

import (
	"time"

	"github.com/okian/benchmatrix/internal/domain/admission"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/scoring"
	"github.com/okian/benchmatrix/internal/ingest"
	"github.com/okian/benchmatrix/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the source loader.
func WithLoader(l ingest.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithSources sets the benchmark sources in display order.
func WithSources(sources []model.BenchmarkSource) Option {
	return func(s *Service) {
		s.sources = sources
	}
}

// WithFamilies sets the admission family table.
func WithFamilies(families []admission.Family) Option {
	return func(s *Service) {
		if families != nil {
			s.families = families
		}
	}
}

// WithNormalizer sets the score normalizer.
func WithNormalizer(n *scoring.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithWorkerCount sets the number of ingestion workers per pass.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the ingestion queue capacity per pass.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithShardCount sets the registry shard count per pass.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithTopModels sets the default size of the polar model picker.
func WithTopModels(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topModels = n
		}
	}
}

// WithBarMaxModels caps the rows of one bar chart.
func WithBarMaxModels(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.barMaxModels = n
		}
	}
}

// WithRefreshInterval makes Start reload on a fixed interval. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
