package ingest

import (
	"github.com/okian/benchmatrix/internal/domain/admission"
	"github.com/okian/benchmatrix/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithFamilies replaces the admission family table.
func WithFamilies(families []admission.Family) Option {
	return func(s *Session) {
		if families != nil {
			s.families = families
		}
	}
}

// WithWorkerCount sets how many sources are ingested at once.
func WithWorkerCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithShardCount sets the registry lock shard count.
func WithShardCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}
