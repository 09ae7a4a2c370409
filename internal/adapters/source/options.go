package source

import (
	"net/http"
	"time"

	"github.com/okian/benchmatrix/pkg/logger"
)

const defaultFetchTimeout = 10 * time.Second

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDataDir sets the directory relative source paths are resolved against.
func WithDataDir(dir string) Option {
	return func(l *Loader) {
		l.dataDir = dir
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithFetchTimeout bounds a single http(s) fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
