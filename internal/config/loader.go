package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/benchmatrix/internal/domain/admission"
)

const (
	envPrefix = "BENCHMATRIX_"
	// EnvConfigPath names the variable holding the optional YAML file path.
	EnvConfigPath = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, the YAML file named by
// BENCHMATRIX_CONFIG (if set), and env vars.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, os.Getenv(EnvConfigPath))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML)
//  3. env (prefix BENCHMATRIX_)
func LoadFrom(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// BENCHMATRIX_QUEUE_SIZE -> queue_size. Underscores are kept to match the
	// flat koanf tags; nested keys are only settable from the file.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	conf := koanf.UnmarshalConf{Tag: "koanf"}
	if err := k.UnmarshalWithConf("", &cfg, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Lists from the file replace the defaults instead of merging element-wise.
	if k.Exists("sources") {
		var sources []Source
		if err := k.UnmarshalWithConf("sources", &sources, conf); err != nil {
			return nil, fmt.Errorf("%w: sources: %v", ErrLoadConfig, err)
		}
		cfg.Sources = sources
	}
	if k.Exists("admission.families") {
		var families []admission.Family
		if err := k.UnmarshalWithConf("admission.families", &families, conf); err != nil {
			return nil, fmt.Errorf("%w: admission.families: %v", ErrLoadConfig, err)
		}
		cfg.Admission.Families = families
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Addr == "" {
		return invalid("addr must not be empty")
	}
	if c.WorkerCount < 1 {
		return invalid("worker_count must be positive, got %d", c.WorkerCount)
	}
	if c.QueueSize < 1 {
		return invalid("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.ShardCount < 1 {
		return invalid("shard_count must be positive, got %d", c.ShardCount)
	}
	if c.FetchTimeoutMS < 1 {
		return invalid("fetch_timeout_ms must be positive, got %d", c.FetchTimeoutMS)
	}
	if c.TopModels < 1 || c.BarMaxModels < 1 || c.MaxModelsLimit < 1 {
		return invalid("top_models, bar_max_models and max_models_limit must be positive")
	}
	for id, d := range c.Divisors {
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return invalid("divisor for %q must be a positive number, got %v", id, d)
		}
	}

	if len(c.Sources) == 0 {
		return invalid("at least one source is required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		switch {
		case s.File == "":
			return invalid("sources[%d]: file must not be empty", i)
		case s.ID == "":
			return invalid("sources[%d]: id must not be empty", i)
		case s.ScoreKey == "":
			return invalid("sources[%d] (%s): score_key must not be empty", i, s.ID)
		case seen[s.ID]:
			return invalid("sources[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
	}

	if _, err := admission.New(c.Admission.Families); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
