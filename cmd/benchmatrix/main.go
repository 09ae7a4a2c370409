// Command benchmatrix ingests benchmark CSV files into a model registry and
// serves chart-ready views of it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/benchmatrix/internal/adapters/source"
	service "github.com/okian/benchmatrix/internal/app"
	"github.com/okian/benchmatrix/internal/config"
	"github.com/okian/benchmatrix/internal/domain/scoring"
	"github.com/okian/benchmatrix/pkg/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "benchmatrix",
		Short:         "Aggregate AI benchmark CSV files into one model registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "YAML config file (default: $"+config.EnvConfigPath+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	root.AddCommand(serveCmd(c))
	root.AddCommand(ingestCmd(c))
	root.AddCommand(exportCmd(c))
	return root
}

// setup initializes logging and loads configuration
// (defaults -> optional file -> env -> flags).
func (c *cli) setup(ctx context.Context) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	if c.cfgFile != "" {
		c.cfg, err = config.LoadFrom(ctx, c.cfgFile)
	} else {
		c.cfg, err = config.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := c.cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// newService builds the service from the loaded configuration.
func (c *cli) newService(opts ...service.Option) *service.Service {
	cfg := c.cfg
	loader := source.NewLoader(
		source.WithDataDir(cfg.DataDir),
		source.WithFetchTimeout(time.Duration(cfg.FetchTimeoutMS)*time.Millisecond),
	)
	base := []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithLoader(loader),
		service.WithSources(cfg.Benchmarks()),
		service.WithFamilies(cfg.Admission.Families),
		service.WithNormalizer(scoring.New(scoring.WithDivisors(cfg.Divisors))),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithShardCount(cfg.ShardCount),
		service.WithTopModels(cfg.TopModels),
		service.WithBarMaxModels(cfg.BarMaxModels),
	}
	return service.New(append(base, opts...)...)
}
