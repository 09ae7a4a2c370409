package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/benchmatrix/internal/adapters/export"
	"github.com/okian/benchmatrix/pkg/logger"
)

func exportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run one ingestion pass and write the snapshot to SQLite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if out == "" {
				out = c.cfg.ExportPath
			}

			svc := c.newService()
			report, err := svc.Reload(ctx)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			snap, err := svc.Snapshot()
			if err != nil {
				return err
			}

			exp, err := export.New(out, export.WithNormalizer(svc.Normalizer()))
			if err != nil {
				return err
			}
			defer exp.Close()

			res, err := exp.Write(ctx, snap, report.PassID)
			if err != nil {
				return err
			}
			logger.Named("export").Info(ctx, "snapshot exported",
				logger.String("path", res.Path),
				logger.String("pass", res.PassID),
				logger.Int("models", res.Models),
				logger.Int("benchmarks", res.Benchmarks),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d models, %d benchmarks, %d scores to %s\n",
				res.Models, res.Benchmarks, res.Scores, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "SQLite file (default: export_path from config)")
	return cmd
}
