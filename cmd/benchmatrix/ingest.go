package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/benchmatrix/internal/ingest"
)

// Output formats for the ingest command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errUnknownFormat = errors.New("unknown output format")

func ingestCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion pass and print its report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.newService()
			report, err := svc.Reload(cmd.Context())
			if report.PassID == "" {
				return err
			}
			if rerr := renderReport(cmd.OutOrStdout(), report, format); rerr != nil {
				return rerr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

// renderReport writes report to w in the requested format.
func renderReport(w io.Writer, report ingest.Report, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case formatText, "":
		return renderText(w, report)
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func renderText(w io.Writer, report ingest.Report) error {
	fmt.Fprintf(w, "pass %s: %s (%d/%d sources, %s)\n\n",
		report.PassID, report.Status(), report.Succeeded(), len(report.Sources), report.Duration().Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BENCHMARK\tROWS\tADMITTED\tREJECTED\tINVALID\tERROR")
	for _, s := range report.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", s.ID, s.Rows, s.Admitted, s.Rejected, s.Invalid, s.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Families) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tCEILING\tSEEN\tADMITTED")
	for _, f := range report.Families {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", f.Name, f.Ceiling, f.Count, strings.Join(f.Admitted, ", "))
	}
	return tw.Flush()
}
