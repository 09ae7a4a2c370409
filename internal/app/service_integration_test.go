package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	service "github.com/okian/benchmatrix/internal/app"
	"github.com/okian/benchmatrix/internal/adapters/source"
	"github.com/okian/benchmatrix/internal/config"
	"github.com/okian/benchmatrix/internal/domain/identity"
	"github.com/okian/benchmatrix/internal/domain/scoring"
	"github.com/okian/benchmatrix/internal/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

// csvFixtures covers three of the stock benchmark files.
var csvFixtures = map[string]string{
	"gpqa_diamond.csv": `Model version,Organization,Country,Release date,mean_score
OpenAI/GPT-5.2-preview-2025-03-01,OpenAI,United States,2025-03-01,0.91
gpt-5.2-high,OpenAI,United States,2025-03-01,0.89
gpt-5.2-low,OpenAI,United States,2025-03-01,0.7
gemini-3-pro,Google,United States,2025-11-18,0.88
claude-3-opus,Anthropic,United States,2024-03-04,"0,50"
mystery,,,,not-a-number
`,
	"swe_bench_verified.csv": `Model version,Organization,mean_score
claude-3-opus,Anthropic,0.4
gemini-3-flash,Google,0.6
`,
	"epoch_capabilities_index.csv": `Model version,Organization,ECI Score
claude-3-opus,Anthropic,150
`,
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given CSV files for three benchmarks and one missing file", t, func() {
		dir := t.TempDir()
		for name, body := range csvFixtures {
			So(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600), ShouldBeNil)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg := config.New(ctx)
		sources := cfg.Benchmarks()
		keep := map[string]bool{"gpqa": true, "swe": true, "eci": true, "chess": true}
		filtered := sources[:0]
		for _, s := range sources {
			if keep[s.ID] {
				filtered = append(filtered, s)
			}
		}

		svc := service.New(
			service.WithLoader(source.NewLoader(source.WithDataDir(dir))),
			service.WithSources(filtered),
			service.WithFamilies(cfg.Admission.Families),
			service.WithNormalizer(scoring.New(scoring.WithDivisors(cfg.Divisors))),
			service.WithWorkerCount(3),
			service.WithQueueSize(1),
		)
		defer svc.Stop()

		Convey("When the service starts", func() {
			err := svc.Start(ctx)

			Convey("Then the pass is partial because chess is missing", func() {
				So(err, ShouldBeNil)
				report, ok := svc.LastReport()
				So(ok, ShouldBeTrue)
				So(report.Status(), ShouldEqual, ingest.StatusPartial)
				So(report.Sources[0].ID, ShouldEqual, "chess")
				So(report.Sources[0].OK(), ShouldBeFalse)
			})

			Convey("And the gpt-5.2 ceiling admits two rows", func() {
				report, _ := svc.LastReport()
				var gpqa ingest.SourceReport
				for _, s := range report.Sources {
					if s.ID == "gpqa" {
						gpqa = s
					}
				}
				So(gpqa.Rows, ShouldEqual, 6)
				So(gpqa.Invalid, ShouldEqual, 1)
				So(gpqa.Admitted+gpqa.Rejected, ShouldEqual, 5)

				for _, c := range report.Families {
					if c.Name == "gpt-5.2" {
						So(c.Count, ShouldEqual, 3)
						So(len(c.Admitted), ShouldEqual, 2)
						So(c.Rejected, ShouldResemble, []string{"gpt-5.2-low"})
					}
				}
			})

			Convey("And a dated vendor-prefixed version gets a clean display name", func() {
				id := identity.CanonicalID("OpenAI/GPT-5.2-preview-2025-03-01")
				detail, err := svc.Model(ctx, id)
				So(err, ShouldBeNil)
				So(detail.Model.Name, ShouldEqual, "GPT 5.2")
				So(detail.Model.Organization, ShouldEqual, "OpenAI")
				So(strings.ContainsAny(id, "/.ABCDEFGHIJKLMNOPQRSTUVWXYZ"), ShouldBeFalse)
			})

			Convey("And a model seen in three benchmarks is merged", func() {
				polar, err := svc.Polar(ctx, "claude3opus")
				So(err, ShouldBeNil)
				So(len(polar.Points), ShouldEqual, 3)
				So(polar.Points[0].BenchmarkID, ShouldEqual, "gpqa")
				So(polar.Points[0].Normalized, ShouldAlmostEqual, 0.005)
				So(polar.Points[2].BenchmarkID, ShouldEqual, "eci")
				So(polar.Points[2].Normalized, ShouldAlmostEqual, 0.75)
			})

			Convey("And only one gemini-3 row is admitted across benchmarks", func() {
				snap, err := svc.Snapshot()
				So(err, ShouldBeNil)
				gemini := 0
				for id := range snap.Models {
					if strings.HasPrefix(id, "gemini3") {
						gemini++
					}
				}
				So(gemini, ShouldEqual, 1)
			})
		})
	})
}
