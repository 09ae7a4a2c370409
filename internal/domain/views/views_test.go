package views_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/benchmatrix/internal/adapters/repository"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/scoring"
	"github.com/okian/benchmatrix/internal/domain/views"
	. "github.com/smartystreets/goconvey/convey"
)

// fixture: three benchmarks, four models with uneven coverage.
func fixture() *repository.Snapshot {
	ctx := context.Background()
	r := repository.NewRegistry()
	r.DeclareBenchmark(ctx, "gpqa", "GPQA Diamond")
	r.DeclareBenchmark(ctx, "swe", "SWE Bench")
	r.DeclareBenchmark(ctx, "eci", "ECI Score")
	r.DeclareBenchmark(ctx, "chess", "Chess Puzzles")

	rec := func(bench, id, name, org string, score float64) {
		_, _, err := r.Record(ctx, bench, repository.Observation{ModelID: id, Name: name, Version: id, Organization: org, Score: score})
		So(err, ShouldBeNil)
	}
	rec("gpqa", "alpha", "Alpha", "Lab A", 80)
	rec("swe", "alpha", "Alpha", "Lab A", 40)
	rec("eci", "alpha", "Alpha", "Lab A", 150)
	rec("chess", "alpha", "Alpha", "Lab A", 20)
	rec("gpqa", "beta", "beta", "", 90)
	rec("swe", "beta", "beta", "", 70)
	rec("eci", "beta", "beta", "", 120)
	rec("gpqa", "gamma", "Gamma", "Lab C", 60)
	rec("gpqa", "gamma", "Gamma", "Lab C", 65)
	rec("gpqa", "delta", "delta", "Lab D", 90)
	return r.Snapshot(ctx)
}

func TestPolar(t *testing.T) {
	Convey("Given a polar adapter over a snapshot", t, func() {
		p := views.NewPolar(fixture(), scoring.New())

		Convey("When charting a model", func() {
			c, err := p.Chart("alpha")

			Convey("Then spokes follow benchmark order with normalized scores", func() {
				So(err, ShouldBeNil)
				So(len(c.Points), ShouldEqual, 4)
				So(c.Points[0].Label, ShouldEqual, "GPQA Diamond")
				So(c.Points[0].Normalized, ShouldAlmostEqual, 0.8)
				So(c.Points[2].BenchmarkID, ShouldEqual, "eci")
				So(c.Points[2].Normalized, ShouldAlmostEqual, 0.75)
				So(c.Summary.Benchmarks, ShouldEqual, 4)
				So(c.Summary.MeanRaw, ShouldAlmostEqual, 72.5)
				So(c.Total, ShouldEqual, 4)
				So(c.Coverage, ShouldEqual, views.CoverageComplete)
			})
		})

		Convey("When charting a partially covered model", func() {
			c, err := p.Chart("beta")

			Convey("Then only its benchmarks are charted", func() {
				So(err, ShouldBeNil)
				So(len(c.Points), ShouldEqual, 3)
				So(c.Coverage, ShouldEqual, views.CoveragePartial)
			})
		})

		Convey("When the model is unknown", func() {
			_, err := p.Chart("nope")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing top models", func() {
			top := p.TopModels(3)

			Convey("Then they are ordered by benchmark count then ID with labels", func() {
				So(len(top), ShouldEqual, 3)
				So(top[0].ID, ShouldEqual, "alpha")
				So(top[0].Label, ShouldEqual, "Alpha (Lab A)")
				So(top[1].ID, ShouldEqual, "beta")
				So(top[1].Label, ShouldEqual, "beta [3/4]")
				So(top[2].ID, ShouldEqual, "delta")
				So(top[2].Label, ShouldEqual, "delta (Lab D) [1/4]")
				So(len(p.TopModels(0)), ShouldEqual, 4)
			})
		})
	})
}

func TestBar(t *testing.T) {
	Convey("Given a bar adapter over a snapshot", t, func() {
		b := views.NewBar(fixture(), scoring.New(), 3)

		Convey("When charting with the default order", func() {
			c, err := b.Chart("gpqa", "", 0)

			Convey("Then rows are unique per model, score-desc and capped", func() {
				So(err, ShouldBeNil)
				So(c.Order, ShouldEqual, views.SortScoreDesc)
				So(len(c.Rows), ShouldEqual, 3)
				So(c.Rows[0].ModelID, ShouldEqual, "beta")
				So(c.Rows[1].ModelID, ShouldEqual, "delta")
				So(c.Rows[2].ModelID, ShouldEqual, "alpha")
				So(c.Rows[0].Normalized, ShouldAlmostEqual, 0.9)
				So(c.Rows[0].Organization, ShouldEqual, model.UnknownField)
				So(c.Stats.Count, ShouldEqual, 3)
				So(c.Stats.Max, ShouldEqual, 90)
			})
		})

		Convey("When charting ascending", func() {
			c, err := b.Chart("gpqa", views.SortScoreAsc, 10)

			Convey("Then the reconciled score of a repeated model is used", func() {
				So(err, ShouldBeNil)
				So(c.Rows[0].ModelID, ShouldEqual, "gamma")
				So(c.Rows[0].Score, ShouldEqual, 65)
			})
		})

		Convey("When charting by name", func() {
			asc, err := b.Chart("gpqa", views.SortNameAsc, 4)
			So(err, ShouldBeNil)
			desc, err := b.Chart("gpqa", views.SortNameDesc, 1)
			So(err, ShouldBeNil)

			Convey("Then names compare case-insensitively", func() {
				So(asc.Rows[0].ModelName, ShouldEqual, "Alpha")
				So(asc.Rows[1].ModelName, ShouldEqual, "beta")
				So(desc.Rows[0].ModelName, ShouldEqual, "Gamma")
			})
		})

		Convey("When the request is invalid", func() {
			_, errSort := b.Chart("gpqa", views.SortOrder("random"), 0)
			_, errLimit := b.Chart("gpqa", views.SortScoreDesc, -1)
			_, errBench := b.Chart("nope", views.SortScoreDesc, 0)

			Convey("Then sentinel errors are returned", func() {
				So(errors.Is(errSort, views.ErrUnknownSort), ShouldBeTrue)
				So(errors.Is(errLimit, views.ErrInvalidLimit), ShouldBeTrue)
				So(errors.Is(errBench, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing benchmarks", func() {
			list := b.Benchmarks()

			Convey("Then they are sorted by name with entry counts", func() {
				So(list, ShouldResemble, []views.BenchmarkOption{
					{ID: "chess", Name: "Chess Puzzles", Entries: 1},
					{ID: "eci", Name: "ECI Score", Entries: 2},
					{ID: "gpqa", Name: "GPQA Diamond", Entries: 5},
					{ID: "swe", Name: "SWE Bench", Entries: 2},
				})
			})
		})
	})
}

func TestParseSortOrder(t *testing.T) {
	Convey("Given sort order strings", t, func() {
		Convey("Then known values parse and unknown ones fail", func() {
			o, err := views.ParseSortOrder("")
			So(err, ShouldBeNil)
			So(o, ShouldEqual, views.SortScoreDesc)
			o, err = views.ParseSortOrder(" Name-Desc ")
			So(err, ShouldBeNil)
			So(o, ShouldEqual, views.SortNameDesc)
			_, err = views.ParseSortOrder("bogus")
			So(errors.Is(err, views.ErrUnknownSort), ShouldBeTrue)
		})
	})
}
