package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/benchmatrix/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer with the stock divisor table", t, func() {
		n := scoring.New()

		Convey("When normalizing a default benchmark score", func() {
			Convey("Then it should divide by 100", func() {
				So(n.Normalize("gpqa", 85), ShouldAlmostEqual, 0.85)
				So(n.Divisor("gpqa"), ShouldEqual, 100)
			})
		})

		Convey("When normalizing an eci score", func() {
			Convey("Then it should divide by 200", func() {
				So(n.Normalize("eci", 150), ShouldAlmostEqual, 0.75)
			})
		})

		Convey("When the raw score is above the divisor", func() {
			Convey("Then the result should be capped at 1", func() {
				So(n.Normalize("swe", 250), ShouldEqual, 1)
				So(n.Normalize("eci", 400), ShouldEqual, 1)
			})
		})

		Convey("When the raw score is negative or NaN", func() {
			Convey("Then it should not be floored and NaN should propagate", func() {
				So(n.Normalize("swe", -10), ShouldAlmostEqual, -0.1)
				So(math.IsNaN(n.Normalize("swe", math.NaN())), ShouldBeTrue)
			})
		})
	})

	Convey("Given a normalizer with a custom divisor table", t, func() {
		n := scoring.New(scoring.WithDivisors(map[string]float64{
			"default": 1,
			"metr":    480,
			"broken":  0,
		}))

		Convey("Then the table should replace the defaults", func() {
			So(n.Normalize("chess", 0.42), ShouldAlmostEqual, 0.42)
			So(n.Normalize("metr", 240), ShouldAlmostEqual, 0.5)
			So(n.Divisor("eci"), ShouldEqual, 1)
			So(n.Divisor("broken"), ShouldEqual, 1)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a model's scores", t, func() {
		n := scoring.New()
		scores := map[string]float64{"gpqa": 80, "swe": 40, "eci": 150}

		Convey("When summarizing", func() {
			s := n.Summarize(scores)

			Convey("Then means of raw and normalized scores should be reported", func() {
				So(s.Benchmarks, ShouldEqual, 3)
				So(s.MeanRaw, ShouldAlmostEqual, 90)
				So(s.MeanNormalized, ShouldAlmostEqual, (0.8+0.4+0.75)/3)
			})
		})

		Convey("When the scores are empty or only NaN", func() {
			Convey("Then the summary should be zero", func() {
				So(n.Summarize(nil), ShouldResemble, scoring.Summary{})
				So(n.Summarize(map[string]float64{"x": math.NaN()}), ShouldResemble, scoring.Summary{})
			})
		})
	})
}

func TestDescribe(t *testing.T) {
	Convey("Given a list of benchmark scores", t, func() {
		Convey("Then Describe should report count, bounds and mean", func() {
			st := scoring.Describe([]float64{10, 30, math.NaN(), 20})
			So(st.Count, ShouldEqual, 3)
			So(st.Min, ShouldEqual, 10)
			So(st.Max, ShouldEqual, 30)
			So(st.Mean, ShouldAlmostEqual, 20)
			So(scoring.Describe(nil), ShouldResemble, scoring.Stats{})
		})
	})
}
