package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register collectors", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("ingest"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "ingest")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})
		})

		Convey("When empty option values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "benchmatrix")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When the global refresh interval is read", func() {
			Convey("Then it should be the default", func() {
				So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestIngestionMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When rows are admitted, rejected and dropped", func() {
			admitted := testutil.ToFloat64(globalManager.rowsAdmitted.WithLabelValues("gpqa"))
			rejected := testutil.ToFloat64(globalManager.rowsRejected.WithLabelValues("gpt-5.2"))
			invalid := testutil.ToFloat64(globalManager.rowsInvalid.WithLabelValues("gpqa"))

			RecordRowAdmitted("gpqa")
			RecordRowAdmitted("gpqa")
			RecordRowRejected("gpt-5.2")
			RecordRowInvalid("gpqa")

			Convey("Then the counters should move by the recorded amounts", func() {
				So(testutil.ToFloat64(globalManager.rowsAdmitted.WithLabelValues("gpqa")), ShouldEqual, admitted+2)
				So(testutil.ToFloat64(globalManager.rowsRejected.WithLabelValues("gpt-5.2")), ShouldEqual, rejected+1)
				So(testutil.ToFloat64(globalManager.rowsInvalid.WithLabelValues("gpqa")), ShouldEqual, invalid+1)
			})
		})

		Convey("When the registry size is published", func() {
			UpdateRegistrySize(42, 10, 300)

			Convey("Then the gauges should reflect it", func() {
				So(testutil.ToFloat64(globalManager.registryModels), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.registryBenchmarks), ShouldEqual, 10)
				So(testutil.ToFloat64(globalManager.registryEntries), ShouldEqual, 300)
			})
		})

		Convey("When a successful pass is recorded", func() {
			before := testutil.ToFloat64(globalManager.passes.WithLabelValues("ok"))
			RecordPass("ok", 12)

			Convey("Then the pass counter and timestamp should update", func() {
				So(testutil.ToFloat64(globalManager.passes.WithLabelValues("ok")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.passLastUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When queue, worker and http metrics are recorded", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					UpdateQueueCapacity(16)
					UpdateQueueSize(3)
					RecordQueueEnqueue()
					RecordQueueEnqueueError("closed")
					AddWorkerActive(1)
					AddWorkerActive(-1)
					RecordWorkerJobLatency(4)
					RecordSourceFailure("chess")
					RecordSourceLoadLatency("chess", 7)
					RecordHTTPRequest("models", "GET", "200")
					RecordHTTPRequestDuration("models", "GET", "200", 1.5)
					RecordErrorByComponent("source", "fetch_failed")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the exported registry", t, func() {
		Convey("Then it should gather the global metrics", func() {
			RecordPass("partial", 1)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "benchmatrix_pipeline_passes_total")
		})
	})
}
