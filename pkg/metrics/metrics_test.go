package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then its metrics are registered there", func() {
				So(manager, ShouldNotBeNil)
				manager.catalogPackages.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.matchRequests.Inc()
				expected := `
# HELP test_unit_match_requests_total Total number of rankings computed
# TYPE test_unit_match_requests_total counter
test_unit_match_requests_total{env="test"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_unit_match_requests_total")
				So(err, ShouldBeNil)
			})
		})

		Convey("When options receive empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "eventmatch")
				So(manager.subsystem, ShouldEqual, "matching")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestRecordRanking(t *testing.T) {
	Convey("Given the global manager", t, func() {
		beforeRequests := testutil.ToFloat64(globalManager.matchRequests)
		beforeScored := testutil.ToFloat64(globalManager.packagesScored)
		beforeFound := testutil.ToFloat64(globalManager.bestMatches.WithLabelValues("true"))

		Convey("When a ranking with a best match is recorded", func() {
			RecordRanking(1.5, []int{90, 40, 10}, 47, true)

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.matchRequests), ShouldEqual, beforeRequests+1)
				So(testutil.ToFloat64(globalManager.packagesScored), ShouldEqual, beforeScored+3)
				So(testutil.ToFloat64(globalManager.bestMatches.WithLabelValues("true")), ShouldEqual, beforeFound+1)
				So(testutil.ToFloat64(globalManager.lastAverageScore), ShouldEqual, 47)
			})
		})

		Convey("When a single score is recorded", func() {
			RecordPackageScored(55)
			So(testutil.ToFloat64(globalManager.packagesScored), ShouldEqual, beforeScored+1)
		})
	})
}

func TestCatalogAndQueueMetrics(t *testing.T) {
	Convey("Given catalog and queue metrics", t, func() {
		Convey("When gauges are updated", func() {
			UpdateCatalogPackages(12)
			UpdateQueueSize(4)
			UpdateQueueCapacity(64)
			UpdateWorkerCount(8)

			Convey("Then they hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.catalogPackages), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 64)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 8)
			})
		})

		Convey("When counters are recorded", func() {
			before := testutil.ToFloat64(globalManager.catalogOperations.WithLabelValues("upsert"))
			RecordCatalogOperation("upsert")
			RecordCatalogError("get")
			RecordQueueEnqueue()
			RecordQueueRejected()
			RecordWorkerJob(2.5)

			So(testutil.ToFloat64(globalManager.catalogOperations.WithLabelValues("upsert")), ShouldEqual, before+1)
		})
	})
}

func TestHTTPAndErrorMetrics(t *testing.T) {
	Convey("Given HTTP and error metrics", t, func() {
		So(func() {
			RecordHTTPRequest("match", "POST", "200")
			RecordHTTPRequestDuration("match", "POST", "200", 3.0)
			RecordErrorByComponent("catalog", "not_found")
			RecordErrorByType("client_error", "medium")
			RecordErrorByEndpoint("packages", "GET", "not_found")
			RecordErrorLatency("http", "not_found", 1.0)
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.4)
		}, ShouldNotPanic)

		Convey("Then the custom registry can be gathered", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				RecordRanking(float64(i), []int{i}, i, i%2 == 0)
				RecordCatalogOperation("list")
				UpdateQueueSize(i)
			}(i)
		}
		wg.Wait()
		So(testutil.ToFloat64(globalManager.matchRequests), ShouldBeGreaterThanOrEqualTo, 10)
	})
}
