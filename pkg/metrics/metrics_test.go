package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestManager(opts ...Option) (*Manager, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	return NewManager(append(opts, WithPrometheusRegistry(registry))...), registry
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager, registry := newTestManager()

			Convey("Then every operation has a latency series", func() {
				So(manager, ShouldNotBeNil)
				So(testutil.CollectAndCount(manager.operationDuration), ShouldEqual, len(operations))
				names, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(names), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			manager, _ := newTestManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
			)
			manager.UpdateWorkerCount(3)

			Convey("Then metric names and labels follow the options", func() {
				expected := `
# HELP test_unit_worker_count Number of report workers
# TYPE test_unit_worker_count gauge
test_unit_worker_count{env="test"} 3
`
				So(testutil.CollectAndCompare(manager.workerCount, strings.NewReader(expected)), ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		manager, _ := newTestManager()

		Convey("When league operations are recorded", func() {
			manager.RecordOperation(OpAddTeam, "SUCCESS", 3*time.Microsecond)
			manager.RecordOperation(OpAddTeam, "SUCCESS", 5*time.Microsecond)
			manager.RecordOperation(OpAddTeam, "FAILURE", time.Microsecond)

			Convey("Then counts are split by status", func() {
				So(testutil.ToFloat64(manager.operations.WithLabelValues(OpAddTeam, "SUCCESS")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.operations.WithLabelValues(OpAddTeam, "FAILURE")), ShouldEqual, 1)
			})
		})

		Convey("When league state is updated", func() {
			manager.UpdateLeagueState(4, 2, 10, 3, 16)

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(manager.liveTeams), ShouldEqual, 4)
				So(testutil.ToFloat64(manager.retiredTeams), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.jockeys), ShouldEqual, 10)
				So(testutil.ToFloat64(manager.recordValues), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.arenaNodes), ShouldEqual, 16)
			})
		})

		Convey("When reports flow through ingestion", func() {
			manager.RecordReport(ReportAccepted)
			manager.RecordReport(ReportAccepted)
			manager.RecordReport(ReportDuplicate)
			manager.RecordReportApplied("SUCCESS", time.Millisecond)
			manager.RecordWorkerError()
			manager.UpdateQueue(7, 100)

			Convey("Then the ingestion metrics move", func() {
				So(testutil.ToFloat64(manager.reports.WithLabelValues(ReportAccepted)), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.reports.WithLabelValues(ReportDuplicate)), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.reportsApplied.WithLabelValues("SUCCESS")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.workerErrors), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(manager.queueCapacity), ShouldEqual, 100)
			})
		})

		Convey("When HTTP requests and errors are recorded", func() {
			manager.RecordHTTPRequest("/teams", "POST", "200", 1.5)
			manager.RecordError("http", "client_error")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(manager.httpRequests.WithLabelValues("/teams", "POST", "200")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.errorsByComponent.WithLabelValues("http", "client_error")), ShouldEqual, 1)
			})
		})

		Convey("When system stats are collected", func() {
			manager.CollectSystem()

			Convey("Then goroutines and memory are reported", func() {
				So(testutil.ToFloat64(manager.systemGoroutineCount), ShouldBeGreaterThan, 0)
				So(testutil.ToFloat64(manager.systemMemoryUsage), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package helpers do not panic", func() {
			So(func() {
				RecordOperation(OpTeamOf, "SUCCESS", time.Microsecond)
				UpdateLeagueState(1, 0, 1, 1, 2)
				RecordReport(ReportRejected)
				RecordReportApplied("FAILURE", time.Microsecond)
				RecordWorkerError()
				UpdateQueue(0, 10)
				UpdateWorkerCount(1)
				UpdateStandingsSize(1)
				RecordStandingsQuery(time.Microsecond)
				RecordHTTPRequest("/healthz", "GET", "200", 0.1)
				RecordError("worker", "apply")
				CollectSystem()
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
