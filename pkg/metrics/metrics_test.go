package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with degenerate options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults fill in and creation still succeeds", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("When recording scoring metrics", func() {
			So(func() {
				RecordScoreRecalculation()
				RecordScoreRecalculationError()
				RecordScoreRecalcLatency(12.5)
			}, ShouldNotPanic)
		})

		Convey("When recording ranking metrics", func() {
			So(func() {
				RecordGlobalRankingRebuild()
				RecordGlobalRankingError()
				RecordGlobalRankingLatency(250.0)
				RecordJobRankingRebuild()
				RecordJobRankUpsert()
				UpdateRankedStudents(10000)
				UpdateTotalStudents(12000)
			}, ShouldNotPanic)
		})

		Convey("When recording trigger metrics", func() {
			So(func() {
				RecordTriggerAccepted()
				RecordTriggerCoalesced()
				RecordTriggerDropped()
			}, ShouldNotPanic)
		})

		Convey("When recording queue metrics", func() {
			So(func() {
				UpdateQueueSize(1000)
				UpdateQueueCapacity(100000)
				UpdateQueueUtilization(0.01)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
			}, ShouldNotPanic)
		})

		Convey("When recording worker metrics", func() {
			So(func() {
				UpdateWorkerCount(16)
				RecordWorkerError()
				RecordWorkerLatency(45.0)
			}, ShouldNotPanic)
		})

		Convey("When recording store metrics", func() {
			So(func() {
				RecordStoreWrite()
				RecordStoreWriteLatency(3.0)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/triggers", "POST", "202")
				RecordHTTPRequest("/leaderboard", "GET", "200")
				RecordHTTPRequestDuration("/triggers", "POST", "202", 5.0)
				RecordHTTPRequestDuration("/leaderboard", "GET", "200", 2.0)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024 * 100)
				UpdateSystemGoroutineCount(200)
				RecordSystemGCPauseTime(1.5)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given edge values", t, func() {
		Convey("When recording zeros", func() {
			So(func() {
				UpdateQueueSize(0)
				UpdateWorkerCount(0)
				UpdateTotalStudents(0)
				RecordScoreRecalcLatency(0.0)
				RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
			}, ShouldNotPanic)
		})

		Convey("When recording negative gauge values", func() {
			So(func() {
				UpdateQueueSize(-100)
				UpdateWorkerCount(-10)
				UpdateTotalStudents(-1000)
			}, ShouldNotPanic)
		})

		Convey("When recording very large values", func() {
			So(func() {
				UpdateQueueSize(1_000_000)
				UpdateTotalStudents(10_000_000)
				RecordScoreRecalcLatency(10000.0)
				RecordHTTPRequestDuration("/test", "GET", "200", 30000.0)
			}, ShouldNotPanic)
		})

		Convey("When recording empty label values", func() {
			So(func() {
				RecordHTTPRequest("", "", "200")
				RecordHTTPRequestDuration("", "", "200", 10.0)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordScoreRecalculation()
						UpdateQueueSize(1000 + j)
						RecordScoreRecalcLatency(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetched", func() {
			registry := GetRegistry()

			Convey("Then it is a usable gatherer", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}
