package config_test

import (
	"runtime"
	"testing"

	config "github.com/okian/readyrank/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		cfg := config.New()

		Convey("Then the defaults are sensible", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.TriggerQueueSize, ShouldEqual, 100_000)
			So(cfg.CoalesceSize, ShouldEqual, 500_000)
			So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
			So(cfg.WorkerCount, ShouldEqual, runtime.NumCPU()*4)
			So(cfg.SeedStudents, ShouldEqual, 0)
			So(cfg.SeedJobs, ShouldEqual, 0)
			So(cfg.ComponentWeights, ShouldBeEmpty)
		})
	})
}
