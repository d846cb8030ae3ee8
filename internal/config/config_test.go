package config_test

import (
	"testing"
	"time"

	"github.com/okian/jungle/internal/config"
	"github.com/okian/jungle/internal/domain/league"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DatabaseDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			convey.So(cfg.ResultsCutoffHourUTC, convey.ShouldEqual, 14)
			convey.So(cfg.ScoringWeights["miss"], convey.ShouldEqual, 0.5)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the season has five rounds locking at tip-off", func() {
			convey.So(cfg.Rounds, convey.ShouldHaveLength, 5)
			first := cfg.Rounds[0]
			convey.So(first.Label, convey.ShouldEqual, "Week 1")
			convey.So(first.StartsAt, convey.ShouldEqual, time.Date(2026, 2, 2, 23, 0, 0, 0, time.UTC))
			convey.So(first.LinesLockAt, convey.ShouldEqual, first.StartsAt)
			convey.So(first.PicksLockAt, convey.ShouldEqual, first.StartsAt)
			convey.So(cfg.Rounds[4].Label, convey.ShouldEqual, "Playoff 1")
		})

		convey.Convey("When building the league", func() {
			lg := cfg.League()

			convey.Convey("Then roster rules carry over", func() {
				convey.So(lg.IsBettor("tyler"), convey.ShouldBeFalse)
				convey.So(lg.OnRoster("tyler", 2), convey.ShouldBeFalse)
				convey.So(lg.OnRoster("tyler", 3), convey.ShouldBeTrue)
				convey.So(lg.Injured("andrew", 3), convey.ShouldBeTrue)
				convey.So(lg.HasStat("3pm"), convey.ShouldBeTrue)
				convey.So(lg.HasProp(league.PropTeamMVP), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When building the schedule", func() {
			sched := cfg.Schedule()

			convey.Convey("Then every round is addressable", func() {
				convey.So(sched.Numbers(), convey.ShouldResemble, []int{1, 2, 3, 4, 5})
				r, ok := sched.Get(3)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(r.Label, convey.ShouldEqual, "Week 3")
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()

		convey.Convey("When the driver is unknown", func() {
			cfg.DatabaseDriver = "mysql"
			err := cfg.Validate()

			convey.Convey("Then it is rejected", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, "mysql")
			})
		})

		convey.Convey("When the DSN is empty", func() {
			cfg.DatabaseDSN = ""
			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When a participant is listed twice", func() {
			cfg.Participants = append(cfg.Participants, config.Participant{ID: "andy"})
			err := cfg.Validate()

			convey.Convey("Then it is rejected", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, "duplicate participant")
			})
		})

		convey.Convey("When a round number repeats", func() {
			cfg.Rounds = append(cfg.Rounds, cfg.Rounds[0])
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "duplicate round 1")
		})

		convey.Convey("When picks lock before lines", func() {
			cfg.Rounds[1].PicksLockAt = cfg.Rounds[1].LinesLockAt.Add(-time.Hour)
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "round 2 picks lock before lines lock")
		})

		convey.Convey("When a scoring weight key is unknown", func() {
			cfg.ScoringWeights["bonus"] = 2
			err := cfg.Validate()

			convey.Convey("Then it is rejected", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, `unknown scoring weight "bonus"`)
			})
		})

		convey.Convey("When a scoring weight is negative", func() {
			cfg.ScoringWeights["miss"] = -0.5
			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When the cutoff hour is out of range", func() {
			cfg.ResultsCutoffHourUTC = 24
			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
