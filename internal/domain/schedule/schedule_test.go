package schedule_test

import (
	"testing"
	"time"

	"github.com/okian/jungle/internal/domain/phase"
	"github.com/okian/jungle/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func season() *schedule.Schedule {
	mk := func(n int, label, start string) schedule.Round {
		ts := at(start)
		return schedule.Round{Number: n, Label: label, StartsAt: ts, LinesLockAt: ts, PicksLockAt: ts}
	}
	return schedule.New([]schedule.Round{
		mk(2, "Week 2", "2026-02-09T23:00:00Z"),
		mk(1, "Week 1", "2026-02-02T23:00:00Z"),
		mk(5, "Playoff 1", "2026-03-02T23:00:00Z"),
	})
}

func TestSchedule_Current(t *testing.T) {
	Convey("Given a season", t, func() {
		s := season()

		So(s.Numbers(), ShouldResemble, []int{1, 2, 5})

		Convey("Then a round stays current until the cutoff the next morning", func() {
			r, ok := s.Current(at("2026-01-15T00:00:00Z"))
			So(ok, ShouldBeTrue)
			So(r.Number, ShouldEqual, 1)

			r, _ = s.Current(at("2026-02-03T13:59:59Z"))
			So(r.Number, ShouldEqual, 1)

			r, _ = s.Current(at("2026-02-03T14:00:00Z"))
			So(r.Number, ShouldEqual, 2)
		})

		Convey("Then after the season the last round stays current", func() {
			r, _ := s.Current(at("2026-06-01T00:00:00Z"))
			So(r.Number, ShouldEqual, 5)
			So(r.Label, ShouldEqual, "Playoff 1")
		})

		Convey("When the cutoff hour is overridden", func() {
			s = schedule.New(s.Rounds(), schedule.WithCutoffHourUTC(8))

			Convey("Then the results window closes earlier", func() {
				r, _ := s.Current(at("2026-02-03T09:00:00Z"))
				So(r.Number, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty schedule", t, func() {
		_, ok := schedule.New(nil).Current(time.Now())
		So(ok, ShouldBeFalse)
	})
}

func TestSchedule_Get(t *testing.T) {
	Convey("Given a season", t, func() {
		s := season()

		r, ok := s.Get(2)
		So(ok, ShouldBeTrue)
		So(r.Label, ShouldEqual, "Week 2")

		_, ok = s.Get(3)
		So(ok, ShouldBeFalse)
	})
}

func TestRound_Phase(t *testing.T) {
	Convey("Given a round with separate line and pick locks", t, func() {
		r := schedule.Round{
			Number:      1,
			StartsAt:    at("2026-02-02T23:00:00Z"),
			LinesLockAt: at("2026-02-01T23:00:00Z"),
			PicksLockAt: at("2026-02-02T23:00:00Z"),
		}

		So(r.Phase(at("2026-02-01T22:59:59Z")), ShouldEqual, phase.Open)
		So(r.NextLock(at("2026-02-01T22:59:59Z")), ShouldEqual, r.LinesLockAt)
		So(r.Phase(at("2026-02-01T23:00:00Z")), ShouldEqual, phase.PicksOpen)
		So(r.NextLock(at("2026-02-01T23:00:00Z")), ShouldEqual, r.PicksLockAt)
		So(r.Phase(at("2026-02-02T23:00:00Z")), ShouldEqual, phase.Locked)
	})
}
