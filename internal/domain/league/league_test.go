package league_test

import (
	"testing"

	"github.com/okian/jungle/internal/domain/league"
	. "github.com/smartystreets/goconvey/convey"
)

func team() *league.League {
	return league.New(
		[]league.Participant{
			{ID: "andy", Bettor: true},
			{ID: "andrew", Bettor: true, InjuredFrom: 3},
			{ID: "josh", Bettor: true},
			{ID: "tyler", Rounds: []int{3, 4}},
			{ID: "vishi", Bettor: true, Rounds: []int{3}},
		},
		[]league.Item{{Key: "pts", Label: "Points"}, {Key: "3pm", Label: "3-Pointers"}},
		[]league.Item{{Key: league.PropTeamMVP, Label: "Team MVP"}},
	)
}

func TestLeague_Roster(t *testing.T) {
	Convey("Given a team with part-time and injured players", t, func() {
		l := team()

		Convey("Then rosters follow round membership", func() {
			So(l.Roster(1), ShouldResemble, []string{"andy", "andrew", "josh"})
			So(l.Roster(3), ShouldResemble, []string{"andy", "andrew", "josh", "tyler", "vishi"})
			So(l.Roster(4), ShouldResemble, []string{"andy", "andrew", "josh", "tyler"})
		})

		Convey("Then the injured stay on the roster but are not active", func() {
			So(l.Injured("andrew", 2), ShouldBeFalse)
			So(l.Injured("andrew", 3), ShouldBeTrue)
			So(l.Injured("andrew", 5), ShouldBeTrue)
			So(l.Active(3), ShouldResemble, []string{"andy", "josh", "tyler", "vishi"})
			So(l.Active(2), ShouldResemble, []string{"andy", "andrew", "josh"})
		})

		Convey("Then unknown ids are never on the roster", func() {
			So(l.Known("zed"), ShouldBeFalse)
			So(l.OnRoster("zed", 1), ShouldBeFalse)
			So(l.Injured("zed", 9), ShouldBeFalse)
		})
	})
}

func TestLeague_Bettors(t *testing.T) {
	Convey("Given a team with a non-betting teammate", t, func() {
		l := team()

		So(l.Bettors(), ShouldResemble, []string{"andy", "andrew", "josh", "vishi"})
		So(l.IsBettor("tyler"), ShouldBeFalse)
		So(l.Known("tyler"), ShouldBeTrue)
		So(l.IsBettor("vishi"), ShouldBeTrue)
		So(l.Players(), ShouldHaveLength, 5)
	})
}

func TestLeague_Catalogs(t *testing.T) {
	Convey("Given stat and prop catalogs", t, func() {
		l := team()

		So(l.HasStat("pts"), ShouldBeTrue)
		So(l.HasStat("reb"), ShouldBeFalse)
		So(l.HasProp(league.PropTeamMVP), ShouldBeTrue)
		So(l.HasProp(league.PropMostMissedFT), ShouldBeFalse)

		Convey("Then returned catalogs are copies", func() {
			stats := l.Stats()
			stats[0].Key = "changed"
			So(l.HasStat("pts"), ShouldBeTrue)
			So(l.Props(), ShouldHaveLength, 1)
		})
	})
}
