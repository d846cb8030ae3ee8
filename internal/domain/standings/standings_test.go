package standings_test

import (
	"testing"

	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func score(round int, who string, correct, missed int, total float64) model.Score {
	return model.Score{
		Round:       round,
		Participant: who,
		Breakdown:   model.Breakdown{CorrectPicks: correct, MissedPicks: missed, TotalPoints: total},
	}
}

func TestLeaderboard(t *testing.T) {
	Convey("Given scores across two rounds", t, func() {
		scores := []model.Score{
			score(2, "andy", 1, 1, 0.5),
			score(1, "andy", 2, 0, 2),
			score(1, "josh", 3, 1, 2.5),
			score(1, "ghost", 9, 0, 9),
			score(7, "josh", 9, 0, 9),
		}

		board := standings.Leaderboard([]string{"ronit", "josh", "andy"}, scores, []int{1, 2})

		Convey("Then totals are summed and ranked", func() {
			So(board, ShouldHaveLength, 3)
			So(board[0].Participant, ShouldEqual, "andy")
			So(board[0].TotalPoints, ShouldEqual, 2.5)
			So(board[0].CorrectPicks, ShouldEqual, 3)
			So(board[0].MissedPicks, ShouldEqual, 1)
			So(board[0].Rank, ShouldEqual, 1)
		})

		Convey("Then ties break by participant id", func() {
			So(board[1].Participant, ShouldEqual, "josh")
			So(board[1].TotalPoints, ShouldEqual, 2.5)
			So(board[1].Rank, ShouldEqual, 2)
		})

		Convey("Then participants without scores get a zero row", func() {
			So(board[2].Participant, ShouldEqual, "ronit")
			So(board[2].TotalPoints, ShouldEqual, 0)
			So(board[2].Rounds, ShouldBeEmpty)
		})

		Convey("Then per-round rows are ordered by round", func() {
			So(board[0].Rounds, ShouldHaveLength, 2)
			So(board[0].Rounds[0].Round, ShouldEqual, 1)
			So(board[0].Rounds[1].Round, ShouldEqual, 2)
			So(board[0].Rounds[1].TotalPoints, ShouldEqual, 0.5)
		})

		Convey("Then unknown participants and rounds are ignored", func() {
			So(board[1].Rounds, ShouldHaveLength, 1)
		})
	})
}

func TestSeasonStats(t *testing.T) {
	Convey("Given results with a gap", t, func() {
		results := []model.Result{
			{Round: 1, Subject: "josh", Stat: "pts", Value: 10},
			{Round: 2, Subject: "josh", Stat: "pts", Value: 7},
			{Round: 3, Subject: "josh", Stat: "pts", Value: 6},
			{Round: 1, Subject: "josh", Stat: "ast", Value: 4},
			{Round: 1, Subject: "andy", Stat: "pts", Value: 0},
		}

		got := standings.SeasonStats([]string{"josh", "andy", "tyler"}, []string{"pts", "ast"}, results)

		Convey("Then per-game averages count only tracked games", func() {
			So(got[0].Player, ShouldEqual, "josh")
			So(got[0].Stats["pts"], ShouldResemble, standings.StatLine{Total: 23, Games: 3, PerGame: 7.7})
			So(got[0].Stats["ast"], ShouldResemble, standings.StatLine{Total: 4, Games: 1, PerGame: 4})
		})

		Convey("Then a recorded zero is a game but a missing result is not", func() {
			So(got[1].Stats["pts"], ShouldResemble, standings.StatLine{Total: 0, Games: 1, PerGame: 0})
			So(got[1].Stats["ast"].Games, ShouldEqual, 0)
			So(got[2].Stats["pts"], ShouldResemble, standings.StatLine{})
		})
	})
}

func TestWeeklyMVPs(t *testing.T) {
	Convey("Given team MVP outcomes for some rounds", t, func() {
		props := []model.PropResult{
			{Round: 1, Category: "team_mvp", Winners: []string{"josh"}},
			{Round: 1, Category: "most_missed_ft", Winners: []string{"andy"}},
			{Round: 3, Category: "team_mvp", Winners: []string{"andy", "ronit"}},
		}

		got := standings.WeeklyMVPs([]int{1, 2, 3}, "team_mvp", props)

		So(got, ShouldResemble, []standings.MVP{
			{Round: 1, Winners: []string{"josh"}},
			{Round: 2, Winners: []string{}},
			{Round: 3, Winners: []string{"andy", "ronit"}},
		})
	})
}
