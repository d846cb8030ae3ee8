package scoring_test

import (
	"testing"

	"github.com/okian/jungle/internal/domain/model"
	scoring "github.com/okian/jungle/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func pick(picker, subject, stat string, picked bool) model.Pick {
	return model.Pick{Round: 1, Picker: picker, Subject: subject, Stat: stat, Picked: picked}
}

func TestCalculator_Picks(t *testing.T) {
	Convey("Given a calculator with default weights", t, func() {
		calc := scoring.NewCalculator()
		lines := []model.Line{{Round: 1, Subject: "josh", Stat: "pts", Value: 10}}

		Convey("When the result ties the line", func() {
			got := calc.Calculate(scoring.Input{
				Picks:   []model.Pick{pick("andy", "josh", "pts", true)},
				Lines:   lines,
				Results: []model.Result{{Round: 1, Subject: "josh", Stat: "pts", Value: 10}},
			})

			Convey("Then the pick counts as a hit", func() {
				So(got["andy"].CorrectPicks, ShouldEqual, 1)
				So(got["andy"].MissedPicks, ShouldEqual, 0)
				So(got["andy"].TotalPoints, ShouldEqual, 1.0)
			})
		})

		Convey("When the result falls short of the line", func() {
			got := calc.Calculate(scoring.Input{
				Picks:   []model.Pick{pick("andy", "josh", "pts", true)},
				Lines:   lines,
				Results: []model.Result{{Round: 1, Subject: "josh", Stat: "pts", Value: 9}},
			})

			Convey("Then the miss costs half a point", func() {
				So(got["andy"].MissedPicks, ShouldEqual, 1)
				So(got["andy"].TotalPoints, ShouldEqual, -0.5)
			})
		})

		Convey("When the pick was not taken", func() {
			got := calc.Calculate(scoring.Input{
				Picks:   []model.Pick{pick("andy", "josh", "pts", false)},
				Lines:   lines,
				Results: []model.Result{{Round: 1, Subject: "josh", Stat: "pts", Value: 3}},
			})

			Convey("Then the picker appears with nothing graded", func() {
				So(got, ShouldContainKey, "andy")
				So(got["andy"], ShouldResemble, model.Breakdown{})
			})
		})

		Convey("When the stat was not tracked", func() {
			got := calc.Calculate(scoring.Input{
				Picks: []model.Pick{pick("andy", "josh", "pts", true)},
				Lines: lines,
			})

			Convey("Then the pick earns neither credit nor penalty", func() {
				So(got["andy"], ShouldResemble, model.Breakdown{})
			})
		})

		Convey("When there is no published line", func() {
			got := calc.Calculate(scoring.Input{
				Picks:   []model.Pick{pick("andy", "josh", "pts", true)},
				Results: []model.Result{{Round: 1, Subject: "josh", Stat: "pts", Value: 20}},
			})

			Convey("Then the pick is skipped", func() {
				So(got["andy"].CorrectPicks, ShouldEqual, 0)
				So(got["andy"].TotalPoints, ShouldEqual, 0)
			})
		})
	})
}

func TestCalculator_ExactLines(t *testing.T) {
	Convey("Given a prediction that matches the final stat exactly", t, func() {
		calc := scoring.NewCalculator()
		in := scoring.Input{
			Predictions: []model.Prediction{
				{Round: 1, Submitter: "ronit", Subject: "andy", Stat: "ast", Value: 7},
				{Round: 1, Submitter: "pranav", Subject: "andy", Stat: "ast", Value: 6},
				{Round: 1, Submitter: "pranav", Subject: "andy", Stat: "blk", Value: 1},
			},
			Results: []model.Result{{Round: 1, Subject: "andy", Stat: "ast", Value: 7}},
		}

		Convey("When the round is graded", func() {
			got := calc.Calculate(in)

			Convey("Then the submitter earns the bonus without any pick", func() {
				So(got["ronit"].ExactLines, ShouldEqual, 1)
				So(got["ronit"].TotalPoints, ShouldEqual, 1.0)
			})

			Convey("And near misses and untracked stats earn nothing", func() {
				So(got["pranav"].ExactLines, ShouldEqual, 0)
				So(got["pranav"].TotalPoints, ShouldEqual, 0)
			})
		})

		Convey("When the submitter also picked the over", func() {
			in.Lines = []model.Line{{Round: 1, Subject: "andy", Stat: "ast", Value: 6}}
			in.Picks = []model.Pick{pick("ronit", "andy", "ast", true)}
			got := calc.Calculate(in)

			Convey("Then both the hit and the bonus count", func() {
				So(got["ronit"].CorrectPicks, ShouldEqual, 1)
				So(got["ronit"].ExactLines, ShouldEqual, 1)
				So(got["ronit"].TotalPoints, ShouldEqual, 2.0)
			})
		})
	})
}

func TestCalculator_Props(t *testing.T) {
	Convey("Given prop picks", t, func() {
		calc := scoring.NewCalculator()
		picks := []model.PropPick{
			{Round: 1, Picker: "andy", Category: "team_mvp", Choice: "josh"},
			{Round: 1, Picker: "ronit", Category: "team_mvp", Choice: "andy"},
			{Round: 1, Picker: "josh", Category: "most_missed_ft", Choice: "ronit"},
		}

		Convey("When the category has not been resolved", func() {
			got := calc.Calculate(scoring.Input{PropPicks: picks})

			Convey("Then no win or miss is recorded", func() {
				for _, id := range []string{"andy", "ronit", "josh"} {
					So(got, ShouldContainKey, id)
					So(got[id].PropWins, ShouldEqual, 0)
					So(got[id].PropMisses, ShouldEqual, 0)
				}
			})
		})

		Convey("When the winner set is empty", func() {
			got := calc.Calculate(scoring.Input{
				PropPicks:   picks,
				PropResults: []model.PropResult{{Round: 1, Category: "team_mvp"}},
			})

			Convey("Then it behaves like an unresolved category", func() {
				So(got["andy"].PropMisses, ShouldEqual, 0)
				So(got["ronit"].PropMisses, ShouldEqual, 0)
			})
		})

		Convey("When the category is resolved", func() {
			got := calc.Calculate(scoring.Input{
				PropPicks:   picks,
				PropResults: []model.PropResult{{Round: 1, Category: "team_mvp", Winners: []string{"josh"}}},
			})

			Convey("Then the winner earns a point", func() {
				So(got["andy"].PropWins, ShouldEqual, 1)
				So(got["andy"].TotalPoints, ShouldEqual, 1.0)
			})

			Convey("And a wrong pick is recorded without a penalty", func() {
				So(got["ronit"].PropMisses, ShouldEqual, 1)
				So(got["ronit"].TotalPoints, ShouldEqual, 0)
			})

			Convey("And other categories stay untouched", func() {
				So(got["josh"], ShouldResemble, model.Breakdown{})
			})
		})

		Convey("When the category ended in a tie", func() {
			got := calc.Calculate(scoring.Input{
				PropPicks:   picks,
				PropResults: []model.PropResult{{Round: 1, Category: "team_mvp", Winners: []string{"josh", "andy"}}},
			})

			Convey("Then every pick on a co-winner pays", func() {
				So(got["andy"].PropWins, ShouldEqual, 1)
				So(got["ronit"].PropWins, ShouldEqual, 1)
			})
		})
	})
}

func TestCalculator_Totals(t *testing.T) {
	Convey("Given a busy round", t, func() {
		in := scoring.Input{
			Lines: []model.Line{
				{Round: 3, Subject: "josh", Stat: "pts", Value: 12},
				{Round: 3, Subject: "josh", Stat: "3pm", Value: 2},
				{Round: 3, Subject: "andy", Stat: "ast", Value: 4},
			},
			Results: []model.Result{
				{Round: 3, Subject: "josh", Stat: "pts", Value: 14},
				{Round: 3, Subject: "josh", Stat: "3pm", Value: 1},
				{Round: 3, Subject: "andy", Stat: "ast", Value: 4},
			},
			Picks: []model.Pick{
				pick("ronit", "josh", "pts", true),
				pick("ronit", "josh", "3pm", true),
				pick("ronit", "andy", "ast", true),
			},
			Predictions: []model.Prediction{
				{Round: 3, Submitter: "ronit", Subject: "andy", Stat: "ast", Value: 4},
			},
			PropPicks: []model.PropPick{
				{Round: 3, Picker: "ronit", Category: "team_mvp", Choice: "josh"},
				{Round: 3, Picker: "ronit", Category: "most_missed_ft", Choice: "andy"},
			},
			PropResults: []model.PropResult{
				{Round: 3, Category: "team_mvp", Winners: []string{"josh"}},
				{Round: 3, Category: "most_missed_ft", Winners: []string{"pranav"}},
			},
		}

		Convey("When graded with default weights", func() {
			got := scoring.NewCalculator().Calculate(in)["ronit"]

			Convey("Then the total is the weighted sum of the counts", func() {
				So(got.CorrectPicks, ShouldEqual, 2)
				So(got.MissedPicks, ShouldEqual, 1)
				So(got.ExactLines, ShouldEqual, 1)
				So(got.PropWins, ShouldEqual, 1)
				So(got.PropMisses, ShouldEqual, 1)
				So(got.TotalPoints, ShouldEqual, 2-0.5+1+1)
				So(got.TotalPoints, ShouldEqual, scoring.DefaultWeights().Total(got))
			})
		})

		Convey("When graded with configured weights", func() {
			calc := scoring.NewCalculator(scoring.WithWeightsFromConfig(map[string]float64{
				"hit":      2,
				"miss":     1,
				"prop_win": 3,
				"bogus":    100,
				"exact":    -4,
			}))
			got := calc.Calculate(in)["ronit"]

			Convey("Then known, non-negative overrides apply", func() {
				So(calc.Weights(), ShouldResemble, scoring.Weights{Hit: 2, Miss: 1, Exact: 1, PropWin: 3})
				So(got.TotalPoints, ShouldEqual, 2*2-1*1+1*1+1*3)
			})
		})

		Convey("When graded twice", func() {
			calc := scoring.NewCalculator()
			first := scoring.Scores(3, calc.Calculate(in))
			second := scoring.Scores(3, calc.Calculate(in))

			Convey("Then the records are identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestScores(t *testing.T) {
	Convey("Given breakdowns for several participants", t, func() {
		got := scoring.Scores(4, map[string]model.Breakdown{
			"vishi": {CorrectPicks: 1, TotalPoints: 1},
			"andy":  {},
			"josh":  {MissedPicks: 2, TotalPoints: -1},
		})

		Convey("Then records are keyed by round and sorted by participant", func() {
			So(got, ShouldHaveLength, 3)
			So(got[0].Participant, ShouldEqual, "andy")
			So(got[1].Participant, ShouldEqual, "josh")
			So(got[2].Participant, ShouldEqual, "vishi")
			for _, s := range got {
				So(s.Round, ShouldEqual, 4)
			}
			So(got[1].TotalPoints, ShouldEqual, -1)
		})
	})
}

func TestWinners(t *testing.T) {
	Convey("Given stored winner strings", t, func() {
		So(scoring.ParseWinners("josh"), ShouldResemble, []string{"josh"})
		So(scoring.ParseWinners(" josh , andy,"), ShouldResemble, []string{"josh", "andy"})
		So(scoring.ParseWinners("josh,josh"), ShouldResemble, []string{"josh"})
		So(scoring.ParseWinners(""), ShouldBeEmpty)
		So(scoring.ParseWinners(" , "), ShouldBeEmpty)

		Convey("Then formatting normalises the list", func() {
			So(scoring.FormatWinners([]string{" andy", "josh ", "andy", ""}), ShouldEqual, "andy,josh")
			So(scoring.FormatWinners(nil), ShouldEqual, "")
		})
	})
}

func TestKnownWeight(t *testing.T) {
	Convey("Given weight keys", t, func() {
		for _, name := range []string{scoring.WeightHit, scoring.WeightMiss, scoring.WeightExact, scoring.WeightPropWin} {
			So(scoring.KnownWeight(name), ShouldBeTrue)
		}
		So(scoring.KnownWeight("bonus"), ShouldBeFalse)
		So(scoring.KnownWeight(""), ShouldBeFalse)
	})
}
