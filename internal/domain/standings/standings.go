// Package standings derives season-level views from per-round records.
package standings

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/jungle/internal/domain/model"
)

// RoundPoints is one participant's breakdown for a single round.
type RoundPoints struct {
	Round int `json:"round"`
	model.Breakdown
}

// Standing is a leaderboard row.
type Standing struct {
	Rank        int    `json:"rank"`
	Participant string `json:"participant"`
	model.Breakdown
	Rounds []RoundPoints `json:"rounds"`
}

// Leaderboard sums score records across rounds. Every participant gets a
// row even without scores. Records for unknown participants or rounds are
// ignored. Rows are ordered by total points descending, then id.
func Leaderboard(participants []string, scores []model.Score, rounds []int) []Standing {
	rows := make(map[string]*Standing, len(participants))
	sums := make(map[string]decimal.Decimal, len(participants))
	for _, id := range participants {
		rows[id] = &Standing{Participant: id, Rounds: []RoundPoints{}}
		sums[id] = decimal.Zero
	}

	for _, s := range scores {
		row, ok := rows[s.Participant]
		if !ok || !slices.Contains(rounds, s.Round) {
			continue
		}
		row.CorrectPicks += s.CorrectPicks
		row.MissedPicks += s.MissedPicks
		row.ExactLines += s.ExactLines
		row.PropWins += s.PropWins
		row.PropMisses += s.PropMisses
		sums[s.Participant] = sums[s.Participant].Add(decimal.NewFromFloat(s.TotalPoints))
		row.Rounds = append(row.Rounds, RoundPoints{Round: s.Round, Breakdown: s.Breakdown})
	}

	out := make([]Standing, 0, len(rows))
	for id, row := range rows {
		row.TotalPoints = sums[id].InexactFloat64()
		sort.Slice(row.Rounds, func(i, j int) bool { return row.Rounds[i].Round < row.Rounds[j].Round })
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].Participant < out[j].Participant
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// StatLine is a player's season aggregate for one stat.
type StatLine struct {
	Total   float64 `json:"total"`
	Games   int     `json:"games"`
	PerGame float64 `json:"per_game"`
}

// PlayerStats is a player's season aggregates keyed by stat.
type PlayerStats struct {
	Player string              `json:"player"`
	Stats  map[string]StatLine `json:"stats"`
}

// SeasonStats aggregates results per player and stat. Only recorded
// results count as games; a round without a result for a stat is not
// tracked and never counts as zero. The per-game value is rounded to one
// decimal place.
func SeasonStats(players, stats []string, results []model.Result) []PlayerStats {
	type acc struct {
		total decimal.Decimal
		games int
	}
	byKey := make(map[model.Key]*acc)
	for _, r := range results {
		k := r.Key()
		a, ok := byKey[k]
		if !ok {
			a = &acc{total: decimal.Zero}
			byKey[k] = a
		}
		a.total = a.total.Add(decimal.NewFromFloat(r.Value))
		a.games++
	}

	out := make([]PlayerStats, 0, len(players))
	for _, p := range players {
		ps := PlayerStats{Player: p, Stats: make(map[string]StatLine, len(stats))}
		for _, stat := range stats {
			a, ok := byKey[model.Key{Subject: p, Stat: stat}]
			if !ok {
				ps.Stats[stat] = StatLine{}
				continue
			}
			ps.Stats[stat] = StatLine{
				Total:   a.total.InexactFloat64(),
				Games:   a.games,
				PerGame: a.total.Div(decimal.NewFromInt(int64(a.games))).Round(1).InexactFloat64(),
			}
		}
		out = append(out, ps)
	}
	return out
}

// MVP is the team MVP outcome of one round. Winners is empty until resolved.
type MVP struct {
	Round   int      `json:"round"`
	Winners []string `json:"winners"`
}

// WeeklyMVPs returns the team MVP winners of every round in order.
func WeeklyMVPs(rounds []int, category string, props []model.PropResult) []MVP {
	byRound := make(map[int][]string)
	for _, p := range props {
		if p.Category == category {
			byRound[p.Round] = p.Winners
		}
	}
	out := make([]MVP, 0, len(rounds))
	for _, r := range rounds {
		w := byRound[r]
		if w == nil {
			w = []string{}
		}
		out = append(out, MVP{Round: r, Winners: w})
	}
	return out
}
