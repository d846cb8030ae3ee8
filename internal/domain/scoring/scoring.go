// Package scoring grades a round's picks, predictions and prop bets into
// per-participant point totals.
package scoring

import (
	"sort"

	"github.com/okian/jungle/internal/domain/model"
)

// Default point values.
const (
	defaultHitPoints     = 1.0
	defaultMissPenalty   = 0.5
	defaultExactPoints   = 1.0
	defaultPropWinPoints = 1.0
)

// Weight keys accepted by WithWeightsFromConfig.
const (
	WeightHit     = "hit"
	WeightMiss    = "miss"
	WeightExact   = "exact"
	WeightPropWin = "prop_win"
)

// KnownWeight reports whether name is a weight key WithWeightsFromConfig
// understands.
func KnownWeight(name string) bool {
	switch name {
	case WeightHit, WeightMiss, WeightExact, WeightPropWin:
		return true
	}
	return false
}

// Weights are the point values of each scoring category. Miss is a
// penalty and is subtracted.
type Weights struct {
	Hit     float64
	Miss    float64
	Exact   float64
	PropWin float64
}

// DefaultWeights returns the standard rule set: +1 per hit, -0.5 per
// missed over, +1 per exact prediction, +1 per prop win.
func DefaultWeights() Weights {
	return Weights{
		Hit:     defaultHitPoints,
		Miss:    defaultMissPenalty,
		Exact:   defaultExactPoints,
		PropWin: defaultPropWinPoints,
	}
}

// Total derives the point total from a breakdown's counts. Prop misses
// carry no penalty.
func (w Weights) Total(b model.Breakdown) float64 {
	return float64(b.CorrectPicks)*w.Hit -
		float64(b.MissedPicks)*w.Miss +
		float64(b.ExactLines)*w.Exact +
		float64(b.PropWins)*w.PropWin
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights replaces the full weight set.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		c.weights = w
	}
}

// WithWeightsFromConfig overrides individual weights from a config map.
// Unknown keys and negative values are ignored.
func WithWeightsFromConfig(weights map[string]float64) Option {
	return func(c *Calculator) {
		for name, v := range weights {
			if v < 0 {
				continue
			}
			switch name {
			case WeightHit:
				c.weights.Hit = v
			case WeightMiss:
				c.weights.Miss = v
			case WeightExact:
				c.weights.Exact = v
			case WeightPropWin:
				c.weights.PropWin = v
			}
		}
	}
}

// Input holds everything recorded for one round.
type Input struct {
	Picks       []model.Pick
	Lines       []model.Line
	Results     []model.Result
	Predictions []model.Prediction
	PropPicks   []model.PropPick
	PropResults []model.PropResult
}

// Calculator grades rounds. It holds no state besides its weights and is
// safe for concurrent use.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator with the default weights.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Weights returns the weights in use.
func (c *Calculator) Weights() Weights { return c.weights }

// Calculate grades one round. Every participant who appears in the picks,
// predictions or prop picks gets an entry, even when it totals zero.
// Missing lines, results or prop results contribute nothing.
func (c *Calculator) Calculate(in Input) map[string]model.Breakdown {
	lineByKey := make(map[model.Key]float64, len(in.Lines))
	for _, l := range in.Lines {
		lineByKey[l.Key()] = l.Value
	}
	resultByKey := make(map[model.Key]float64, len(in.Results))
	for _, r := range in.Results {
		resultByKey[r.Key()] = r.Value
	}
	winners := make(map[string]model.PropResult, len(in.PropResults))
	for _, pr := range in.PropResults {
		winners[pr.Category] = pr
	}

	out := make(map[string]model.Breakdown)

	for _, p := range in.Picks {
		b := out[p.Picker]
		if p.Picked {
			line, hasLine := lineByKey[p.Key()]
			result, hasResult := resultByKey[p.Key()]
			if hasLine && hasResult {
				// ties count as a hit
				if result >= line {
					b.CorrectPicks++
				} else {
					b.MissedPicks++
				}
			}
		}
		out[p.Picker] = b
	}

	for _, p := range in.Predictions {
		b := out[p.Submitter]
		if result, ok := resultByKey[p.Key()]; ok && p.Value == result {
			b.ExactLines++
		}
		out[p.Submitter] = b
	}

	for _, p := range in.PropPicks {
		b := out[p.Picker]
		if pr, ok := winners[p.Category]; ok && len(pr.Winners) > 0 {
			if pr.Has(p.Choice) {
				b.PropWins++
			} else {
				b.PropMisses++
			}
		}
		out[p.Picker] = b
	}

	for id, b := range out {
		b.TotalPoints = c.weights.Total(b)
		out[id] = b
	}
	return out
}

// Scores flattens calculated breakdowns into records for one round,
// ordered by participant so repeated runs persist identically.
func Scores(round int, breakdowns map[string]model.Breakdown) []model.Score {
	out := make([]model.Score, 0, len(breakdowns))
	for id, b := range breakdowns {
		out = append(out, model.Score{Round: round, Participant: id, Breakdown: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Participant < out[j].Participant })
	return out
}
