package lines

import (
	"sort"

	"github.com/okian/jungle/internal/domain/model"
)

// Suggest compares a participant's own predictions with the published
// lines. A suggestion to take the over is made when the participant
// predicted at least the line. Lines the participant did not predict get
// no suggestion.
func Suggest(own []model.Prediction, published []model.Line) []model.Suggestion {
	mine := make(map[model.Key]float64, len(own))
	for _, p := range own {
		mine[p.Key()] = p.Value
	}

	out := make([]model.Suggestion, 0, len(mine))
	for _, l := range published {
		v, ok := mine[l.Key()]
		if !ok {
			continue
		}
		out = append(out, model.Suggestion{
			Subject:   l.Subject,
			Stat:      l.Stat,
			Line:      l.Value,
			Predicted: v,
			Over:      v >= l.Value,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Stat < out[j].Stat
	})
	return out
}
