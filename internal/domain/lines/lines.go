// Package lines turns raw per-player predictions into published lines.
package lines

import (
	"math"
	"sort"

	"github.com/okian/jungle/internal/domain/model"
)

// Quartile positions and the outlier fence multiplier.
const (
	q1Position    = 0.25
	q3Position    = 0.75
	fenceMultiple = 1.5
)

// Aggregate collapses predictions for one (round, subject, stat) triple
// into a single value rounded to the nearest integer.
//
// With three or more values, anything outside [Q1-1.5*IQR, Q3+1.5*IQR] is
// dropped before averaging. Quartiles are read at index floor(n*p) of the
// sorted values; they are not interpolated. An empty input returns 0 and
// callers are expected not to publish a line for it.
func Aggregate(values []float64) float64 {
	switch len(values) {
	case 0:
		return 0
	case 1:
		return math.Round(values[0])
	case 2:
		return math.Round((values[0] + values[1]) / 2)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*q1Position))]
	q3 := sorted[int(math.Floor(float64(n)*q3Position))]
	iqr := q3 - q1
	lower := q1 - fenceMultiple*iqr
	upper := q3 + fenceMultiple*iqr

	var sum float64
	var kept int
	for _, v := range sorted {
		if v >= lower && v <= upper {
			sum += v
			kept++
		}
	}
	if kept == 0 {
		return math.Round(sorted[n/2])
	}
	return math.Round(sum / float64(kept))
}

// Build groups predictions by (subject, stat) and aggregates each group.
// Groups without predictions produce no line. Output is ordered by
// subject, then stat.
func Build(round int, predictions []model.Prediction) []model.Line {
	groups := make(map[model.Key][]float64)
	for _, p := range predictions {
		groups[p.Key()] = append(groups[p.Key()], p.Value)
	}

	out := make([]model.Line, 0, len(groups))
	for key, values := range groups {
		if len(values) == 0 {
			continue
		}
		out = append(out, model.Line{
			Round:   round,
			Subject: key.Subject,
			Stat:    key.Stat,
			Value:   Aggregate(values),
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
