// Package schedule describes the season's rounds and which one is current.
package schedule

import (
	"slices"
	"time"

	"github.com/okian/jungle/internal/domain/phase"
)

// DefaultCutoffHourUTC is the hour on the day after a round when its
// results window closes and the next round becomes current.
const DefaultCutoffHourUTC = 14

// Round is one scheduled game.
type Round struct {
	Number      int       `json:"number"`
	Label       string    `json:"label"`
	StartsAt    time.Time `json:"starts_at"`
	LinesLockAt time.Time `json:"lines_lock_at"`
	PicksLockAt time.Time `json:"picks_lock_at"`
}

func (r Round) phases() phase.Schedule {
	return phase.Schedule{
		Thresholds: []phase.Threshold{
			{At: r.LinesLockAt, Phase: phase.Open},
			{At: r.PicksLockAt, Phase: phase.PicksOpen},
		},
		Terminal: phase.Locked,
	}
}

// Phase evaluates the round's phase at now.
func (r Round) Phase(now time.Time) phase.Phase {
	return r.phases().At(now)
}

// NextLock returns the lock the round is counting down to at now. Once
// locked it returns the picks lock, which is already in the past.
func (r Round) NextLock(now time.Time) time.Time {
	if r.Phase(now) == phase.Open {
		return r.LinesLockAt
	}
	return r.PicksLockAt
}

// Schedule is the ordered list of rounds.
type Schedule struct {
	rounds     []Round
	cutoffHour int
}

// Option configures a Schedule.
type Option func(*Schedule)

// WithCutoffHourUTC overrides DefaultCutoffHourUTC.
func WithCutoffHourUTC(hour int) Option {
	return func(s *Schedule) {
		if hour >= 0 && hour < 24 {
			s.cutoffHour = hour
		}
	}
}

// New sorts rounds by number and returns the schedule.
func New(rounds []Round, opts ...Option) *Schedule {
	s := &Schedule{
		rounds:     slices.Clone(rounds),
		cutoffHour: DefaultCutoffHourUTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	slices.SortFunc(s.rounds, func(a, b Round) int { return a.Number - b.Number })
	return s
}

// Rounds returns every round in order.
func (s *Schedule) Rounds() []Round { return slices.Clone(s.rounds) }

// Numbers returns every round number in order.
func (s *Schedule) Numbers() []int {
	out := make([]int, 0, len(s.rounds))
	for _, r := range s.rounds {
		out = append(out, r.Number)
	}
	return out
}

// Get looks up a round by number.
func (s *Schedule) Get(number int) (Round, bool) {
	for _, r := range s.rounds {
		if r.Number == number {
			return r, true
		}
	}
	return Round{}, false
}

// ResultsDeadline is the cutoff hour on the UTC day after the round starts.
func (s *Schedule) ResultsDeadline(r Round) time.Time {
	start := r.StartsAt.UTC()
	return time.Date(start.Year(), start.Month(), start.Day()+1, s.cutoffHour, 0, 0, 0, time.UTC)
}

// Current returns the first round whose results deadline is still ahead,
// or the last round once the season is over. It reports false only when
// the schedule is empty.
func (s *Schedule) Current(now time.Time) (Round, bool) {
	if len(s.rounds) == 0 {
		return Round{}, false
	}
	for _, r := range s.rounds {
		if now.Before(s.ResultsDeadline(r)) {
			return r, true
		}
	}
	return s.rounds[len(s.rounds)-1], true
}
