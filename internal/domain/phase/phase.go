// Package phase maps wall-clock time onto the lock phases of a round.
package phase

import (
	"fmt"
	"time"
)

// Phase labels the mutation window a round is in.
type Phase string

const (
	// Open accepts predictions and picks.
	Open Phase = "open"
	// PicksOpen accepts picks only; lines are frozen.
	PicksOpen Phase = "picks_open"
	// Locked accepts nothing but results.
	Locked Phase = "locked"
)

// String implements fmt.Stringer.
func (p Phase) String() string { return string(p) }

// Threshold is a phase that lasts until At.
type Threshold struct {
	At    time.Time
	Phase Phase
}

// Schedule is an ordered list of thresholds followed by a terminal phase.
type Schedule struct {
	Thresholds []Threshold
	Terminal   Phase
}

// At returns the phase of the first threshold now is strictly before,
// or the terminal phase once every threshold has passed.
func (s Schedule) At(now time.Time) Phase {
	for _, t := range s.Thresholds {
		if now.Before(t.At) {
			return t.Phase
		}
	}
	return s.Terminal
}

// Of is the two-phase form: Open before lock, Locked from lock onward.
func Of(now, lock time.Time) Phase {
	return Schedule{
		Thresholds: []Threshold{{At: lock, Phase: Open}},
		Terminal:   Locked,
	}.At(now)
}

// Remaining renders the time left until target.
func Remaining(now, target time.Time) string {
	diff := target.Sub(now)
	if diff <= 0 {
		return "Locked"
	}
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	if hours > 24 {
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
