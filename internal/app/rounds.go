package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/jungle/internal/domain/phase"
	"github.com/okian/jungle/internal/domain/schedule"
)

// RoundInfo is a scheduled round as seen at a point in time.
type RoundInfo struct {
	Number          int         `json:"round"`
	Label           string      `json:"label"`
	StartsAt        time.Time   `json:"starts_at"`
	LinesLockAt     time.Time   `json:"lines_lock_at"`
	PicksLockAt     time.Time   `json:"picks_lock_at"`
	ResultsDeadline time.Time   `json:"results_deadline"`
	Phase           phase.Phase `json:"phase"`
	NextLock        time.Time   `json:"next_lock"`
	Remaining       string      `json:"remaining"`
}

func (s *Service) info(r schedule.Round, now time.Time) RoundInfo {
	next := r.NextLock(now)
	return RoundInfo{
		Number:          r.Number,
		Label:           r.Label,
		StartsAt:        r.StartsAt,
		LinesLockAt:     r.LinesLockAt,
		PicksLockAt:     r.PicksLockAt,
		ResultsDeadline: s.schedule.ResultsDeadline(r),
		Phase:           r.Phase(now),
		NextLock:        next,
		Remaining:       phase.Remaining(now, next),
	}
}

// Rounds lists every scheduled round in order.
func (s *Service) Rounds(_ context.Context) []RoundInfo {
	now := s.now()
	rounds := s.schedule.Rounds()
	out := make([]RoundInfo, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, s.info(r, now))
	}
	return out
}

// Round returns one round.
func (s *Service) Round(_ context.Context, number int) (RoundInfo, error) {
	r, err := s.round(number)
	if err != nil {
		return RoundInfo{}, err
	}
	return s.info(r, s.now()), nil
}

// CurrentRound returns the round whose results are still pending, or the
// last round once the season is over.
func (s *Service) CurrentRound(_ context.Context) (RoundInfo, error) {
	now := s.now()
	r, ok := s.schedule.Current(now)
	if !ok {
		return RoundInfo{}, fmt.Errorf("%w: no rounds scheduled", ErrUnknownRound)
	}
	return s.info(r, now), nil
}

func (s *Service) round(number int) (schedule.Round, error) {
	r, ok := s.schedule.Get(number)
	if !ok {
		return schedule.Round{}, fmt.Errorf("%w: %d", ErrUnknownRound, number)
	}
	return r, nil
}

// phaseOf resolves the round and its phase right now.
func (s *Service) phaseOf(number int) (schedule.Round, phase.Phase, error) {
	r, err := s.round(number)
	if err != nil {
		return schedule.Round{}, "", err
	}
	return r, r.Phase(s.now()), nil
}

// bettor checks that id may place predictions and picks.
func (s *Service) bettor(id string) error {
	if !s.league.Known(id) {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	if !s.league.IsBettor(id) {
		return fmt.Errorf("%w: %q", ErrNotBettor, id)
	}
	return nil
}
