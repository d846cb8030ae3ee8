package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/jungle/internal/adapters/mq/queue"
	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/internal/domain/phase"
	"github.com/okian/jungle/internal/domain/scoring"
	"github.com/okian/jungle/pkg/logger"
	"github.com/okian/jungle/pkg/metrics"
)

// ResultInput is the final value of one player's stat.
type ResultInput struct {
	Player string  `json:"player"`
	Stat   string  `json:"stat"`
	Value  float64 `json:"value"`
}

// RoundResults is the recorded box score and prop outcomes of a round.
type RoundResults struct {
	Round       int                `json:"round"`
	Results     []model.Result     `json:"results"`
	PropResults []model.PropResult `json:"prop_results"`
}

// SaveResults replaces round's results, sets the winners of each prop
// category given and schedules score recalculation. A category mapped to
// no winners is cleared. Allowed only once the round is locked.
func (s *Service) SaveResults(ctx context.Context, round int, results []ResultInput, propWinners map[string][]string) (RoundResults, error) {
	_, ph, err := s.phaseOf(round)
	if err != nil {
		return RoundResults{}, err
	}
	if ph != phase.Locked {
		return RoundResults{}, fmt.Errorf("%w: round %d is %s", ErrNotLocked, round, ph)
	}

	byKey := make(map[model.Key]int, len(results))
	rows := make([]model.Result, 0, len(results))
	for _, in := range results {
		if !s.league.OnRoster(in.Player, round) {
			return RoundResults{}, fmt.Errorf("%w: %q in round %d", ErrNotOnRoster, in.Player, round)
		}
		if !s.league.HasStat(in.Stat) {
			return RoundResults{}, fmt.Errorf("%w: %q", ErrUnknownStat, in.Stat)
		}
		if err := checkValue(in.Value); err != nil {
			return RoundResults{}, err
		}
		r := model.Result{Round: round, Subject: in.Player, Stat: in.Stat, Value: in.Value}
		if i, dup := byKey[r.Key()]; dup {
			rows[i] = r
			continue
		}
		byKey[r.Key()] = len(rows)
		rows = append(rows, r)
	}

	categories := make([]string, 0, len(propWinners))
	for category := range propWinners {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	props := make([]model.PropResult, 0, len(propWinners))
	for _, category := range categories {
		if !s.league.HasProp(category) {
			return RoundResults{}, fmt.Errorf("%w: %q", ErrUnknownProp, category)
		}
		winners := scoring.ParseWinners(scoring.FormatWinners(propWinners[category]))
		for _, w := range winners {
			if !s.league.OnRoster(w, round) {
				return RoundResults{}, fmt.Errorf("%w: %q in round %d", ErrNotOnRoster, w, round)
			}
		}
		props = append(props, model.PropResult{Round: round, Category: category, Winners: winners})
	}

	if err := s.store.ReplaceResults(ctx, round, rows); err != nil {
		return RoundResults{}, err
	}
	if err := s.store.SavePropResults(ctx, props); err != nil {
		return RoundResults{}, err
	}
	metrics.RecordResultsRecorded(len(rows))
	s.logger.Info(ctx, "results recorded",
		logger.Int("round", round),
		logger.Int("results", len(rows)),
		logger.Int("props", len(props)),
	)

	if err := s.trigger(ctx, queue.Job{Kind: queue.KindScores, Round: round}); err != nil {
		return RoundResults{}, err
	}
	return s.Results(ctx, round)
}

// Results returns round's recorded results and prop outcomes.
func (s *Service) Results(ctx context.Context, round int) (RoundResults, error) {
	if _, err := s.round(round); err != nil {
		return RoundResults{}, err
	}
	results, err := s.store.Results(ctx, round)
	if err != nil {
		return RoundResults{}, err
	}
	props, err := s.store.PropResults(ctx, round)
	if err != nil {
		return RoundResults{}, err
	}
	return RoundResults{Round: round, Results: results, PropResults: props}, nil
}

// CalculateScores grades round from everything recorded for it,
// overwrites its score records and locks its picks. Running it again
// without new data yields the same records.
func (s *Service) CalculateScores(ctx context.Context, round int) (_ []model.Score, err error) {
	_, ph, err := s.phaseOf(round)
	if err != nil {
		return nil, err
	}
	if ph != phase.Locked {
		return nil, fmt.Errorf("%w: round %d is %s", ErrNotLocked, round, ph)
	}
	defer s.running.lock(queue.Job{Kind: queue.KindScores, Round: round})()

	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000.0)
		if err != nil {
			metrics.RecordScoringError()
		}
	}()

	in, err := s.scoringInput(ctx, round)
	if err != nil {
		return nil, err
	}
	scores := scoring.Scores(round, s.calc.Calculate(in))

	if err := s.store.ReplaceScores(ctx, round, scores); err != nil {
		return nil, err
	}
	locked, err := s.store.LockPicks(ctx, round)
	if err != nil {
		return nil, err
	}
	metrics.RecordScoresCalculated(len(scores))
	s.logger.Info(ctx, "scores calculated",
		logger.Int("round", round),
		logger.Int("participants", len(scores)),
		logger.Int("picksLocked", int(locked)),
	)
	return scores, nil
}

func (s *Service) scoringInput(ctx context.Context, round int) (scoring.Input, error) {
	var (
		in  scoring.Input
		err error
	)
	if in.Picks, err = s.store.Picks(ctx, round); err != nil {
		return in, err
	}
	if in.Lines, err = s.store.Lines(ctx, round); err != nil {
		return in, err
	}
	if in.Results, err = s.store.Results(ctx, round); err != nil {
		return in, err
	}
	if in.Predictions, err = s.store.Predictions(ctx, round); err != nil {
		return in, err
	}
	if in.PropPicks, err = s.store.PropPicks(ctx, round); err != nil {
		return in, err
	}
	if in.PropResults, err = s.store.PropResults(ctx, round); err != nil {
		return in, err
	}
	return in, nil
}

// RoundScores returns round's score records ordered by participant.
func (s *Service) RoundScores(ctx context.Context, round int) ([]model.Score, error) {
	if _, err := s.round(round); err != nil {
		return nil, err
	}
	return s.store.Scores(ctx, round)
}

// ParticipantScore returns one participant's record for round.
func (s *Service) ParticipantScore(ctx context.Context, round int, participant string) (model.Score, error) {
	if _, err := s.round(round); err != nil {
		return model.Score{}, err
	}
	if !s.league.Known(participant) {
		return model.Score{}, fmt.Errorf("%w: %q", ErrUnknownParticipant, participant)
	}
	return s.store.Score(ctx, round, participant)
}
