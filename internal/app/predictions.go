package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/jungle/internal/adapters/mq/queue"
	"github.com/okian/jungle/internal/domain/lines"
	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/internal/domain/phase"
	"github.com/okian/jungle/pkg/logger"
	"github.com/okian/jungle/pkg/metrics"
)

// PredictionInput is one predicted stat value.
type PredictionInput struct {
	Player string  `json:"player"`
	Stat   string  `json:"stat"`
	Value  float64 `json:"value"`
}

// SubmitPredictions replaces participant's predictions for round and
// schedules line regeneration. Allowed only while the round is open.
func (s *Service) SubmitPredictions(ctx context.Context, participant string, round int, inputs []PredictionInput) ([]model.Prediction, error) {
	if err := s.bettor(participant); err != nil {
		return nil, err
	}
	_, ph, err := s.phaseOf(round)
	if err != nil {
		return nil, err
	}
	if ph != phase.Open {
		return nil, fmt.Errorf("%w: round %d is %s", ErrLocked, round, ph)
	}

	byKey := make(map[model.Key]int, len(inputs))
	preds := make([]model.Prediction, 0, len(inputs))
	for _, in := range inputs {
		if err := s.checkActive(in.Player, in.Stat, round); err != nil {
			return nil, err
		}
		if err := checkValue(in.Value); err != nil {
			return nil, err
		}
		p := model.Prediction{Round: round, Submitter: participant, Subject: in.Player, Stat: in.Stat, Value: in.Value}
		// a repeated key keeps the last value
		if i, dup := byKey[p.Key()]; dup {
			preds[i] = p
			continue
		}
		byKey[p.Key()] = len(preds)
		preds = append(preds, p)
	}

	if err := s.store.ReplacePredictions(ctx, round, participant, preds); err != nil {
		return nil, err
	}
	metrics.RecordPredictionsSubmitted(len(preds))
	s.logger.Info(ctx, "predictions submitted",
		logger.String("participant", participant),
		logger.Int("round", round),
		logger.Int("count", len(preds)),
	)

	if err := s.trigger(ctx, queue.Job{Kind: queue.KindLines, Round: round}); err != nil {
		return preds, err
	}
	return preds, nil
}

// Predictions returns participant's own predictions for round.
func (s *Service) Predictions(ctx context.Context, participant string, round int) ([]model.Prediction, error) {
	if err := s.bettor(participant); err != nil {
		return nil, err
	}
	if _, err := s.round(round); err != nil {
		return nil, err
	}
	return s.store.PredictionsBy(ctx, round, participant)
}

// RefreshLines rebuilds round's lines from every prediction submitted so far.
func (s *Service) RefreshLines(ctx context.Context, round int) ([]model.Line, error) {
	if _, err := s.round(round); err != nil {
		return nil, err
	}
	defer s.running.lock(queue.Job{Kind: queue.KindLines, Round: round})()

	start := time.Now()
	out, err := s.store.RebuildLines(ctx, round, func(preds []model.Prediction) []model.Line {
		return lines.Build(round, preds)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordLinesPublished(len(out))
	s.logger.Debug(ctx, "lines rebuilt",
		logger.Int("round", round),
		logger.Int("lines", len(out)),
		logger.Duration("took", time.Since(start)),
	)
	return out, nil
}

// Lines returns round's published lines.
func (s *Service) Lines(ctx context.Context, round int) ([]model.Line, error) {
	if _, err := s.round(round); err != nil {
		return nil, err
	}
	return s.store.Lines(ctx, round)
}

// checkActive rejects subjects who are off the roster or injured and
// stats outside the catalog.
func (s *Service) checkActive(player, stat string, round int) error {
	if !s.league.OnRoster(player, round) || s.league.Injured(player, round) {
		return fmt.Errorf("%w: %q in round %d", ErrNotOnRoster, player, round)
	}
	if !s.league.HasStat(stat) {
		return fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}
	return nil
}

func checkValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, v)
	}
	return nil
}
