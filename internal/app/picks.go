package service

import (
	"context"
	"fmt"

	"github.com/okian/jungle/internal/domain/lines"
	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/internal/domain/phase"
	"github.com/okian/jungle/pkg/logger"
	"github.com/okian/jungle/pkg/metrics"
)

// PickInput takes (Picked) or drops the over on one line.
type PickInput struct {
	Player string `json:"player"`
	Stat   string `json:"stat"`
	Picked bool   `json:"picked"`
}

// PropPickInput chooses a player for a prop category. An empty choice is ignored.
type PropPickInput struct {
	Category string `json:"category"`
	Choice   string `json:"choice"`
}

// PickSheet is everything a participant needs to fill in picks.
type PickSheet struct {
	Round       RoundInfo          `json:"round"`
	Lines       []model.Line       `json:"lines"`
	Picks       []model.Pick       `json:"picks"`
	PropPicks   []model.PropPick   `json:"prop_picks"`
	Suggestions []model.Suggestion `json:"suggestions"`
}

// SavePicks upserts participant's picks and prop picks for round. Allowed
// until picks lock; graded picks cannot change.
func (s *Service) SavePicks(ctx context.Context, participant string, round int, picks []PickInput, props []PropPickInput) (PickSheet, error) {
	if err := s.bettor(participant); err != nil {
		return PickSheet{}, err
	}
	_, ph, err := s.phaseOf(round)
	if err != nil {
		return PickSheet{}, err
	}
	if ph == phase.Locked {
		return PickSheet{}, fmt.Errorf("%w: round %d picks are closed", ErrLocked, round)
	}

	published, err := s.store.Lines(ctx, round)
	if err != nil {
		return PickSheet{}, err
	}
	hasLine := make(map[model.Key]bool, len(published))
	for _, l := range published {
		hasLine[l.Key()] = true
	}

	existing, err := s.store.PicksBy(ctx, round, participant)
	if err != nil {
		return PickSheet{}, err
	}
	locked := make(map[model.Key]bool, len(existing))
	for _, p := range existing {
		if p.Locked {
			locked[p.Key()] = true
		}
	}

	byKey := make(map[model.Key]int, len(picks))
	rows := make([]model.Pick, 0, len(picks))
	for _, in := range picks {
		if !s.league.HasStat(in.Stat) {
			return PickSheet{}, fmt.Errorf("%w: %q", ErrUnknownStat, in.Stat)
		}
		p := model.Pick{Round: round, Picker: participant, Subject: in.Player, Stat: in.Stat, Picked: in.Picked}
		if !hasLine[p.Key()] {
			return PickSheet{}, fmt.Errorf("%w: %s %s in round %d", ErrNoLine, in.Player, in.Stat, round)
		}
		if locked[p.Key()] {
			return PickSheet{}, fmt.Errorf("%w: pick on %s %s in round %d is graded", ErrLocked, in.Player, in.Stat, round)
		}
		if i, dup := byKey[p.Key()]; dup {
			rows[i] = p
			continue
		}
		byKey[p.Key()] = len(rows)
		rows = append(rows, p)
	}

	byCategory := make(map[string]int, len(props))
	propRows := make([]model.PropPick, 0, len(props))
	for _, in := range props {
		if !s.league.HasProp(in.Category) {
			return PickSheet{}, fmt.Errorf("%w: %q", ErrUnknownProp, in.Category)
		}
		if in.Choice == "" {
			continue
		}
		if !s.league.OnRoster(in.Choice, round) {
			return PickSheet{}, fmt.Errorf("%w: %q in round %d", ErrNotOnRoster, in.Choice, round)
		}
		p := model.PropPick{Round: round, Picker: participant, Category: in.Category, Choice: in.Choice}
		if i, dup := byCategory[p.Category]; dup {
			propRows[i] = p
			continue
		}
		byCategory[p.Category] = len(propRows)
		propRows = append(propRows, p)
	}

	if err := s.store.SavePicks(ctx, rows); err != nil {
		return PickSheet{}, err
	}
	if err := s.store.SavePropPicks(ctx, propRows); err != nil {
		return PickSheet{}, err
	}
	metrics.RecordPicksSaved(len(rows) + len(propRows))
	s.logger.Info(ctx, "picks saved",
		logger.String("participant", participant),
		logger.Int("round", round),
		logger.Int("picks", len(rows)),
		logger.Int("props", len(propRows)),
	)

	return s.PickSheet(ctx, participant, round)
}

// PickSheet returns round's lines with participant's picks and the
// suggestions derived from their own predictions.
func (s *Service) PickSheet(ctx context.Context, participant string, round int) (PickSheet, error) {
	if err := s.bettor(participant); err != nil {
		return PickSheet{}, err
	}
	r, err := s.round(round)
	if err != nil {
		return PickSheet{}, err
	}

	published, err := s.store.Lines(ctx, round)
	if err != nil {
		return PickSheet{}, err
	}
	picks, err := s.store.PicksBy(ctx, round, participant)
	if err != nil {
		return PickSheet{}, err
	}
	props, err := s.store.PropPicksBy(ctx, round, participant)
	if err != nil {
		return PickSheet{}, err
	}
	own, err := s.store.PredictionsBy(ctx, round, participant)
	if err != nil {
		return PickSheet{}, err
	}

	return PickSheet{
		Round:       s.info(r, s.now()),
		Lines:       published,
		Picks:       picks,
		PropPicks:   props,
		Suggestions: lines.Suggest(own, published),
	}, nil
}
