package service

import (
	"context"

	"github.com/okian/jungle/internal/domain/league"
	"github.com/okian/jungle/internal/domain/standings"
)

// SeasonReport is the season stat table with the weekly MVPs.
type SeasonReport struct {
	Stats   []league.Item           `json:"stats"`
	Players []standings.PlayerStats `json:"players"`
	MVPs    []standings.MVP         `json:"mvps"`
}

// Leaderboard ranks every bettor by season points. A positive limit
// truncates the result.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]standings.Standing, error) {
	scores, err := s.store.Scores(ctx, 0)
	if err != nil {
		return nil, err
	}
	rows := standings.Leaderboard(s.league.Bettors(), scores, s.schedule.Numbers())
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// SeasonStats aggregates every recorded result per player and stat.
func (s *Service) SeasonStats(ctx context.Context) (SeasonReport, error) {
	results, err := s.store.Results(ctx, 0)
	if err != nil {
		return SeasonReport{}, err
	}
	props, err := s.store.PropResults(ctx, 0)
	if err != nil {
		return SeasonReport{}, err
	}

	catalog := s.league.Stats()
	keys := make([]string, 0, len(catalog))
	for _, it := range catalog {
		keys = append(keys, it.Key)
	}

	return SeasonReport{
		Stats:   catalog,
		Players: standings.SeasonStats(s.league.Players(), keys, results),
		MVPs:    standings.WeeklyMVPs(s.schedule.Numbers(), league.PropTeamMVP, props),
	}, nil
}
