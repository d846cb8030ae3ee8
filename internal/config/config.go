// Package config defines service configuration and how it is loaded.
package config

import (
	"time"

	"github.com/okian/jungle/internal/domain/league"
	"github.com/okian/jungle/internal/domain/schedule"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatabaseDriver is sqlite or postgres.
	DatabaseDriver string `koanf:"database_driver"`
	DatabaseDSN    string `koanf:"database_dsn"`

	// QueueSize bounds the recalculation job queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of recalculation workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize caps the number of pending job marks.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ResultsCutoffHourUTC is the hour on the day after a game when the
	// next round becomes current.
	ResultsCutoffHourUTC int `koanf:"results_cutoff_hour_utc"`

	// ScoringWeights overrides hit, miss, exact and prop_win points.
	ScoringWeights map[string]float64 `koanf:"scoring_weights"`

	Stats        []CatalogItem `koanf:"stats"`
	Props        []CatalogItem `koanf:"props"`
	Participants []Participant `koanf:"participants"`
	Rounds       []Round       `koanf:"rounds"`
}

// CatalogItem is a stat or prop category.
type CatalogItem struct {
	Key   string `koanf:"key"`
	Label string `koanf:"label"`
}

// Participant is a rostered teammate.
type Participant struct {
	ID          string `koanf:"id"`
	Bettor      bool   `koanf:"bettor"`
	Rounds      []int  `koanf:"rounds"`
	InjuredFrom int    `koanf:"injured_from"`
}

// Round is one scheduled game. Zero lock times default to StartsAt.
type Round struct {
	Number      int       `koanf:"number"`
	Label       string    `koanf:"label"`
	StartsAt    time.Time `koanf:"starts_at"`
	LinesLockAt time.Time `koanf:"lines_lock_at"`
	PicksLockAt time.Time `koanf:"picks_lock_at"`
}

// New creates a Config with defaults: a local SQLite file and the
// 2026 winter season.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		DatabaseDriver:       "sqlite",
		DatabaseDSN:          "file:jungle.db?_pragma=busy_timeout(5000)",
		QueueSize:            1024,
		WorkerCount:          2,
		DedupeSize:           1024,
		MaxLeaderboardLimit:  100,
		ResultsCutoffHourUTC: schedule.DefaultCutoffHourUTC,
		ScoringWeights: map[string]float64{
			"hit":      1.0,
			"miss":     0.5,
			"exact":    1.0,
			"prop_win": 1.0,
		},
		Stats: []CatalogItem{
			{Key: "pts", Label: "Points"},
			{Key: "3pm", Label: "3-Pointers"},
			{Key: "ast", Label: "Assists"},
			{Key: "stl", Label: "Steals"},
			{Key: "blk", Label: "Blocks"},
		},
		Props: []CatalogItem{
			{Key: league.PropMostMissedFT, Label: "Most Missed FTs"},
			{Key: league.PropTeamMVP, Label: "Team MVP"},
		},
		Participants: []Participant{
			{ID: "andy", Bettor: true},
			{ID: "andrew", Bettor: true, InjuredFrom: 3},
			{ID: "josh", Bettor: true},
			{ID: "ronit", Bettor: true},
			{ID: "aarnav", Bettor: true},
			{ID: "pranav", Bettor: true},
			{ID: "tyler", Rounds: []int{3, 4}},
			{ID: "vishi", Bettor: true, Rounds: []int{3}},
		},
		Rounds: []Round{
			gameAt(1, "Week 1", time.Date(2026, 2, 2, 23, 0, 0, 0, time.UTC)),
			gameAt(2, "Week 2", time.Date(2026, 2, 9, 23, 0, 0, 0, time.UTC)),
			gameAt(3, "Week 3", time.Date(2026, 2, 16, 23, 0, 0, 0, time.UTC)),
			gameAt(4, "Week 4", time.Date(2026, 2, 23, 23, 0, 0, 0, time.UTC)),
			gameAt(5, "Playoff 1", time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)),
		},
	}
}

// gameAt builds a round where lines and picks lock at tip-off.
func gameAt(n int, label string, start time.Time) Round {
	return Round{Number: n, Label: label, StartsAt: start, LinesLockAt: start, PicksLockAt: start}
}

// League builds the roster and catalogs.
func (c *Config) League() *league.League {
	participants := make([]league.Participant, 0, len(c.Participants))
	for _, p := range c.Participants {
		participants = append(participants, league.Participant{
			ID:          p.ID,
			Bettor:      p.Bettor,
			Rounds:      p.Rounds,
			InjuredFrom: p.InjuredFrom,
		})
	}
	return league.New(participants, catalog(c.Stats), catalog(c.Props))
}

func catalog(items []CatalogItem) []league.Item {
	out := make([]league.Item, 0, len(items))
	for _, it := range items {
		out = append(out, league.Item{Key: it.Key, Label: it.Label})
	}
	return out
}

// Schedule builds the season schedule.
func (c *Config) Schedule() *schedule.Schedule {
	rounds := make([]schedule.Round, 0, len(c.Rounds))
	for _, r := range c.Rounds {
		rounds = append(rounds, schedule.Round{
			Number:      r.Number,
			Label:       r.Label,
			StartsAt:    r.StartsAt,
			LinesLockAt: r.LinesLockAt,
			PicksLockAt: r.PicksLockAt,
		})
	}
	return schedule.New(rounds, schedule.WithCutoffHourUTC(c.ResultsCutoffHourUTC))
}
