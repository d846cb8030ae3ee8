package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/jungle/internal/domain/scoring"
)

const (
	envPrefix = "JUNGLE_"
	// envConfigFile names the optional YAML file.
	envConfigFile = envPrefix + "CONFIG"
	// envDotenvFile overrides the dotenv path; defaults to .env.
	envDotenvFile = envPrefix + "ENV_FILE"
)

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New())
//  2. a .env file, if present, exported into the process environment
//  3. the YAML file named by JUNGLE_CONFIG
//  4. env vars prefixed JUNGLE_
//
// List settings (stats, props, participants, rounds) given in the file
// replace the defaults wholesale; scoring_weights merges per key.
func Load(_ context.Context) (*Config, error) {
	base := New()

	dotenv := os.Getenv(envDotenvFile)
	if dotenv == "" {
		dotenv = ".env"
	}
	// godotenv never overrides variables already set.
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// JUNGLE_QUEUE_SIZE -> queue_size (flat keys, underscores kept).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if k.Exists("stats") {
		cfg.Stats = nil
	}
	if k.Exists("props") {
		cfg.Props = nil
	}
	if k.Exists("participants") {
		cfg.Participants = nil
	}
	if k.Exists("rounds") {
		cfg.Rounds = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize fills lock times left empty with the round's start.
func (c *Config) normalize() {
	for i := range c.Rounds {
		r := &c.Rounds[i]
		if r.LinesLockAt.IsZero() {
			r.LinesLockAt = r.StartsAt
		}
		if r.PicksLockAt.IsZero() {
			r.PicksLockAt = r.StartsAt
		}
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown database_driver %q", ErrInvalidConfig, c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("%w: database_dsn must not be empty", ErrInvalidConfig)
	}
	if c.ResultsCutoffHourUTC < 0 || c.ResultsCutoffHourUTC > 23 {
		return fmt.Errorf("%w: results_cutoff_hour_utc must be within 0-23", ErrInvalidConfig)
	}
	for name, v := range c.ScoringWeights {
		if !scoring.KnownWeight(name) {
			return fmt.Errorf("%w: unknown scoring weight %q", ErrInvalidConfig, name)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: scoring weight %q must be a finite non-negative number", ErrInvalidConfig, name)
		}
	}

	ids := make(map[string]struct{}, len(c.Participants))
	for _, p := range c.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant id must not be empty", ErrInvalidConfig)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: duplicate participant %q", ErrInvalidConfig, p.ID)
		}
		ids[p.ID] = struct{}{}
	}

	numbers := make(map[int]struct{}, len(c.Rounds))
	for _, r := range c.Rounds {
		if r.Number <= 0 {
			return fmt.Errorf("%w: round number must be positive", ErrInvalidConfig)
		}
		if _, dup := numbers[r.Number]; dup {
			return fmt.Errorf("%w: duplicate round %d", ErrInvalidConfig, r.Number)
		}
		numbers[r.Number] = struct{}{}
		if r.PicksLockAt.Before(r.LinesLockAt) {
			return fmt.Errorf("%w: round %d picks lock before lines lock", ErrInvalidConfig, r.Number)
		}
	}
	return nil
}
