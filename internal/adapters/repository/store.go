// Package repository persists sportsbook records through gorm.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/internal/domain/scoring"
	"github.com/okian/jungle/pkg/metrics"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LineBuilder turns a consistent snapshot of a round's predictions into lines.
type LineBuilder func(predictions []model.Prediction) []model.Line

// Store provides read/write access to a season's records. Every write
// that replaces a set of rows does so inside one transaction.
type Store interface {
	// ReplacePredictions swaps a submitter's predictions for a round.
	ReplacePredictions(ctx context.Context, round int, submitter string, preds []model.Prediction) error
	Predictions(ctx context.Context, round int) ([]model.Prediction, error)
	PredictionsBy(ctx context.Context, round int, submitter string) ([]model.Prediction, error)

	// RebuildLines reads the round's predictions and replaces its lines
	// with build's output in a single transaction.
	RebuildLines(ctx context.Context, round int, build LineBuilder) ([]model.Line, error)
	Lines(ctx context.Context, round int) ([]model.Line, error)

	// SavePicks upserts picks by (round, picker, subject, stat). Locked
	// picks are left unchanged.
	SavePicks(ctx context.Context, picks []model.Pick) error
	Picks(ctx context.Context, round int) ([]model.Pick, error)
	PicksBy(ctx context.Context, round int, picker string) ([]model.Pick, error)
	// LockPicks marks a round's picks locked and returns how many changed.
	LockPicks(ctx context.Context, round int) (int64, error)

	// SavePropPicks upserts prop picks by (round, picker, category).
	SavePropPicks(ctx context.Context, picks []model.PropPick) error
	PropPicks(ctx context.Context, round int) ([]model.PropPick, error)
	PropPicksBy(ctx context.Context, round int, picker string) ([]model.PropPick, error)

	// ReplaceResults swaps every result of a round.
	ReplaceResults(ctx context.Context, round int, results []model.Result) error
	// Results returns a round's results; round 0 returns the whole season.
	Results(ctx context.Context, round int) ([]model.Result, error)

	// SavePropResults upserts by (round, category). An empty winner set
	// clears the category.
	SavePropResults(ctx context.Context, results []model.PropResult) error
	// PropResults returns a round's prop results; round 0 returns the whole season.
	PropResults(ctx context.Context, round int) ([]model.PropResult, error)

	// ReplaceScores makes scores the round's complete score set: rows are
	// upserted by (round, participant) and participants missing from
	// scores lose their row, all in one transaction.
	ReplaceScores(ctx context.Context, round int, scores []model.Score) error
	// Scores returns a round's scores; round 0 returns the whole season.
	Scores(ctx context.Context, round int) ([]model.Score, error)
	// Score returns ErrNotFound when the participant has no record for round.
	Score(ctx context.Context, round int, participant string) (model.Score, error)

	Ping(ctx context.Context) error
	Close() error
}

// GormStore implements Store on any gorm dialect.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// Open connects to driver with dsn.
func Open(driver, dsn string, opts ...Option) (*GormStore, error) {
	o := defaultOptions(driver)
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(o.logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if o.maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
	}
	return NewGormStore(db), nil
}

// NewGormStore wraps an existing connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates every table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allRows()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// observe records latency and failures for one store operation and
// prefixes err with op. A miss is not counted as a failure.
func observe(op string, start time.Time, err error) error {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000.0)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		metrics.RecordRepositoryError(op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *GormStore) ReplacePredictions(ctx context.Context, round int, submitter string, preds []model.Prediction) (err error) {
	defer func(start time.Time) { err = observe("replace_predictions", start, err) }(time.Now())

	rows := make([]predictionRow, 0, len(preds))
	for _, p := range preds {
		rows = append(rows, predictionRow{Round: round, Submitter: submitter, Subject: p.Subject, Stat: p.Stat, Value: p.Value})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("round = ? AND submitter = ?", round, submitter).Delete(&predictionRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (s *GormStore) Predictions(ctx context.Context, round int) (_ []model.Prediction, err error) {
	defer func(start time.Time) { err = observe("predictions", start, err) }(time.Now())
	return s.predictions(s.db.WithContext(ctx).Where("round = ?", round))
}

func (s *GormStore) PredictionsBy(ctx context.Context, round int, submitter string) (_ []model.Prediction, err error) {
	defer func(start time.Time) { err = observe("predictions_by", start, err) }(time.Now())
	return s.predictions(s.db.WithContext(ctx).Where("round = ? AND submitter = ?", round, submitter))
}

func (s *GormStore) predictions(q *gorm.DB) ([]model.Prediction, error) {
	var rows []predictionRow
	if err := q.Order("subject, stat, submitter").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, predictionRow.toModel), nil
}

func (s *GormStore) RebuildLines(ctx context.Context, round int, build LineBuilder) (lines []model.Line, err error) {
	defer func(start time.Time) { err = observe("rebuild_lines", start, err) }(time.Now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		preds, err := s.predictions(tx.Where("round = ?", round))
		if err != nil {
			return err
		}
		lines = build(preds)
		if err := tx.Where("round = ?", round).Delete(&lineRow{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		rows := make([]lineRow, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, lineRow{Round: round, Subject: l.Subject, Stat: l.Stat, Value: l.Value})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *GormStore) Lines(ctx context.Context, round int) (_ []model.Line, err error) {
	defer func(start time.Time) { err = observe("lines", start, err) }(time.Now())

	var rows []lineRow
	if err := s.db.WithContext(ctx).Where("round = ?", round).Order("subject, stat").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, lineRow.toModel), nil
}

func (s *GormStore) SavePicks(ctx context.Context, picks []model.Pick) (err error) {
	defer func(start time.Time) { err = observe("save_picks", start, err) }(time.Now())
	if len(picks) == 0 {
		return nil
	}
	rows := make([]pickRow, 0, len(picks))
	for _, p := range picks {
		rows = append(rows, pickRow{Round: p.Round, Picker: p.Picker, Subject: p.Subject, Stat: p.Stat, Picked: p.Picked})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round"}, {Name: "picker"}, {Name: "subject"}, {Name: "stat"}},
		DoUpdates: clause.AssignmentColumns([]string{"picked", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: pickRow{}.TableName(), Name: "locked"}, Value: false},
		}},
	}).Create(&rows).Error
}

func (s *GormStore) Picks(ctx context.Context, round int) (_ []model.Pick, err error) {
	defer func(start time.Time) { err = observe("picks", start, err) }(time.Now())
	return s.picks(s.db.WithContext(ctx).Where("round = ?", round))
}

func (s *GormStore) PicksBy(ctx context.Context, round int, picker string) (_ []model.Pick, err error) {
	defer func(start time.Time) { err = observe("picks_by", start, err) }(time.Now())
	return s.picks(s.db.WithContext(ctx).Where("round = ? AND picker = ?", round, picker))
}

func (s *GormStore) picks(q *gorm.DB) ([]model.Pick, error) {
	var rows []pickRow
	if err := q.Order("picker, subject, stat").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, pickRow.toModel), nil
}

func (s *GormStore) LockPicks(ctx context.Context, round int) (n int64, err error) {
	defer func(start time.Time) { err = observe("lock_picks", start, err) }(time.Now())

	res := s.db.WithContext(ctx).Model(&pickRow{}).
		Where("round = ? AND locked = ?", round, false).
		Update("locked", true)
	return res.RowsAffected, res.Error
}

func (s *GormStore) SavePropPicks(ctx context.Context, picks []model.PropPick) (err error) {
	defer func(start time.Time) { err = observe("save_prop_picks", start, err) }(time.Now())
	if len(picks) == 0 {
		return nil
	}
	rows := make([]propPickRow, 0, len(picks))
	for _, p := range picks {
		rows = append(rows, propPickRow{Round: p.Round, Picker: p.Picker, Category: p.Category, Choice: p.Choice})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round"}, {Name: "picker"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"choice", "updated_at"}),
	}).Create(&rows).Error
}

func (s *GormStore) PropPicks(ctx context.Context, round int) (_ []model.PropPick, err error) {
	defer func(start time.Time) { err = observe("prop_picks", start, err) }(time.Now())
	return s.propPicks(s.db.WithContext(ctx).Where("round = ?", round))
}

func (s *GormStore) PropPicksBy(ctx context.Context, round int, picker string) (_ []model.PropPick, err error) {
	defer func(start time.Time) { err = observe("prop_picks_by", start, err) }(time.Now())
	return s.propPicks(s.db.WithContext(ctx).Where("round = ? AND picker = ?", round, picker))
}

func (s *GormStore) propPicks(q *gorm.DB) ([]model.PropPick, error) {
	var rows []propPickRow
	if err := q.Order("picker, category").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, propPickRow.toModel), nil
}

func (s *GormStore) ReplaceResults(ctx context.Context, round int, results []model.Result) (err error) {
	defer func(start time.Time) { err = observe("replace_results", start, err) }(time.Now())

	rows := make([]resultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow{Round: round, Subject: r.Subject, Stat: r.Stat, Value: r.Value})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("round = ?", round).Delete(&resultRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (s *GormStore) Results(ctx context.Context, round int) (_ []model.Result, err error) {
	defer func(start time.Time) { err = observe("results", start, err) }(time.Now())

	var rows []resultRow
	if err := byRound(s.db.WithContext(ctx), round).Order("round, subject, stat").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, resultRow.toModel), nil
}

func (s *GormStore) SavePropResults(ctx context.Context, results []model.PropResult) (err error) {
	defer func(start time.Time) { err = observe("save_prop_results", start, err) }(time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			winners := scoring.FormatWinners(r.Winners)
			if winners == "" {
				if err := tx.Where("round = ? AND category = ?", r.Round, r.Category).Delete(&propResultRow{}).Error; err != nil {
					return err
				}
				continue
			}
			row := propResultRow{Round: r.Round, Category: r.Category, Winners: winners}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "round"}, {Name: "category"}},
				DoUpdates: clause.AssignmentColumns([]string{"winners", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) PropResults(ctx context.Context, round int) (_ []model.PropResult, err error) {
	defer func(start time.Time) { err = observe("prop_results", start, err) }(time.Now())

	var rows []propResultRow
	if err := byRound(s.db.WithContext(ctx), round).Order("round, category").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, propResultRow.toModel), nil
}

func (s *GormStore) ReplaceScores(ctx context.Context, round int, scores []model.Score) (err error) {
	defer func(start time.Time) { err = observe("replace_scores", start, err) }(time.Now())

	rows := make([]scoreRow, 0, len(scores))
	keep := make([]string, 0, len(scores))
	for _, sc := range scores {
		rows = append(rows, scoreRow{
			Round:        round,
			Participant:  sc.Participant,
			CorrectPicks: sc.CorrectPicks,
			MissedPicks:  sc.MissedPicks,
			ExactLines:   sc.ExactLines,
			PropWins:     sc.PropWins,
			PropMisses:   sc.PropMisses,
			TotalPoints:  sc.TotalPoints,
		})
		keep = append(keep, sc.Participant)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Where("round = ?", round)
		if len(keep) > 0 {
			stale = stale.Where("participant NOT IN ?", keep)
		}
		if err := stale.Delete(&scoreRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "round"}, {Name: "participant"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"correct_picks", "missed_picks", "exact_lines", "prop_wins", "prop_misses", "total_points", "updated_at",
			}),
		}).Create(&rows).Error
	})
}

func (s *GormStore) Scores(ctx context.Context, round int) (_ []model.Score, err error) {
	defer func(start time.Time) { err = observe("scores", start, err) }(time.Now())

	var rows []scoreRow
	if err := byRound(s.db.WithContext(ctx), round).Order("round, participant").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapRows(rows, scoreRow.toModel), nil
}

func (s *GormStore) Score(ctx context.Context, round int, participant string) (_ model.Score, err error) {
	defer func(start time.Time) { err = observe("score", start, err) }(time.Now())

	var rows []scoreRow
	if err := s.db.WithContext(ctx).Where("round = ? AND participant = ?", round, participant).Limit(1).Find(&rows).Error; err != nil {
		return model.Score{}, err
	}
	if len(rows) == 0 {
		return model.Score{}, ErrNotFound
	}
	return rows[0].toModel(), nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// byRound scopes q to one round; 0 means every round.
func byRound(q *gorm.DB, round int) *gorm.DB {
	if round == 0 {
		return q
	}
	return q.Where("round = ?", round)
}
