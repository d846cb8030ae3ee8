package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/internal/domain/scoring"
)

// Base carries the surrogate key and timestamps every table shares.
// Embedded fields are only mapped by gorm when exported.
type Base struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type predictionRow struct {
	Base
	Round     int     `gorm:"not null;uniqueIndex:idx_predictions_key"`
	Submitter string  `gorm:"size:64;not null;uniqueIndex:idx_predictions_key"`
	Subject   string  `gorm:"size:64;not null;uniqueIndex:idx_predictions_key"`
	Stat      string  `gorm:"size:32;not null;uniqueIndex:idx_predictions_key"`
	Value     float64 `gorm:"not null"`
}

func (predictionRow) TableName() string { return "predictions" }

func (r predictionRow) toModel() model.Prediction {
	return model.Prediction{Round: r.Round, Submitter: r.Submitter, Subject: r.Subject, Stat: r.Stat, Value: r.Value}
}

type lineRow struct {
	Base
	Round   int     `gorm:"not null;uniqueIndex:idx_lines_key"`
	Subject string  `gorm:"size:64;not null;uniqueIndex:idx_lines_key"`
	Stat    string  `gorm:"size:32;not null;uniqueIndex:idx_lines_key"`
	Value   float64 `gorm:"not null"`
}

func (lineRow) TableName() string { return "lines" }

func (r lineRow) toModel() model.Line {
	return model.Line{Round: r.Round, Subject: r.Subject, Stat: r.Stat, Value: r.Value}
}

type pickRow struct {
	Base
	Round   int    `gorm:"not null;uniqueIndex:idx_picks_key"`
	Picker  string `gorm:"size:64;not null;uniqueIndex:idx_picks_key"`
	Subject string `gorm:"size:64;not null;uniqueIndex:idx_picks_key"`
	Stat    string `gorm:"size:32;not null;uniqueIndex:idx_picks_key"`
	Picked  bool   `gorm:"not null;default:false"`
	Locked  bool   `gorm:"not null;default:false"`
}

func (pickRow) TableName() string { return "picks" }

func (r pickRow) toModel() model.Pick {
	return model.Pick{Round: r.Round, Picker: r.Picker, Subject: r.Subject, Stat: r.Stat, Picked: r.Picked, Locked: r.Locked}
}

type propPickRow struct {
	Base
	Round    int    `gorm:"not null;uniqueIndex:idx_prop_picks_key"`
	Picker   string `gorm:"size:64;not null;uniqueIndex:idx_prop_picks_key"`
	Category string `gorm:"size:64;not null;uniqueIndex:idx_prop_picks_key"`
	Choice   string `gorm:"size:64;not null"`
}

func (propPickRow) TableName() string { return "prop_picks" }

func (r propPickRow) toModel() model.PropPick {
	return model.PropPick{Round: r.Round, Picker: r.Picker, Category: r.Category, Choice: r.Choice}
}

type resultRow struct {
	Base
	Round   int     `gorm:"not null;uniqueIndex:idx_results_key"`
	Subject string  `gorm:"size:64;not null;uniqueIndex:idx_results_key"`
	Stat    string  `gorm:"size:32;not null;uniqueIndex:idx_results_key"`
	Value   float64 `gorm:"not null"`
}

func (resultRow) TableName() string { return "results" }

func (r resultRow) toModel() model.Result {
	return model.Result{Round: r.Round, Subject: r.Subject, Stat: r.Stat, Value: r.Value}
}

// propResultRow stores the winner set as a comma-delimited string.
type propResultRow struct {
	Base
	Round    int    `gorm:"not null;uniqueIndex:idx_prop_results_key"`
	Category string `gorm:"size:64;not null;uniqueIndex:idx_prop_results_key"`
	Winners  string `gorm:"size:512;not null"`
}

func (propResultRow) TableName() string { return "prop_results" }

func (r propResultRow) toModel() model.PropResult {
	return model.PropResult{Round: r.Round, Category: r.Category, Winners: scoring.ParseWinners(r.Winners)}
}

type scoreRow struct {
	Base
	Round        int     `gorm:"not null;uniqueIndex:idx_scores_key"`
	Participant  string  `gorm:"size:64;not null;uniqueIndex:idx_scores_key"`
	CorrectPicks int     `gorm:"not null;default:0"`
	MissedPicks  int     `gorm:"not null;default:0"`
	ExactLines   int     `gorm:"not null;default:0"`
	PropWins     int     `gorm:"not null;default:0"`
	PropMisses   int     `gorm:"not null;default:0"`
	TotalPoints  float64 `gorm:"not null;default:0"`
}

func (scoreRow) TableName() string { return "scores" }

func (r scoreRow) toModel() model.Score {
	return model.Score{
		Round:       r.Round,
		Participant: r.Participant,
		Breakdown: model.Breakdown{
			CorrectPicks: r.CorrectPicks,
			MissedPicks:  r.MissedPicks,
			ExactLines:   r.ExactLines,
			PropWins:     r.PropWins,
			PropMisses:   r.PropMisses,
			TotalPoints:  r.TotalPoints,
		},
	}
}

// allRows lists every table for migration.
func allRows() []any {
	return []any{
		&predictionRow{},
		&lineRow{},
		&pickRow{},
		&propPickRow{},
		&resultRow{},
		&propResultRow{},
		&scoreRow{},
	}
}

func mapRows[R any, M any](rows []R, fn func(R) M) []M {
	out := make([]M, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
