// Package model contains domain records passed between layers.
//
// Records are immutable values. Storage identity (row ids, timestamps) is
// owned by the repository layer and never appears here.
package model

// Key identifies one (subject player, stat) pair within a round.
type Key struct {
	Subject string `json:"player"`
	Stat    string `json:"stat"`
}

// Prediction is one submitter's guess at a subject's stat for a round.
type Prediction struct {
	Round     int     `json:"round"`
	Submitter string  `json:"submitter"`
	Subject   string  `json:"player"`
	Stat      string  `json:"stat"`
	Value     float64 `json:"value"`
}

// Key returns the (subject, stat) key of the prediction.
func (p Prediction) Key() Key { return Key{Subject: p.Subject, Stat: p.Stat} }

// Line is the published consensus value for a (round, subject, stat) triple.
type Line struct {
	Round   int     `json:"round"`
	Subject string  `json:"player"`
	Stat    string  `json:"stat"`
	Value   float64 `json:"value"`
}

// Key returns the (subject, stat) key of the line.
func (l Line) Key() Key { return Key{Subject: l.Subject, Stat: l.Stat} }

// Pick is a participant's bet that a subject meets or exceeds the line.
// Only Picked rows are graded; Picked=false and a missing row mean the same.
type Pick struct {
	Round   int    `json:"round"`
	Picker  string `json:"picker"`
	Subject string `json:"player"`
	Stat    string `json:"stat"`
	Picked  bool   `json:"picked"`
	Locked  bool   `json:"locked"`
}

// Key returns the (subject, stat) key of the pick.
func (p Pick) Key() Key { return Key{Subject: p.Subject, Stat: p.Stat} }

// PropPick is a participant's choice for an informal side bet.
type PropPick struct {
	Round    int    `json:"round"`
	Picker   string `json:"picker"`
	Category string `json:"category"`
	Choice   string `json:"choice"`
}

// Result is the recorded final value of a subject's stat. A missing
// Result means the stat was not tracked.
type Result struct {
	Round   int     `json:"round"`
	Subject string  `json:"player"`
	Stat    string  `json:"stat"`
	Value   float64 `json:"value"`
}

// Key returns the (subject, stat) key of the result.
func (r Result) Key() Key { return Key{Subject: r.Subject, Stat: r.Stat} }

// PropResult holds the winner set of a prop category. Ties produce
// more than one winner.
type PropResult struct {
	Round    int      `json:"round"`
	Category string   `json:"category"`
	Winners  []string `json:"winners"`
}

// Has reports whether id is one of the winners.
func (p PropResult) Has(id string) bool {
	for _, w := range p.Winners {
		if w == id {
			return true
		}
	}
	return false
}

// Breakdown is a participant's per-category tally for one round.
type Breakdown struct {
	CorrectPicks int     `json:"correct_picks"`
	MissedPicks  int     `json:"missed_picks"`
	ExactLines   int     `json:"exact_lines"`
	PropWins     int     `json:"prop_wins"`
	PropMisses   int     `json:"prop_misses"`
	TotalPoints  float64 `json:"total_points"`
}

// Score is the persisted breakdown of one participant for one round,
// keyed by (Round, Participant).
type Score struct {
	Round       int    `json:"round"`
	Participant string `json:"participant"`
	Breakdown
}

// Suggestion is a read-time hint to take the over on a line. It is
// derived from the participant's own prediction and is never stored as a pick.
type Suggestion struct {
	Subject   string  `json:"player"`
	Stat      string  `json:"stat"`
	Line      float64 `json:"line"`
	Predicted float64 `json:"predicted"`
	Over      bool    `json:"over"`
}
