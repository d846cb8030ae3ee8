// Package league holds the team roster and the stat and prop catalogs.
package league

import "slices"

// Participant is a teammate whose stats are tracked. Bettors also predict and pick.
type Participant struct {
	ID     string `json:"id"`
	Bettor bool   `json:"bettor"`
	// Rounds lists the rounds the participant is on the roster for; empty means all.
	Rounds []int `json:"rounds,omitempty"`
	// InjuredFrom is the first round the participant sits out; 0 means never.
	InjuredFrom int `json:"injured_from,omitempty"`
}

// Item is a catalog entry.
type Item struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Prop category keys with special meaning.
const (
	PropTeamMVP      = "team_mvp"
	PropMostMissedFT = "most_missed_ft"
)

// League is an immutable view over the roster and catalogs.
type League struct {
	participants []Participant
	index        map[string]int
	stats        []Item
	props        []Item
}

// New builds a League. Participant order is preserved for display.
func New(participants []Participant, stats, props []Item) *League {
	l := &League{
		participants: slices.Clone(participants),
		index:        make(map[string]int, len(participants)),
		stats:        slices.Clone(stats),
		props:        slices.Clone(props),
	}
	for i, p := range l.participants {
		l.index[p.ID] = i
	}
	return l
}

// Known reports whether id is a tracked participant.
func (l *League) Known(id string) bool {
	_, ok := l.index[id]
	return ok
}

// IsBettor reports whether id may predict and pick.
func (l *League) IsBettor(id string) bool {
	i, ok := l.index[id]
	return ok && l.participants[i].Bettor
}

// OnRoster reports whether id appears in stat tables for round.
func (l *League) OnRoster(id string, round int) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	p := l.participants[i]
	return len(p.Rounds) == 0 || slices.Contains(p.Rounds, round)
}

// Injured reports whether id is on the injured list for round.
func (l *League) Injured(id string, round int) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	from := l.participants[i].InjuredFrom
	return from > 0 && round >= from
}

// Players returns every tracked participant id.
func (l *League) Players() []string {
	ids := make([]string, 0, len(l.participants))
	for _, p := range l.participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// Roster returns the ids on the roster for round, injured included.
func (l *League) Roster(round int) []string {
	var ids []string
	for _, p := range l.participants {
		if l.OnRoster(p.ID, round) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Active returns the roster for round minus the injured.
func (l *League) Active(round int) []string {
	var ids []string
	for _, id := range l.Roster(round) {
		if !l.Injured(id, round) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Bettors returns the ids allowed to predict and pick.
func (l *League) Bettors() []string {
	var ids []string
	for _, p := range l.participants {
		if p.Bettor {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Stats returns the stat catalog.
func (l *League) Stats() []Item { return slices.Clone(l.stats) }

// Props returns the prop catalog.
func (l *League) Props() []Item { return slices.Clone(l.props) }

// HasStat reports whether key is a tracked stat.
func (l *League) HasStat(key string) bool { return hasKey(l.stats, key) }

// HasProp reports whether key is a prop category.
func (l *League) HasProp(key string) bool { return hasKey(l.props, key) }

func hasKey(items []Item, key string) bool {
	return slices.ContainsFunc(items, func(it Item) bool { return it.Key == key })
}
