package scoring

import "strings"

// winnerSeparator delimits winner ids in stored prop results.
const winnerSeparator = ","

// ParseWinners splits a stored winner string into a set of ids. Blank
// entries are dropped and duplicates collapse, keeping first-seen order.
func ParseWinners(s string) []string {
	parts := strings.Split(s, winnerSeparator)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// FormatWinners joins winner ids for storage.
func FormatWinners(ids []string) string {
	return strings.Join(ParseWinners(strings.Join(ids, winnerSeparator)), winnerSeparator)
}
