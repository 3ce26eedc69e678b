package bakken

import (
	"cmp"
	"slices"
)

type Standing struct {
	Rank int
	Team Team
}

// Rank orders teams by score, highest first. Equal scores keep team id order
// so the result is deterministic.
func Rank(teams []Team) []Standing {
	sorted := make([]Team, len(teams))
	for i, t := range teams {
		sorted[i] = t.clone()
	}
	slices.SortFunc(sorted, func(a, b Team) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]Standing, len(sorted))
	for i, t := range sorted {
		out[i] = Standing{Rank: i + 1, Team: t}
	}
	return out
}

// Standings ranks the registry's current teams.
func (r *Registry) Standings() []Standing {
	return Rank(r.Teams())
}
