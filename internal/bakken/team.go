package bakken

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// TeamID is the stable key of a team, starting at 1.
type TeamID int

// UnmarshalJSON accepts both 2 and "2". Older saves stored team ids as strings.
func (id *TeamID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*id = TeamID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("team id: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("team id %q: %w", s, err)
	}
	*id = TeamID(n)
	return nil
}

type Team struct {
	ID      TeamID
	Name    string
	Members []string
	Score   int
}

func (t Team) clone() Team {
	t.Members = slices.Clone(t.Members)
	return t
}

// DefaultTeamName is the display name used when no override exists.
func DefaultTeamName(id TeamID) string {
	return fmt.Sprintf("Hold %d", id)
}

// DefaultTeams returns the three empty teams used when no roster is available.
func DefaultTeams() map[TeamID]Team {
	teams := make(map[TeamID]Team, 3)
	for id := TeamID(1); id <= 3; id++ {
		teams[id] = Team{ID: id, Name: DefaultTeamName(id), Members: []string{}}
	}
	return teams
}

// Registry owns team identity, membership and cumulative score.
type Registry struct {
	teams map[TeamID]*Team
}

func NewRegistry(teams map[TeamID]Team) *Registry {
	r := &Registry{teams: make(map[TeamID]*Team, len(teams))}
	for id, t := range teams {
		t = t.clone()
		t.ID = id
		if t.Members == nil {
			t.Members = []string{}
		}
		r.teams[id] = &t
	}
	return r
}

func (r *Registry) Has(id TeamID) bool {
	_, ok := r.teams[id]
	return ok
}

func (r *Registry) Team(id TeamID) (Team, bool) {
	t, ok := r.teams[id]
	if !ok {
		return Team{}, false
	}
	return t.clone(), true
}

// Teams returns a copy of every team ordered by id.
func (r *Registry) Teams() []Team {
	out := make([]Team, 0, len(r.teams))
	for _, id := range slices.Sorted(maps.Keys(r.teams)) {
		out = append(out, r.teams[id].clone())
	}
	return out
}

func (r *Registry) Len() int { return len(r.teams) }

// AwardPoints adds points to a team's score. Scores only ever grow.
func (r *Registry) AwardPoints(id TeamID, points int) error {
	if points < 0 {
		return ErrNegativePoints
	}
	t, ok := r.teams[id]
	if !ok {
		return fmt.Errorf("award points to team %d: %w", id, ErrUnknownTeam)
	}
	t.Score += points
	return nil
}

// Rename overrides a team's display name.
func (r *Registry) Rename(id TeamID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	t, ok := r.teams[id]
	if !ok {
		return fmt.Errorf("rename team %d: %w", id, ErrUnknownTeam)
	}
	t.Name = name
	return nil
}
