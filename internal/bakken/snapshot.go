package bakken

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Snapshot is the complete persisted state of one tournament year.
type Snapshot struct {
	Teams          map[TeamID][]string `json:"teams"`
	TeamNames      map[TeamID]string   `json:"teamNames"`
	TeamScores     map[TeamID]int      `json:"teamScores"`
	CompletedGames []CompletedGame     `json:"completedGames"`
	GroupPhoto     *string             `json:"groupPhoto"`
	TeamPhotos     map[TeamID]*string  `json:"teamPhotos"`
}

// EmptySnapshot returns a snapshot with no teams and no games.
func EmptySnapshot() Snapshot {
	var s Snapshot
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones so a snapshot always
// encodes to the same shape.
func (s *Snapshot) Normalize() {
	if s.Teams == nil {
		s.Teams = map[TeamID][]string{}
	}
	for id, members := range s.Teams {
		if members == nil {
			s.Teams[id] = []string{}
		}
	}
	if s.TeamNames == nil {
		s.TeamNames = map[TeamID]string{}
	}
	if s.TeamScores == nil {
		s.TeamScores = map[TeamID]int{}
	}
	if s.CompletedGames == nil {
		s.CompletedGames = []CompletedGame{}
	}
	if s.TeamPhotos == nil {
		s.TeamPhotos = map[TeamID]*string{}
	}
}

// HasTeams reports whether the snapshot records any team.
func (s Snapshot) HasTeams() bool {
	return len(s.Teams) > 0 || len(s.TeamNames) > 0 || len(s.TeamScores) > 0
}

// TeamList returns every team mentioned by the snapshot, ordered by id.
func (s Snapshot) TeamList() []Team {
	ids := make(map[TeamID]struct{})
	for id := range s.Teams {
		ids[id] = struct{}{}
	}
	for id := range s.TeamNames {
		ids[id] = struct{}{}
	}
	for id := range s.TeamScores {
		ids[id] = struct{}{}
	}

	teams := make([]Team, 0, len(ids))
	for _, id := range slices.Sorted(maps.Keys(ids)) {
		name := s.TeamNames[id]
		if name == "" {
			name = DefaultTeamName(id)
		}
		members := slices.Clone(s.Teams[id])
		if members == nil {
			members = []string{}
		}
		teams = append(teams, Team{ID: id, Name: name, Members: members, Score: s.TeamScores[id]})
	}
	return teams
}

// Standings ranks the snapshot's teams.
func (s Snapshot) Standings() []Standing {
	return Rank(s.TeamList())
}

// TeamName returns the display name for id in this snapshot.
func (s Snapshot) TeamName(id TeamID) string {
	if name := s.TeamNames[id]; name != "" {
		return name
	}
	return DefaultTeamName(id)
}

// Validate checks the invariants a snapshot must hold before it is loaded:
// team ids start at 1, scores are not negative, and every full result has
// places 1 to 3 held by three distinct teams.
func (s Snapshot) Validate() error {
	var errs []error
	checkID := func(field string, id TeamID) {
		if id < 1 {
			errs = append(errs, fmt.Errorf("%s: team id %d", field, id))
		}
	}
	for id := range s.Teams {
		checkID("teams", id)
	}
	for id := range s.TeamNames {
		checkID("teamNames", id)
	}
	for id, score := range s.TeamScores {
		checkID("teamScores", id)
		if score < 0 {
			errs = append(errs, fmt.Errorf("team %d: %w", id, ErrNegativePoints))
		}
	}
	for id := range s.TeamPhotos {
		checkID("teamPhotos", id)
	}
	for i, g := range s.CompletedGames {
		if g.Name == "" {
			errs = append(errs, fmt.Errorf("completed game %d: %w", i+1, ErrBlankName))
			continue
		}
		if g.Legacy() {
			continue
		}
		for p, id := range g.Results {
			if !p.Valid() {
				errs = append(errs, fmt.Errorf("%s: place %d: %w", g.Name, p, ErrInvalidPlace))
			}
			checkID(g.Name, id)
		}
		if !g.Results.Complete() {
			errs = append(errs, fmt.Errorf("%s: %w", g.Name, ErrIncomplete))
		}
	}
	return errors.Join(errs...)
}
