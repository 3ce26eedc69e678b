package bakken

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownPlayer is the placeholder for player ids missing from the roster.
// Such players are left out of team membership.
const UnknownPlayer = "Ukendt"

// Roster is the player and team-assignment data kept by the registration
// screens. It arrives as JSON, which the YAML decoder also reads.
type Roster struct {
	Players   []RosterPlayer      `yaml:"players"`
	Teams     map[string][]string `yaml:"teams"`
	TeamNames map[string]string   `yaml:"teamNames"`
}

type RosterPlayer struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ParseRoster decodes roster data in JSON or YAML form.
func ParseRoster(source []byte) (Roster, error) {
	var r Roster
	if len(bytes.TrimSpace(source)) == 0 {
		return r, fmt.Errorf("%w: roster is empty", ErrInvalidRoster)
	}
	if err := yaml.Unmarshal(source, &r); err != nil {
		return Roster{}, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	return r, nil
}

// TeamMap translates the roster into registry entries with zero score.
func (r Roster) TeamMap() (map[TeamID]Team, error) {
	names := make(map[string]string, len(r.Players))
	for _, p := range r.Players {
		names[strings.TrimSpace(p.ID)] = strings.TrimSpace(p.Name)
	}

	teams := make(map[TeamID]Team)
	ensure := func(key string) (TeamID, error) {
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || n < 1 {
			return 0, fmt.Errorf("%w: team id %q", ErrInvalidRoster, key)
		}
		id := TeamID(n)
		if _, ok := teams[id]; !ok {
			teams[id] = Team{ID: id, Name: DefaultTeamName(id), Members: []string{}}
		}
		return id, nil
	}

	for key, playerIDs := range r.Teams {
		id, err := ensure(key)
		if err != nil {
			return nil, err
		}
		t := teams[id]
		for _, pid := range playerIDs {
			name, ok := names[strings.TrimSpace(pid)]
			if !ok || name == "" || name == UnknownPlayer {
				continue
			}
			t.Members = append(t.Members, name)
		}
		teams[id] = t
	}
	for key, name := range r.TeamNames {
		id, err := ensure(key)
		if err != nil {
			return nil, err
		}
		if name = strings.TrimSpace(name); name != "" {
			t := teams[id]
			t.Name = name
			teams[id] = t
		}
	}

	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: roster has no teams", ErrInvalidRoster)
	}
	return teams, nil
}

// LoadTeams hydrates teams from roster data. When the data is missing or
// cannot be used it returns DefaultTeams together with the reason, which
// callers log and otherwise ignore.
func LoadTeams(source []byte) (map[TeamID]Team, error) {
	r, err := ParseRoster(source)
	if err != nil {
		return DefaultTeams(), err
	}
	teams, err := r.TeamMap()
	if err != nil {
		return DefaultTeams(), err
	}
	return teams, nil
}
