package bakken

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadTeams(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    map[TeamID]Team
		wantErr bool
	}{
		{
			name: "json roster",
			source: `{"players":[{"id":1718000000001,"name":"Lars"},{"id":1718000000002,"name":"Anna"},{"id":1718000000003,"name":"Sofie"}],` +
				`"teams":{"1":[1718000000001,1718000000003],"2":[1718000000002,1718000000099]},"teamNames":{"2":"Bajerne"}}`,
			want: map[TeamID]Team{
				1: {ID: 1, Name: "Hold 1", Members: []string{"Lars", "Sofie"}},
				2: {ID: 2, Name: "Bajerne", Members: []string{"Anna"}},
			},
		},
		{
			name: "yaml roster",
			source: `
players:
  - {id: a, name: Mette}
teams:
  3: [a]
`,
			want: map[TeamID]Team{
				3: {ID: 3, Name: "Hold 3", Members: []string{"Mette"}},
			},
		},
		{
			name:    "empty source",
			source:  "",
			want:    DefaultTeams(),
			wantErr: true,
		},
		{
			name:    "malformed source",
			source:  `{"players": [`,
			want:    DefaultTeams(),
			wantErr: true,
		},
		{
			name:    "bad team id",
			source:  `{"teams":{"first":[]}}`,
			want:    DefaultTeams(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadTeams([]byte(tt.source))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRoster) {
				t.Errorf("expected ErrInvalidRoster, got %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("teams mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultTeams(t *testing.T) {
	teams := DefaultTeams()
	if len(teams) != 3 {
		t.Fatalf("expected 3 default teams, got %d", len(teams))
	}
	for id, team := range teams {
		if team.Score != 0 || len(team.Members) != 0 || team.Name != DefaultTeamName(id) {
			t.Errorf("unexpected default team %+v", team)
		}
	}
}

func TestRosterTeamMap(t *testing.T) {
	r, err := ParseRoster([]byte(`{"players":[{"id":"a","name":"Ole"}],"teams":{"2":["a"]},"teamNames":{"4":"Sidste"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(r.Teams) != 1 {
		t.Fatalf("expected one team assignment, got %v", r.Teams)
	}
	got, err := r.TeamMap()
	if err != nil {
		t.Fatalf("team map: %v", err)
	}
	want := map[TeamID]Team{
		2: {ID: 2, Name: "Hold 2", Members: []string{"Ole"}},
		4: {ID: 4, Name: "Sidste", Members: []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("teams mismatch (-want +got):\n%s", diff)
	}
}
