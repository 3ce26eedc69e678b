package bakken

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRank(t *testing.T) {
	teams := []Team{
		{ID: 3, Name: "Hold 3", Score: 4},
		{ID: 1, Name: "Hold 1", Score: 2},
		{ID: 4, Name: "Hold 4", Score: 7},
		{ID: 2, Name: "Hold 2", Score: 4},
	}

	got := Rank(teams)

	var ids []TeamID
	for i, st := range got {
		if st.Rank != i+1 {
			t.Errorf("entry %d has rank %d", i, st.Rank)
		}
		ids = append(ids, st.Team.ID)
	}
	if diff := cmp.Diff([]TeamID{4, 2, 3, 1}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if teams[0].ID != 3 {
		t.Error("Rank must not reorder its input")
	}
}

func TestStandingsAreIdempotent(t *testing.T) {
	s := testSession(t)
	l := s.Ledger()
	l.StartRound("Dart")
	l.Assign(teamC, First)
	l.Assign(teamA, Second)
	l.Assign(teamB, Third)
	s.ConfirmRound(fixedTime)

	first := s.Standings()
	l.StartRound("Golf")
	l.Cancel()
	second := s.Standings()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("standings changed after no-op (-first +second):\n%s", diff)
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Team.Score < first[i].Team.Score {
			t.Errorf("standings not sorted: %+v", first)
		}
	}
	if first[0].Team.ID != teamC {
		t.Errorf("expected team C to lead, got %d", first[0].Team.ID)
	}
}

func TestSnapshotStandings(t *testing.T) {
	snap := EmptySnapshot()
	snap.TeamScores = map[TeamID]int{1: 3, 2: 9}
	snap.TeamNames = map[TeamID]string{2: "Bajerne"}

	got := snap.Standings()
	if len(got) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(got))
	}
	if got[0].Team.Name != "Bajerne" || got[1].Team.Name != "Hold 1" {
		t.Errorf("unexpected standings %+v", got)
	}
}
