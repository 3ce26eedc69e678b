package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/playperu/bakken/internal/bakken"
)

func TestRoundFlow(t *testing.T) {
	e := setupEnv(t, nil)

	e.expect(t, http.MethodGet, "/api/round", nil, http.StatusNoContent)

	w := e.expect(t, http.MethodPost, "/api/round", StartRoundRequest{Game: "Dart"}, http.StatusCreated)
	rd := decode[RoundResponse](t, w)
	if rd.Game != "Dart" || len(rd.Places) != 0 || rd.CanConfirm {
		t.Fatalf("unexpected new round %+v", rd)
	}

	e.expect(t, http.MethodPut, "/api/round/places/1", map[string]int{"teamId": 2}, http.StatusOK)
	// Team ids may arrive as strings.
	e.expect(t, http.MethodPut, "/api/round/places/2", map[string]string{"teamId": "1"}, http.StatusOK)
	// Moving team 2 to third vacates first.
	rd = decode[RoundResponse](t, e.expect(t, http.MethodPut, "/api/round/places/3", map[string]int{"teamId": 2}, http.StatusOK))
	if diff := cmp.Diff(map[string]int{"2": 1, "3": 2}, rd.Places); diff != "" {
		t.Errorf("places (-want +got):\n%s", diff)
	}
	wantTeams := []RoundTeam{{ID: 1, Name: "Hold 1", Place: 2}, {ID: 2, Name: "Hold 2", Place: 3}, {ID: 3, Name: "Hold 3"}}
	if diff := cmp.Diff(wantTeams, rd.Teams); diff != "" {
		t.Errorf("team places (-want +got):\n%s", diff)
	}
	e.expect(t, http.MethodPost, "/api/round/confirm", nil, http.StatusConflict)

	rd = decode[RoundResponse](t, e.expect(t, http.MethodPut, "/api/round/places/1", map[string]int{"teamId": 3}, http.StatusOK))
	if !rd.CanConfirm {
		t.Fatal("expected round to be confirmable")
	}

	got := decode[ConfirmResponse](t, e.expect(t, http.MethodPost, "/api/round/confirm", nil, http.StatusOK))
	if got.Winner.ID != 3 || got.CompletedCount != 1 || got.TournamentComplete || got.SaveWarning != "" {
		t.Errorf("unexpected confirm response %+v", got)
	}

	standings := decode[[]StandingResponse](t, e.expect(t, http.MethodGet, "/api/standings", nil, http.StatusOK))
	var scores []int
	for _, st := range standings {
		scores = append(scores, st.ID, st.Score)
	}
	if diff := cmp.Diff([]int{3, 2, 1, 1, 2, 0}, scores); diff != "" {
		t.Errorf("standings id/score pairs (-want +got):\n%s", diff)
	}

	catalog := decode[[]CatalogGame](t, e.expect(t, http.MethodGet, "/api/catalog", nil, http.StatusOK))
	for _, g := range catalog {
		if g.Completed != (g.Name == "Dart") {
			t.Errorf("catalog entry %+v", g)
		}
	}

	history := decode[[]HistoryEntry](t, e.expect(t, http.MethodGet, "/api/history", nil, http.StatusOK))
	if len(history) != 1 || history[0].Winner == nil || history[0].Winner.Name != "Hold 3" {
		t.Errorf("unexpected history %+v", history)
	}
	if history[0].Timestamp == nil || !history[0].Timestamp.Equal(matchDay) {
		t.Errorf("unexpected timestamp %v", history[0].Timestamp)
	}

	status := decode[StatusResponse](t, e.expect(t, http.MethodGet, "/api/tournament", nil, http.StatusOK))
	if diff := cmp.Diff(StatusResponse{Year: 2025, Completed: 1, Threshold: 10, Teams: 3}, status); diff != "" {
		t.Errorf("status (-want +got):\n%s", diff)
	}
}

func TestRoundErrors(t *testing.T) {
	e := setupEnv(t, nil)
	e.playRound(t, "Golf", 1, 2, 3)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"confirm without round", http.MethodPost, "/api/round/confirm", nil, http.StatusConflict},
		{"cancel without round", http.MethodDelete, "/api/round", nil, http.StatusConflict},
		{"assign without round", http.MethodPut, "/api/round/places/1", map[string]int{"teamId": 1}, http.StatusConflict},
		{"unknown game", http.MethodPost, "/api/round", StartRoundRequest{Game: "Skak"}, http.StatusNotFound},
		{"completed game", http.MethodPost, "/api/round", StartRoundRequest{Game: "Golf"}, http.StatusConflict},
		{"bad body", http.MethodPost, "/api/round", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.expect(t, tt.method, tt.path, tt.body, tt.status)
		})
	}

	e.expect(t, http.MethodPost, "/api/round", StartRoundRequest{Game: "Dart"}, http.StatusCreated)
	open := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"second round", http.MethodPost, "/api/round", StartRoundRequest{Game: "Basket"}, http.StatusConflict},
		{"place four", http.MethodPut, "/api/round/places/4", map[string]int{"teamId": 1}, http.StatusBadRequest},
		{"place word", http.MethodPut, "/api/round/places/first", map[string]int{"teamId": 1}, http.StatusBadRequest},
		{"unknown team", http.MethodPut, "/api/round/places/1", map[string]int{"teamId": 9}, http.StatusNotFound},
		{"incomplete confirm", http.MethodPost, "/api/round/confirm", nil, http.StatusConflict},
	}
	for _, tt := range open {
		t.Run(tt.name, func(t *testing.T) {
			e.expect(t, tt.method, tt.path, tt.body, tt.status)
		})
	}

	rd := decode[RoundResponse](t, e.expect(t, http.MethodGet, "/api/round", nil, http.StatusOK))
	if rd.Game != "Dart" {
		t.Errorf("open round should survive rejected actions, got %+v", rd)
	}
}

func TestCancelRoundLeavesScores(t *testing.T) {
	e := setupEnv(t, nil)
	e.expect(t, http.MethodPost, "/api/round", StartRoundRequest{Game: "Dart"}, http.StatusCreated)
	e.expect(t, http.MethodPut, "/api/round/places/1", map[string]int{"teamId": 1}, http.StatusOK)
	e.expect(t, http.MethodDelete, "/api/round", nil, http.StatusNoContent)
	e.expect(t, http.MethodGet, "/api/round", nil, http.StatusNoContent)

	for _, st := range decode[[]StandingResponse](t, e.expect(t, http.MethodGet, "/api/standings", nil, http.StatusOK)) {
		if st.Score != 0 {
			t.Errorf("team %d scored %d after cancel", st.ID, st.Score)
		}
	}
	// The game is still available.
	e.expect(t, http.MethodPost, "/api/round", StartRoundRequest{Game: "Dart"}, http.StatusCreated)
}

func TestConfirmReportsSaveFailure(t *testing.T) {
	e := setupEnv(t, nil)
	e.expect(t, http.MethodPost, "/api/round", StartRoundRequest{Game: "Dart"}, http.StatusCreated)
	e.expect(t, http.MethodPut, "/api/round/places/1", map[string]int{"teamId": 1}, http.StatusOK)
	e.expect(t, http.MethodPut, "/api/round/places/2", map[string]int{"teamId": 2}, http.StatusOK)
	e.expect(t, http.MethodPut, "/api/round/places/3", map[string]int{"teamId": 3}, http.StatusOK)

	e.db.Close()

	got := decode[ConfirmResponse](t, e.expect(t, http.MethodPost, "/api/round/confirm", nil, http.StatusOK))
	if !strings.Contains(got.SaveWarning, "could not be saved") {
		t.Errorf("expected save warning, got %+v", got)
	}
	if got.Winner.ID != 1 {
		t.Errorf("winner = %d, want 1", got.Winner.ID)
	}
}

func TestTournamentCompletesAtThreshold(t *testing.T) {
	e := setupEnv(t, nil)
	var last ConfirmResponse
	for _, g := range bakken.Catalog[:bakken.CompletionThreshold] {
		last = e.playRound(t, g, 1, 2, 3)
	}
	if !last.TournamentComplete || last.CompletedCount != 10 {
		t.Errorf("expected completion after ten games, got %+v", last)
	}
}
