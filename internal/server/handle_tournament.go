package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/playperu/bakken/internal/bakken"
	"github.com/playperu/bakken/internal/tournament"
)

// TeamResponse is one team with its members and points.
type TeamResponse struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Score   int      `json:"score"`
}

// StandingResponse is one row of the leaderboard.
type StandingResponse struct {
	Rank int `json:"rank"`
	TeamResponse
}

// CatalogGame is one catalog entry.
type CatalogGame struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// StatusResponse summarises the current year for the overview screen.
type StatusResponse struct {
	Year            int  `json:"year"`
	Completed       int  `json:"completed"`
	Threshold       int  `json:"threshold"`
	Complete        bool `json:"complete"`
	RoundOpen       bool `json:"roundOpen"`
	Teams           int  `json:"teams"`
	Players         int  `json:"players"`
	AssignedPlayers int  `json:"assignedPlayers"`
	GroupPhoto      bool `json:"groupPhoto"`
	TeamPhotos      int  `json:"teamPhotos"`
}

// HistoryEntry is one completed game. Legacy entries have no results and
// may name their winner only as text.
type HistoryEntry struct {
	Name       string         `json:"name"`
	Legacy     bool           `json:"legacy"`
	Results    map[string]int `json:"results,omitempty"`
	Winner     *TeamResponse  `json:"winner,omitempty"`
	WinnerName string         `json:"winnerName,omitempty"`
	Timestamp  *time.Time     `json:"timestamp,omitempty"`
}

// RenameTeamRequest is the request body for PUT /api/teams/{teamID}/name.
type RenameTeamRequest struct {
	Name string `json:"name"`
}

// MutationResponse carries a save warning when the change could not be
// written to disk.
type MutationResponse struct {
	SaveWarning string `json:"saveWarning,omitempty"`
}

func teamResponse(t bakken.Team) TeamResponse {
	members := t.Members
	if members == nil {
		members = []string{}
	}
	return TeamResponse{ID: int(t.ID), Name: t.Name, Members: members, Score: t.Score}
}

func standingsResponse(standings []bakken.Standing) []StandingResponse {
	out := make([]StandingResponse, 0, len(standings))
	for _, st := range standings {
		out = append(out, StandingResponse{Rank: st.Rank, TeamResponse: teamResponse(st.Team)})
	}
	return out
}

func historyResponse(games []bakken.CompletedGame, teamName func(bakken.TeamID) string) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(games))
	for _, g := range games {
		e := HistoryEntry{Name: g.Name, Legacy: g.Legacy(), WinnerName: g.WinnerName}
		if !g.Timestamp.IsZero() {
			ts := g.Timestamp
			e.Timestamp = &ts
		}
		if !e.Legacy {
			e.Results = make(map[string]int, len(g.Results))
			for p, id := range g.Results {
				e.Results[strconv.Itoa(int(p))] = int(id)
			}
			if id, ok := g.Winner(); ok {
				e.Winner = &TeamResponse{ID: int(id), Name: teamName(id), Members: []string{}}
				e.WinnerName = e.Winner.Name
			}
		}
		out = append(out, e)
	}
	return out
}

func handleCatalog(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games := svc.Games()
		out := make([]CatalogGame, 0, len(games))
		for _, g := range games {
			out = append(out, CatalogGame{Name: g.Name, Completed: g.Completed})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleListTeams(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams := svc.Teams()
		out := make([]TeamResponse, 0, len(teams))
		for _, t := range teams {
			out = append(out, teamResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleStandings(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, standingsResponse(svc.Standings()))
	}
}

func handleStatus(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		writeJSON(w, http.StatusOK, StatusResponse{
			Year:            st.Year,
			Completed:       st.Completed,
			Threshold:       st.Threshold,
			Complete:        st.Complete,
			RoundOpen:       st.RoundOpen,
			Teams:           st.Teams,
			Players:         st.Players,
			AssignedPlayers: st.AssignedPlayers,
			GroupPhoto:      st.GroupPhoto,
			TeamPhotos:      st.TeamPhotos,
		})
	}
}

func handleHistory(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		writeJSON(w, http.StatusOK, historyResponse(snap.CompletedGames, snap.TeamName))
	}
}

func handleRenameTeam(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := teamIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		var req RenameTeamRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		change, err := svc.RenameTeam(r.Context(), id, req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MutationResponse{SaveWarning: saveWarning(change)})
	}
}
