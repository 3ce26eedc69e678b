package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/bakken/internal/bakken"
	"github.com/playperu/bakken/internal/tournament"
)

// StartRoundRequest is the request body for POST /api/round.
type StartRoundRequest struct {
	Game string `json:"game"`
}

// AssignPlaceRequest is the request body for PUT /api/round/places/{place}.
type AssignPlaceRequest struct {
	TeamID bakken.TeamID `json:"teamId"`
}

// RoundResponse is the open round. Places maps "1".."3" to team ids; Teams
// lists every team with the place it holds, 0 when it holds none.
type RoundResponse struct {
	Game       string         `json:"game"`
	Places     map[string]int `json:"places"`
	Teams      []RoundTeam    `json:"teams"`
	CanConfirm bool           `json:"canConfirm"`
}

type RoundTeam struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Place int    `json:"place"`
}

// ConfirmResponse reports the scored round.
type ConfirmResponse struct {
	Game               string       `json:"game"`
	Winner             TeamResponse `json:"winner"`
	CompletedCount     int          `json:"completedCount"`
	TournamentComplete bool         `json:"tournamentComplete"`
	SaveWarning        string       `json:"saveWarning,omitempty"`
}

func roundResponse(rd bakken.Round, teams []bakken.Team) RoundResponse {
	places := make(map[string]int, len(rd.Assignment))
	for p, id := range rd.Assignment {
		places[strconv.Itoa(int(p))] = int(id)
	}
	out := make([]RoundTeam, 0, len(teams))
	for _, t := range teams {
		rt := RoundTeam{ID: int(t.ID), Name: t.Name}
		if p, ok := rd.Assignment.PlaceOf(t.ID); ok {
			rt.Place = int(p)
		}
		out = append(out, rt)
	}
	return RoundResponse{Game: rd.Game, Places: places, Teams: out, CanConfirm: rd.CanConfirm}
}

func handleGetRound(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd, ok := svc.Round()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, roundResponse(rd, svc.Teams()))
	}
}

func handleStartRound(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rd, err := svc.StartRound(req.Game)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, roundResponse(rd, svc.Teams()))
	}
}

func handleAssignPlace(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "place"))
		if err != nil {
			writeError(w, http.StatusBadRequest, bakken.ErrInvalidPlace.Error())
			return
		}
		var req AssignPlaceRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rd, err := svc.Assign(req.TeamID, bakken.Place(n))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, roundResponse(rd, svc.Teams()))
	}
}

func handleConfirmRound(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, change, err := svc.ConfirmRound(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ConfirmResponse{
			Game:               out.Game.Name,
			Winner:             teamResponse(out.Winner),
			CompletedCount:     out.CompletedCount,
			TournamentComplete: out.TournamentComplete,
			SaveWarning:        saveWarning(change),
		})
	}
}

func handleCancelRound(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CancelRound(); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
