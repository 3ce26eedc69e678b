package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/bakken/internal/archive"
	"github.com/playperu/bakken/internal/bakken"
	"github.com/playperu/bakken/internal/tournament"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps ledger and archive errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bakken.ErrRoundOpen),
		errors.Is(err, bakken.ErrNoRound),
		errors.Is(err, bakken.ErrGameCompleted),
		errors.Is(err, bakken.ErrIncomplete),
		errors.Is(err, tournament.ErrTournamentStarted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, bakken.ErrUnknownGame),
		errors.Is(err, bakken.ErrUnknownTeam),
		errors.Is(err, archive.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bakken.ErrInvalidPlace),
		errors.Is(err, bakken.ErrBlankName),
		errors.Is(err, bakken.ErrNegativePoints),
		errors.Is(err, bakken.ErrInvalidRoster),
		errors.Is(err, archive.ErrCorrupt):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func saveWarning(c tournament.Change) string {
	if c.Saved() {
		return ""
	}
	return "result applied but could not be saved: " + c.SaveErr.Error()
}

func teamIDParam(r *http.Request) (bakken.TeamID, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		return 0, false
	}
	return bakken.TeamID(n), true
}

func yearParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
