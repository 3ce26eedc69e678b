package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/playperu/bakken/internal/tournament"
)

const maxRosterBytes = 1 << 20

// RosterResponse lists the teams built from an imported roster.
type RosterResponse struct {
	Teams       []TeamResponse `json:"teams"`
	SaveWarning string         `json:"saveWarning,omitempty"`
}

func handleImportRoster(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readBody(w, r, maxRosterBytes)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		teams, change, err := svc.ImportRoster(r.Context(), data)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := RosterResponse{Teams: make([]TeamResponse, 0, len(teams)), SaveWarning: saveWarning(change)}
		for _, t := range teams {
			resp.Teams = append(resp.Teams, teamResponse(t))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, errors.New("request body too large")
	}
	if err != nil {
		return nil, errors.New("invalid request body")
	}
	return data, nil
}
