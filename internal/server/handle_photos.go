package server

import (
	"net/http"

	"github.com/playperu/bakken/internal/tournament"
)

// PhotoRequest carries a photo reference, normally a data URI.
type PhotoRequest struct {
	DataURI string `json:"dataUri"`
}

func handleSetGroupPhoto(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PhotoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		change, err := svc.SetGroupPhoto(r.Context(), req.DataURI)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MutationResponse{SaveWarning: saveWarning(change)})
	}
}

func handleClearGroupPhoto(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		change, err := svc.ClearGroupPhoto(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MutationResponse{SaveWarning: saveWarning(change)})
	}
}

func handleSetTeamPhoto(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := teamIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		var req PhotoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		change, err := svc.SetTeamPhoto(r.Context(), id, req.DataURI)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MutationResponse{SaveWarning: saveWarning(change)})
	}
}

func handleClearTeamPhoto(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := teamIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		change, err := svc.ClearTeamPhoto(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MutationResponse{SaveWarning: saveWarning(change)})
	}
}
