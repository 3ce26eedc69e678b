package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/playperu/bakken/internal/bakken"
	"github.com/playperu/bakken/internal/report"
	"github.com/playperu/bakken/internal/tournament"
)

// Exports carry photos as data URIs.
const maxImportBytes = 64 << 20

// YearSummary is an archived or current year with its leaderboard.
type YearSummary struct {
	Year      int                `json:"year"`
	Current   bool               `json:"current"`
	Standings []StandingResponse `json:"standings"`
	Games     []HistoryEntry     `json:"games"`
	Snapshot  bakken.Snapshot    `json:"snapshot"`
}

func handleListYears(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		years, err := svc.Years(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if years == nil {
			years = []int{}
		}
		writeJSON(w, http.StatusOK, years)
	}
}

func handleGetYear(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, ok := yearParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		snap, err := svc.Year(r.Context(), year)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, YearSummary{
			Year:      year,
			Current:   year == svc.Status().Year,
			Standings: standingsResponse(snap.Standings()),
			Games:     historyResponse(snap.CompletedGames, snap.TeamName),
			Snapshot:  snap,
		})
	}
}

func handleDeleteYear(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, ok := yearParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		if err := svc.DeleteYear(r.Context(), year); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleExportYear(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, ok := yearParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		data, err := svc.Export(r.Context(), year)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bakken-%d.json"`, year))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func handleImportYear(svc *tournament.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, ok := yearParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		data, err := readBody(w, r, maxImportBytes)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := svc.ImportYear(r.Context(), year, data); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type reportFormat struct {
	contentType string
	ext         string
	render      func(io.Writer, bakken.Snapshot, report.Options) error
}

var (
	reportText = reportFormat{"text/plain; charset=utf-8", "txt", report.Text}
	reportHTML = reportFormat{"text/html; charset=utf-8", "html", report.HTML}
	reportXLSX = reportFormat{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", report.XLSX}
)

func handleReport(svc *tournament.Service, title string, format reportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, ok := yearParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		snap, err := svc.Year(r.Context(), year)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := format.render(&buf, snap, report.Options{Title: title, Date: report.PlayedOn(snap, year, time.Now())}); err != nil {
			writeError(w, http.StatusInternalServerError, "rendering report failed")
			return
		}

		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bakken-%d.%s"`, year, format.ext))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
