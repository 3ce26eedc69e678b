package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/bakken/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	svc := deps.Tournament
	broker := deps.Broker
	if broker == nil {
		broker = NewBroker()
	}
	op := deps.Operator
	if op == nil {
		op = NewOperatorAuth(nil)
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Bakken API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Post("/api/operator/login", handleOperatorLogin(op))
	r.Post("/api/operator/logout", handleOperatorLogout(op))
	r.Get("/api/operator", handleOperatorMe(op))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", handleCatalog(svc))
		r.Get("/teams", handleListTeams(svc))
		r.Get("/standings", handleStandings(svc))
		r.Get("/tournament", handleStatus(svc))
		r.Get("/round", handleGetRound(svc))
		r.Get("/history", handleHistory(svc))
		r.Get("/events", handleEvents(broker))

		r.Get("/years", handleListYears(svc))
		r.Get("/years/{year}", handleGetYear(svc))
		r.Get("/years/{year}/export", handleExportYear(svc))
		r.Get("/years/{year}/report.txt", handleReport(svc, deps.ReportTitle, reportText))
		r.Get("/years/{year}/report.html", handleReport(svc, deps.ReportTitle, reportHTML))
		r.Get("/years/{year}/report.xlsx", handleReport(svc, deps.ReportTitle, reportXLSX))

		// Everything that changes the ledger needs an operator when a PIN is set.
		r.Group(func(r chi.Router) {
			r.Use(operatorMiddleware(op))

			r.Put("/teams/{teamID}/name", handleRenameTeam(svc))
			r.Post("/round", handleStartRound(svc))
			r.Delete("/round", handleCancelRound(svc))
			r.Put("/round/places/{place}", handleAssignPlace(svc))
			r.Post("/round/confirm", handleConfirmRound(svc))

			r.Put("/photos/group", handleSetGroupPhoto(svc))
			r.Delete("/photos/group", handleClearGroupPhoto(svc))
			r.Put("/photos/teams/{teamID}", handleSetTeamPhoto(svc))
			r.Delete("/photos/teams/{teamID}", handleClearTeamPhoto(svc))

			r.Put("/roster", handleImportRoster(svc))

			r.Delete("/years/{year}", handleDeleteYear(svc))
			r.Post("/years/{year}/import", handleImportYear(svc))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
