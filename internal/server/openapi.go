package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/bakken/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type teamPath struct {
	TeamID int `path:"teamID"`
}

type yearPath struct {
	Year int `path:"year"`
}

type placePath struct {
	Place int `path:"place" minimum:"1" maximum:"3"`
}

type renameTeamInput struct {
	teamPath
	RenameTeamRequest
}

type assignPlaceInput struct {
	placePath
	AssignPlaceRequest
}

type teamPhotoInput struct {
	teamPath
	PhotoRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Bakken API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Result ledger for the Bakken outdoor games day.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/catalog
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/api/catalog")
	getCatalog.SetSummary("Game catalog")
	getCatalog.SetDescription("Lists every game with whether it has been completed this year.")
	getCatalog.AddRespStructure([]CatalogGame{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCatalog)

	// GET /api/teams
	getTeams, _ := r.NewOperationContext(http.MethodGet, "/api/teams")
	getTeams.SetSummary("List teams")
	getTeams.AddRespStructure([]TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getTeams)

	// PUT /api/teams/{teamID}/name
	renameTeam, _ := r.NewOperationContext(http.MethodPut, "/api/teams/{teamID}/name")
	renameTeam.SetSummary("Rename team")
	renameTeam.AddReqStructure(renameTeamInput{})
	renameTeam.AddRespStructure(MutationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	renameTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	renameTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(renameTeam)

	// GET /api/standings
	getStandings, _ := r.NewOperationContext(http.MethodGet, "/api/standings")
	getStandings.SetSummary("Standings")
	getStandings.SetDescription("Teams by score descending. Ties are broken by team id.")
	getStandings.AddRespStructure([]StandingResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStandings)

	// GET /api/tournament
	getStatus, _ := r.NewOperationContext(http.MethodGet, "/api/tournament")
	getStatus.SetSummary("Tournament status")
	getStatus.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStatus)

	// GET /api/round
	getRound, _ := r.NewOperationContext(http.MethodGet, "/api/round")
	getRound.SetSummary("Active round")
	getRound.SetDescription("Returns the open round, or 204 when idle.")
	getRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRound.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(getRound)

	// POST /api/round
	startRound, _ := r.NewOperationContext(http.MethodPost, "/api/round")
	startRound.SetSummary("Start round")
	startRound.SetDescription("Opens a round for a catalog game that has not been completed.")
	startRound.AddReqStructure(StartRoundRequest{})
	startRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	startRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	startRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(startRound)

	// DELETE /api/round
	cancelRound, _ := r.NewOperationContext(http.MethodDelete, "/api/round")
	cancelRound.SetSummary("Cancel round")
	cancelRound.SetDescription("Discards the open round without scoring.")
	cancelRound.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	cancelRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(cancelRound)

	// PUT /api/round/places/{place}
	assignPlace, _ := r.NewOperationContext(http.MethodPut, "/api/round/places/{place}")
	assignPlace.SetSummary("Assign place")
	assignPlace.SetDescription("Puts a team on a place, moving it from any place it held and displacing the previous occupant.")
	assignPlace.AddReqStructure(assignPlaceInput{})
	assignPlace.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	assignPlace.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	assignPlace.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	assignPlace.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(assignPlace)

	// POST /api/round/confirm
	confirmRound, _ := r.NewOperationContext(http.MethodPost, "/api/round/confirm")
	confirmRound.SetSummary("Confirm round")
	confirmRound.SetDescription("Awards 2, 1 and 0 points and records the game. A save warning is set if the year could not be written.")
	confirmRound.AddRespStructure(ConfirmResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	confirmRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(confirmRound)

	// GET /api/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/history")
	getHistory.SetSummary("Completed games")
	getHistory.AddRespStructure([]HistoryEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHistory)

	// PUT /api/photos/group
	setGroupPhoto, _ := r.NewOperationContext(http.MethodPut, "/api/photos/group")
	setGroupPhoto.SetSummary("Set group photo")
	setGroupPhoto.AddReqStructure(PhotoRequest{})
	setGroupPhoto.AddRespStructure(MutationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	setGroupPhoto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(setGroupPhoto)

	// DELETE /api/photos/group
	clearGroupPhoto, _ := r.NewOperationContext(http.MethodDelete, "/api/photos/group")
	clearGroupPhoto.SetSummary("Clear group photo")
	clearGroupPhoto.AddRespStructure(MutationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(clearGroupPhoto)

	// PUT /api/photos/teams/{teamID}
	setTeamPhoto, _ := r.NewOperationContext(http.MethodPut, "/api/photos/teams/{teamID}")
	setTeamPhoto.SetSummary("Set team photo")
	setTeamPhoto.AddReqStructure(teamPhotoInput{})
	setTeamPhoto.AddRespStructure(MutationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	setTeamPhoto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	setTeamPhoto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(setTeamPhoto)

	// DELETE /api/photos/teams/{teamID}
	clearTeamPhoto, _ := r.NewOperationContext(http.MethodDelete, "/api/photos/teams/{teamID}")
	clearTeamPhoto.SetSummary("Clear team photo")
	clearTeamPhoto.AddReqStructure(teamPath{})
	clearTeamPhoto.AddRespStructure(MutationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	clearTeamPhoto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(clearTeamPhoto)

	// PUT /api/roster
	putRoster, _ := r.NewOperationContext(http.MethodPut, "/api/roster")
	putRoster.SetSummary("Import roster")
	putRoster.SetDescription("Replaces the teams from a roster document in JSON or YAML. Refused once a game is completed.")
	putRoster.AddRespStructure(RosterResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putRoster.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putRoster.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(putRoster)

	// GET /api/years
	listYears, _ := r.NewOperationContext(http.MethodGet, "/api/years")
	listYears.SetSummary("Archived years")
	listYears.AddRespStructure([]int{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listYears)

	// GET /api/years/{year}
	getYear, _ := r.NewOperationContext(http.MethodGet, "/api/years/{year}")
	getYear.SetSummary("Year summary")
	getYear.AddReqStructure(yearPath{})
	getYear.AddRespStructure(YearSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	getYear.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getYear)

	// DELETE /api/years/{year}
	deleteYear, _ := r.NewOperationContext(http.MethodDelete, "/api/years/{year}")
	deleteYear.SetSummary("Delete year")
	deleteYear.SetDescription("Removes a stored year. Deleting the current year starts it over.")
	deleteYear.AddReqStructure(yearPath{})
	deleteYear.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteYear.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteYear)

	// GET /api/years/{year}/export
	exportYear, _ := r.NewOperationContext(http.MethodGet, "/api/years/{year}/export")
	exportYear.SetSummary("Export year")
	exportYear.AddReqStructure(yearPath{})
	exportYear.AddRespStructure(map[string]any{}, openapi.WithHTTPStatus(http.StatusOK))
	exportYear.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(exportYear)

	// POST /api/years/{year}/import
	importYear, _ := r.NewOperationContext(http.MethodPost, "/api/years/{year}/import")
	importYear.SetSummary("Import year")
	importYear.SetDescription("Stores an exported document under the year.")
	importYear.AddReqStructure(yearPath{})
	importYear.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	importYear.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	importYear.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(importYear)

	for _, f := range []reportFormat{reportText, reportHTML, reportXLSX} {
		op, _ := r.NewOperationContext(http.MethodGet, "/api/years/{year}/report."+f.ext)
		op.SetSummary("Year report (" + f.ext + ")")
		op.AddReqStructure(yearPath{})
		op.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType(f.contentType))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		_ = r.AddOperation(op)
	}

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream announcing every ledger change.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/operator/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/operator/login")
	postLogin.SetSummary("Operator login")
	postLogin.SetDescription("Checks the operator PIN. Sets operator_session cookie.")
	postLogin.AddReqStructure(OperatorLoginRequest{})
	postLogin.AddRespStructure(OperatorResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/operator/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/operator/logout")
	postLogout.SetSummary("Operator logout")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/operator
	getOperator, _ := r.NewOperationContext(http.MethodGet, "/api/operator")
	getOperator.SetSummary("Operator state")
	getOperator.AddRespStructure(OperatorResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getOperator)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
