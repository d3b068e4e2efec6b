package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/players", handler.RegisterPlayer)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/picks", handler.ListPicks)
	mux.HandleFunc("GET /v1/players/{playerID}/picks/{gameweekID}", handler.GetPick)
	mux.HandleFunc("PUT /v1/players/{playerID}/picks/{gameweekID}", handler.SetPick)
	mux.HandleFunc("DELETE /v1/players/{playerID}/picks/{gameweekID}", handler.RemovePick)
	mux.HandleFunc("GET /v1/players/{playerID}/picks/{gameweekID}/status", handler.GetPickStatus)
	mux.HandleFunc("GET /v1/gameweeks/{gameweekID}/fixtures", handler.ListFixturesByGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{gameweekID}/deadline", handler.GetGameweekDeadline)
	mux.HandleFunc("GET /v1/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/standings/snapshot", handler.GetStandingsSnapshot)
	mux.HandleFunc("GET /v1/settings", handler.GetSettings)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/autopick-sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAutopickSweepJob)))
	mux.Handle("POST /v1/internal/jobs/sync-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncResultsJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshStandingsJob)))
	mux.Handle("POST /v1/internal/jobs/schedule-sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScheduleSweepJob)))
	mux.Handle("PUT /v1/internal/admin/settings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpdateSettings)))
	mux.Handle("POST /v1/internal/admin/fixtures", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ImportFixtures)))
	mux.Handle("PUT /v1/internal/admin/players/{playerID}/lives", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.AdjustPlayerLives)))
}
