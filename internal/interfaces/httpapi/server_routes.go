package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/roster", handler.ListRoster)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/scores", handler.ListTeamScores)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/scores/daily", handler.ListDailyScores)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/scores/live", handler.ListLiveStats)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/processed/{date}", handler.GetProcessedDate)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/score-daily", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDailyScoreJob)))
	mux.Handle("POST /v1/internal/jobs/score-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLiveScoreJob)))
	mux.Handle("POST /v1/internal/jobs/score-daily/league", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDailyScoreLeagueJob)))
	mux.Handle("POST /v1/internal/jobs/score-live/league", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLiveScoreLeagueJob)))
	mux.Handle("POST /v1/internal/jobs/reprocess", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReprocessJob)))
}
