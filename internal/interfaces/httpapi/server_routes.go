package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagues)))
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.GetRoster)))
	mux.Handle("GET /v1/leagues/{leagueID}/eligibility/{position}", RequireAuth(verifier, http.HandlerFunc(handler.GetEligibility)))
	mux.Handle("POST /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.AddMember)))
	mux.Handle("PUT /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.SwapMember)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/members/{memberID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveMember)))
	mux.Handle("GET /v1/leagues/{leagueID}/performance", RequireAuth(verifier, http.HandlerFunc(handler.ListPerformanceWeeks)))
	mux.Handle("GET /v1/leagues/{leagueID}/performance/{week}", RequireAuth(verifier, http.HandlerFunc(handler.GetWeeklyPerformance)))
}

func registerLineupRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/lineup/toggle", RequireAuth(verifier, http.HandlerFunc(handler.ToggleLineup)))
	mux.Handle("POST /v1/leagues/{leagueID}/lineup/swap", RequireAuth(verifier, http.HandlerFunc(handler.SwapLineup)))
}

func registerAdviceRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/advice", RequireAuth(verifier, http.HandlerFunc(handler.GetAdvice)))
	mux.Handle("POST /v1/leagues/{leagueID}/advice/apply", RequireAuth(verifier, http.HandlerFunc(handler.ApplyAdvice)))
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/catalog/{position}", RequireAuth(verifier, http.HandlerFunc(handler.ListCatalog)))
}
