package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/history", handler.ListTeamHistory)
	mux.HandleFunc("GET /v1/rankings", handler.GetLeaderboards)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedTeamRoutes(mux, handler, verifier)
	registerAuthorizedProposalRoutes(mux, handler, verifier)
	registerAuthorizedMatchRoutes(mux, handler, verifier)
	mux.Handle("GET /v1/rankings/members/{memberID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMemberRanking)))
}

func registerAuthorizedTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTeamOverview)))
	mux.Handle("PUT /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeam)))
	mux.Handle("DELETE /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.DisbandTeam)))
	mux.Handle("PUT /v1/teams/{teamID}/match-seeking", RequireAuth(verifier, http.HandlerFunc(handler.SetMatchSeeking)))
	mux.Handle("PUT /v1/teams/{teamID}/recruiting", RequireAuth(verifier, http.HandlerFunc(handler.SetRecruiting)))
	mux.Handle("POST /v1/teams/{teamID}/participations", RequireAuth(verifier, http.HandlerFunc(handler.RequestParticipation)))
	mux.Handle("POST /v1/teams/{teamID}/participations/{memberID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveParticipation)))
	mux.Handle("POST /v1/teams/{teamID}/participations/{memberID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineParticipation)))
	mux.Handle("DELETE /v1/teams/{teamID}/participations/{memberID}", RequireAuth(verifier, http.HandlerFunc(handler.ReleaseMember)))
	mux.Handle("DELETE /v1/teams/{teamID}/participations/me", RequireAuth(verifier, http.HandlerFunc(handler.LeaveTeam)))
	mux.Handle("GET /v1/members/me/participations", RequireAuth(verifier, http.HandlerFunc(handler.ListMyParticipations)))
	mux.Handle("GET /v1/teams/{teamID}/proposals/incoming", RequireAuth(verifier, http.HandlerFunc(handler.ListIncomingProposals)))
	mux.Handle("GET /v1/teams/{teamID}/proposals/outgoing", RequireAuth(verifier, http.HandlerFunc(handler.ListOutgoingProposals)))
	mux.Handle("GET /v1/teams/{teamID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListScheduledMatches)))
}

func registerAuthorizedProposalRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/proposals", RequireAuth(verifier, http.HandlerFunc(handler.Propose)))
	mux.Handle("POST /v1/proposals/{proposalID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveProposal)))
	mux.Handle("POST /v1/proposals/{proposalID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectProposal)))
	mux.Handle("DELETE /v1/proposals/{proposalID}", RequireAuth(verifier, http.HandlerFunc(handler.WithdrawProposal)))
}

func registerAuthorizedMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/matches/{matchID}/end", RequireAuth(verifier, http.HandlerFunc(handler.AcknowledgeMatchEnd)))
	mux.Handle("PUT /v1/matches/{matchID}/lineups/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.SetLineup)))
	mux.Handle("POST /v1/matches/{matchID}/score", RequireAuth(verifier, http.HandlerFunc(handler.ReportScore)))
	mux.Handle("PUT /v1/matches/{matchID}/score", RequireAuth(verifier, http.HandlerFunc(handler.CorrectScore)))
	mux.Handle("POST /v1/matches/{matchID}/score/confirm", RequireAuth(verifier, http.HandlerFunc(handler.ConfirmScore)))
	mux.Handle("POST /v1/matches/{matchID}/result", RequireAuth(verifier, http.HandlerFunc(handler.RecordResult)))
}
