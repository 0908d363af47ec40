package httpapi

import (
	"net/http"

	idgen "github.com/cricbid/auction-platform/internal/platform/id"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, viewerIDs idgen.Generator) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/teams", handler.ListTeamsByTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/players", handler.ListPlayersByTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/auctions", handler.ListAuctionsByTournament)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)

	mux.HandleFunc("GET /v1/auctions/{auctionID}", handler.GetAuction)
	mux.HandleFunc("GET /v1/auctions/{auctionID}/bids", handler.ListAuctionBids)
	mux.HandleFunc("GET /v1/auctions/{auctionID}/players/{playerID}/bids", handler.ListPlayerBids)

	// The event stream admits anonymous spectators under minted viewer ids.
	mux.Handle("GET /v1/auctions/{auctionID}/stream", AllowViewer(verifier, viewerIDs, http.HandlerFunc(handler.StreamAuction)))
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/auctions/{auctionID}/bids", RequireAuth(verifier, http.HandlerFunc(handler.PlaceBid)))
	mux.Handle("POST /v1/auctions/{auctionID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/pause", RequireAuth(verifier, http.HandlerFunc(handler.PauseAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/resume", RequireAuth(verifier, http.HandlerFunc(handler.ResumeAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/advance", RequireAuth(verifier, http.HandlerFunc(handler.AdvanceAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/resolve", RequireAuth(verifier, http.HandlerFunc(handler.ResolveRound)))
	mux.Handle("POST /v1/auctions/{auctionID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/unsold/requeue", RequireAuth(verifier, http.HandlerFunc(handler.RequeueUnsoldPlayer)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/import-players", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunImportPlayersJob)))
}
