package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/infrastructure/repository/memory"
	"github.com/cricbid/auction-platform/internal/platform/cache"
	idgen "github.com/cricbid/auction-platform/internal/platform/id"
	"github.com/cricbid/auction-platform/internal/realtime"
	"github.com/cricbid/auction-platform/internal/session"
	"github.com/cricbid/auction-platform/internal/usecase"
)

type staticVerifier struct {
	principals map[string]user.Principal
}

func (v *staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := v.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auctionRepo := memory.NewAuctionRepository(memory.SeedAuctions())
	bidRepo := memory.NewBidRepository()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	tournamentRepo := memory.NewTournamentRepository(memory.SeedTournaments())

	hub := realtime.NewHub(16)
	gen := idgen.NewRandomGenerator()
	registry := session.NewRegistry(session.Stores{
		Auctions: auctionRepo,
		Bids:     bidRepo,
		Teams:    teamRepo,
		Players:  playerRepo,
	}, hub, gen, logger, session.Config{TickInterval: time.Hour})
	t.Cleanup(registry.Shutdown)

	snapshots := cache.NewStore(50 * time.Millisecond)
	auctionService := usecase.NewAuctionService(auctionRepo, bidRepo, registry, hub, snapshots, logger)
	bidService := usecase.NewBidService(auctionRepo, teamRepo, registry, snapshots, logger)
	tournamentService := usecase.NewTournamentService(tournamentRepo, teamRepo, playerRepo)
	feedImportService := usecase.NewFeedImportService(nil, playerRepo, tournamentRepo, logger)

	handler := NewHandler(auctionService, bidService, tournamentService, feedImportService, logger)
	verifier := &staticVerifier{principals: map[string]user.Principal{
		"auctioneer-token": {UserID: "user-auctioneer", Role: user.RoleAuctioneer},
		"captain-token":    {UserID: "user-cap-mum", Role: user.RoleCaptain, TeamIDs: []string{"t20-mum"}},
		"viewer-token":     {UserID: "user-fan", Role: user.RoleViewer},
	}}

	return NewRouter(handler, verifier, gen, logger, []string{"*"}, "job-secret")
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
		}
	}

	return rec, decoded
}

func dataObject(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func TestTournamentReads(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/v1/tournaments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) == 0 {
		t.Fatalf("expected at least one tournament, got %v", body["data"])
	}

	rec, body = doJSON(t, router, http.MethodGet, "/v1/tournaments/"+memory.TournamentIDPremierT20+"/teams", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	teams, ok := body["data"].([]any)
	if !ok || len(teams) != 8 {
		t.Fatalf("expected 8 teams, got %v", body["data"])
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/v1/tournaments/unknown", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestAuctionLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	auctionPath := "/v1/auctions/" + memory.AuctionIDPremierT20

	t.Run("pending auction is publicly readable", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodGet, auctionPath, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := dataObject(t, body)["status"]; got != "pending" {
			t.Fatalf("expected pending status, got %v", got)
		}
	})

	t.Run("start requires auth", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, auctionPath+"/start", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("viewer cannot start", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, auctionPath+"/start", "viewer-token", "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
	})

	t.Run("auctioneer starts the auction", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodPost, auctionPath+"/start", "auctioneer-token", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body=%v)", rec.Code, body)
		}
		data := dataObject(t, body)
		if data["status"] != "active" {
			t.Fatalf("expected active status, got %v", data["status"])
		}
		if data["currentPlayerId"] == "" || data["currentPlayerId"] == nil {
			t.Fatalf("expected a current player, got %v", data["currentPlayerId"])
		}
	})

	currentPlayer := func() string {
		_, body := doJSON(t, router, http.MethodGet, auctionPath, "", "")
		id, _ := dataObject(t, body)["currentPlayerId"].(string)
		return id
	}

	t.Run("captain places the opening bid", func(t *testing.T) {
		payload := fmt.Sprintf(`{"player_id":%q,"team_id":"t20-mum","amount":20}`, currentPlayer())
		rec, body := doJSON(t, router, http.MethodPost, auctionPath+"/bids", "captain-token", payload)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d (body=%v)", rec.Code, body)
		}
		data := dataObject(t, body)
		bidObj, ok := data["bid"].(map[string]any)
		if !ok {
			t.Fatalf("expected bid in response, got %v", data)
		}
		if got, _ := bidObj["amount"].(float64); got != 20 {
			t.Fatalf("expected amount 20, got %v", bidObj["amount"])
		}
		if winning, _ := bidObj["isWinning"].(bool); !winning {
			t.Fatalf("expected the new bid to lead the round")
		}
	})

	t.Run("low bid is rejected with the required amount", func(t *testing.T) {
		payload := fmt.Sprintf(`{"player_id":%q,"team_id":"t20-mum","amount":21}`, currentPlayer())
		rec, body := doJSON(t, router, http.MethodPost, auctionPath+"/bids", "captain-token", payload)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d (body=%v)", rec.Code, body)
		}
		errorObj := body["error"].(map[string]any)
		items := errorObj["errors"].([]any)
		item := items[0].(map[string]any)
		if got, _ := item["requiredAmount"].(float64); got != 25 {
			t.Fatalf("expected requiredAmount=25, got %v", item["requiredAmount"])
		}
	})

	t.Run("captain cannot bid for a rival team", func(t *testing.T) {
		payload := fmt.Sprintf(`{"player_id":%q,"team_id":"t20-che","amount":25}`, currentPlayer())
		rec, _ := doJSON(t, router, http.MethodPost, auctionPath+"/bids", "captain-token", payload)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
	})

	t.Run("auctioneer sells to the leading bid", func(t *testing.T) {
		soldPlayer := currentPlayer()
		rec, body := doJSON(t, router, http.MethodPost, auctionPath+"/resolve", "auctioneer-token", `{"decision":"sell"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body=%v)", rec.Code, body)
		}
		data := dataObject(t, body)
		sold, ok := data["sold"].([]any)
		if !ok || len(sold) != 1 {
			t.Fatalf("expected one sold lot, got %v", data["sold"])
		}
		lot := sold[0].(map[string]any)
		if lot["playerId"] != soldPlayer {
			t.Fatalf("expected sold player %s, got %v", soldPlayer, lot["playerId"])
		}
		if lot["teamId"] != "t20-mum" {
			t.Fatalf("expected buyer t20-mum, got %v", lot["teamId"])
		}
		if next, _ := data["currentPlayerId"].(string); next == "" || next == soldPlayer {
			t.Fatalf("expected a new round to open, got current=%v", next)
		}
	})

	t.Run("unsold without a bid then requeue", func(t *testing.T) {
		unsoldPlayer := currentPlayer()
		rec, _ := doJSON(t, router, http.MethodPost, auctionPath+"/resolve", "auctioneer-token", `{"decision":"unsold"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		payload := fmt.Sprintf(`{"player_id":%q}`, unsoldPlayer)
		rec, body := doJSON(t, router, http.MethodPost, auctionPath+"/unsold/requeue", "auctioneer-token", payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body=%v)", rec.Code, body)
		}
		if unsold, _ := dataObject(t, body)["unsold"].([]any); len(unsold) != 0 {
			t.Fatalf("expected empty unsold set after requeue, got %v", unsold)
		}
	})

	t.Run("pause and resume", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodPost, auctionPath+"/pause", "auctioneer-token", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := dataObject(t, body)["status"]; got != "paused" {
			t.Fatalf("expected paused, got %v", got)
		}

		rec, body = doJSON(t, router, http.MethodPost, auctionPath+"/resume", "auctioneer-token", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := dataObject(t, body)["status"]; got != "active" {
			t.Fatalf("expected active, got %v", got)
		}
	})

	t.Run("double start conflicts", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, auctionPath+"/start", "auctioneer-token", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("bid ledger is readable", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodGet, auctionPath+"/bids", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		bids, ok := body["data"].([]any)
		if !ok || len(bids) == 0 {
			t.Fatalf("expected recorded bids, got %v", body["data"])
		}
	})
}

func TestImportPlayersJobEndpoint(t *testing.T) {
	router := newTestRouter(t)
	path := "/v1/internal/jobs/import-players"
	payload := fmt.Sprintf(`{"tournament_id":%q,"provider_ref":"ipt-2026"}`, memory.TournamentIDPremierT20)

	t.Run("missing token", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, path, "", payload)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("feed not configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
		req.Header.Set("X-Internal-Job-Token", "job-secret")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d (body=%s)", rec.Code, rec.Body.String())
		}
	})
}
