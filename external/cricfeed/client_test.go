package cricfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cricbid/auction-platform/internal/platform/logging"
)

func TestFetchTournamentPlayersPaginates(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if !strings.Contains(r.URL.Path, "/tournaments/ipl-2026/players") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer feed-token" {
			t.Errorf("unexpected auth header: %s", got)
		}

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"data": [
				{"id": "p-%s-1", "full_name": "Player %s One", "country_code": "IN", "playing_role": "batter", "base_price": 50},
				{"id": "p-%s-2", "full_name": "Player %s Two", "country_code": "AU", "playing_role": "bowler", "base_price": 40}
			],
			"meta": {"page": %s, "total_pages": 3}
		}`, page, page, page, page, page)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "feed-token",
		Workers: 2,
		Logger:  logging.NewNop(),
	})

	players, err := client.FetchTournamentPlayers(context.Background(), "ipl-2026")
	if err != nil {
		t.Fatalf("fetch players: %v", err)
	}
	if len(players) != 6 {
		t.Fatalf("unexpected player count: got=%d want=6", len(players))
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("unexpected request count: got=%d want=3", got)
	}

	seen := make(map[string]bool, len(players))
	for _, p := range players {
		seen[p.ExternalID] = true
		if p.FullName == "" || p.Role == "" {
			t.Fatalf("incomplete player mapping: %+v", p)
		}
	}
	for _, id := range []string{"p-1-1", "p-2-1", "p-3-2"} {
		if !seen[id] {
			t.Fatalf("missing player %s in %v", id, players)
		}
	}
}

func TestFetchTournamentPlayersClientErrorIsFinal(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	if _, err := client.FetchTournamentPlayers(context.Background(), "ipl-2026"); err == nil {
		t.Fatal("expected an error for status 401")
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("client errors must not retry: requests=%d", got)
	}
}

func TestFetchTournamentPlayersRetriesServerErrors(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [{"id": "p-1", "full_name": "Solo Player", "country_code": "IN", "playing_role": "keeper", "base_price": 30}], "meta": {"page": 1, "total_pages": 1}}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	players, err := client.FetchTournamentPlayers(context.Background(), "ipl-2026")
	if err != nil {
		t.Fatalf("fetch players: %v", err)
	}
	if len(players) != 1 || players[0].ExternalID != "p-1" {
		t.Fatalf("unexpected players: %+v", players)
	}
	if got := requests.Load(); got != 2 {
		t.Fatalf("unexpected request count: got=%d want=2", got)
	}
}
