package pavilion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/usecase"
)

func TestVerifyAccessToken(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"active": true,
			"user_id": "user-cap-mum",
			"display_name": "MUM Captain",
			"role": "captain",
			"team_ids": ["t20-mum"]
		}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:  server.URL,
		CacheTTL: time.Minute,
	})

	principal, err := client.VerifyAccessToken(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "user-cap-mum" {
		t.Fatalf("unexpected user id: %s", principal.UserID)
	}
	if principal.Role != user.RoleCaptain {
		t.Fatalf("unexpected role: %s", principal.Role)
	}
	if len(principal.TeamIDs) != 1 || principal.TeamIDs[0] != "t20-mum" {
		t.Fatalf("unexpected team ids: %v", principal.TeamIDs)
	}

	if _, err := client.VerifyAccessToken(context.Background(), "valid-token"); err != nil {
		t.Fatalf("verify cached: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("cached verification must not re-introspect: calls=%d", got)
	}
}

func TestVerifyAccessTokenDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.VerifyAccessToken(context.Background(), "expired-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("got err=%v want ErrUnauthorized", err)
	}
}

func TestVerifyAccessTokenInactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"active": false}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.VerifyAccessToken(context.Background(), "revoked-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("got err=%v want ErrUnauthorized", err)
	}
}

func TestVerifyAccessTokenUnknownRoleDowngrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"active": true, "user_id": "user-x", "role": "superuser"}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	principal, err := client.VerifyAccessToken(context.Background(), "odd-role-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.Role != user.RoleViewer {
		t.Fatalf("unknown role must downgrade to viewer, got %s", principal.Role)
	}
}

func TestVerifyAccessTokenEmpty(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://localhost:0"})

	if _, err := client.VerifyAccessToken(context.Background(), "  "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("got err=%v want ErrUnauthorized", err)
	}
}
